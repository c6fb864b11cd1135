package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

// Translator resolves message IDs against the embedded locale files.
type Translator struct {
	bundle        *i18n.Bundle
	matcher       language.Matcher
	supported     []string
	defaultLocale string
}

// New loads every embedded locale. defaultLocale is used when a request
// carries no locale or one that matches nothing.
func New(defaultLocale string) (*Translator, error) {
	def, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("invalid default locale %q: %w", defaultLocale, err)
	}

	bundle := i18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", e.Name(), err)
		}
	}

	// The default goes first so it is the matcher's fallback.
	tags := []language.Tag{def}
	supported := []string{def.String()}
	for _, tag := range bundle.LanguageTags() {
		if tag != def {
			tags = append(tags, tag)
			supported = append(supported, tag.String())
		}
	}

	return &Translator{
		bundle:        bundle,
		matcher:       language.NewMatcher(tags),
		supported:     supported,
		defaultLocale: def.String(),
	}, nil
}

// Match picks the best supported locale for an Accept-Language header value.
func (t *Translator) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return t.defaultLocale
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return t.defaultLocale
	}
	_, index, confidence := t.matcher.Match(prefs...)
	if confidence == language.No {
		return t.defaultLocale
	}
	return t.supported[index]
}

// Supported lists the loaded locales, default first.
func (t *Translator) Supported() []string {
	return append([]string(nil), t.supported...)
}

// WithLocale returns a context carrying locale.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

// LocaleFromContext returns the locale stored on ctx, or "" when none is set.
func LocaleFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKey{}).(string)
	return v
}

// T translates messageID for the locale on ctx. Unknown IDs come back as-is.
func (t *Translator) T(ctx context.Context, messageID string, templateData ...map[string]any) string {
	locale := LocaleFromContext(ctx)
	if locale == "" {
		locale = t.defaultLocale
	}
	l := i18n.NewLocalizer(t.bundle, locale, t.defaultLocale)

	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(templateData) > 0 && templateData[0] != nil {
		cfg.TemplateData = templateData[0]
	}

	msg, err := l.Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}
