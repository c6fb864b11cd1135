package push

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/chat"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// ErrSubscriptionGone is returned when the push service reports that the
// browser subscription no longer exists.
var ErrSubscriptionGone = errors.New("push subscription is gone")

type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
	TTL             int
}

// WebPushNotifier sends VAPID-signed web push messages.
type WebPushNotifier struct {
	cfg    Config
	client *http.Client
}

func NewWebPushNotifier(cfg Config, client *http.Client) *WebPushNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebPushNotifier{cfg: cfg, client: client}
}

func (n *WebPushNotifier) Notify(ctx context.Context, sub user.PushSubscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   sub.Keys.Auth,
			P256dh: sub.Keys.P256dh,
		},
	}, &webpush.Options{
		HTTPClient:      n.client,
		Subscriber:      n.cfg.Subscriber,
		VAPIDPublicKey:  n.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: n.cfg.VAPIDPrivateKey,
		TTL:             n.cfg.TTL,
	})
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrSubscriptionGone
	case resp.StatusCode >= 300:
		return fmt.Errorf("push service responded with status %d", resp.StatusCode)
	}
	return nil
}

// NoopNotifier is used when VAPID keys are not configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, user.PushSubscription, []byte) error { return nil }

var (
	_ chat.Notifier = (*WebPushNotifier)(nil)
	_ chat.Notifier = NoopNotifier{}
)
