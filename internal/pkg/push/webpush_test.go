package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

func testSubscription(t *testing.T, endpoint string) user.PushSubscription {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	authSecret := make([]byte, 16)
	_, err = rand.Read(authSecret)
	require.NoError(t, err)

	var sub user.PushSubscription
	sub.Endpoint = endpoint
	sub.Keys.P256dh = base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes())
	sub.Keys.Auth = base64.RawURLEncoding.EncodeToString(authSecret)
	return sub
}

func testNotifier(t *testing.T) *WebPushNotifier {
	t.Helper()
	private, public, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	return NewWebPushNotifier(Config{
		VAPIDPublicKey:  public,
		VAPIDPrivateKey: private,
		Subscriber:      "ops@example.com",
		TTL:             30,
	}, nil)
}

func TestWebPushNotifier_Delivers(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "30", r.Header.Get("TTL"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := testNotifier(t).Notify(context.Background(), testSubscription(t, srv.URL), []byte(`{"title":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestWebPushNotifier_Gone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	err := testNotifier(t).Notify(context.Background(), testSubscription(t, srv.URL), []byte(`{}`))
	assert.ErrorIs(t, err, ErrSubscriptionGone)
}

func TestWebPushNotifier_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := testNotifier(t).Notify(context.Background(), testSubscription(t, srv.URL), []byte(`{}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSubscriptionGone)
}
