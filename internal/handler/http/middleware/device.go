package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

const DeviceKeyHeader = "X-Device-Key"

// DeviceKey guards scanner endpoints. An empty key leaves them open.
func DeviceKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			got := r.Header.Get(DeviceKeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				response.Unauthorized(w, "Invalid device key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
