package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"tablebook/config"
	"tablebook/infras/otel/mocks"
	"tablebook/shared/constant"
	"tablebook/transport/http/middleware"
)

func TestClientID(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "client header wins",
			headers: map[string]string{constant.RequestHeaderClientID: "pos-terminal-3"},
			remote:  "10.0.0.1:1234",
			want:    "pos-terminal-3",
		},
		{
			name:    "falls back to forwarded ip",
			headers: map[string]string{constant.RequestHeaderForwardedFor: "203.0.113.7"},
			remote:  "10.0.0.1:1234",
			want:    "203.0.113.7",
		},
		{
			name:   "falls back to remote addr",
			remote: "10.0.0.1:1234",
			want:   "10.0.0.1:1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appMiddleware := middleware.NewAppMiddleware(mocks.NewOtel(), &config.Config{}, nil)

			var got string
			handler := appMiddleware.ClientID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = r.Context().Value(constant.ContextKeyClientID).(string)
			}))

			req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
			req.RemoteAddr = tt.remote
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}
