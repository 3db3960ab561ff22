package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/frahmantamala/church-management/internal"
)

var ErrRequestTimeout = &internal.AppError{
	Type:       internal.ErrorTypeUnavailable,
	Code:       internal.ErrCodeRequestTimeout,
	Message:    "Tempo limite da requisição excedido.",
	StatusCode: http.StatusGatewayTimeout,
}

// Timeout bounds every request context. Context-aware queries such as the
// dashboard aggregate are cancelled along with it. When the deadline passes
// and the handler has not answered, the client gets a 504 envelope.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := internal.WithTimeout(r.Context(), d)
			defer cancel()

			tw := &timeoutWriter{ResponseWriter: w}
			next.ServeHTTP(tw, r.WithContext(ctx))

			if tw.wroteHeader || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return
			}
			status, body := ErrRequestTimeout.ToHTTPResponse()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		})
	}
}

// timeoutWriter records whether the handler started a response.
type timeoutWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.wroteHeader = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.wroteHeader = true
	return tw.ResponseWriter.Write(b)
}
