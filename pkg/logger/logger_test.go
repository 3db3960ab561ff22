package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	It("parses known levels and falls back to info", func() {
		Expect(parseLevel("debug")).To(Equal(slog.LevelDebug))
		Expect(parseLevel("WARN")).To(Equal(slog.LevelWarn))
		Expect(parseLevel("error")).To(Equal(slog.LevelError))
		Expect(parseLevel("verbose")).To(Equal(slog.LevelInfo))
	})

	It("returns the default logger when the context has none", func() {
		Init("info", "text")
		Expect(From(context.Background())).To(BeIdenticalTo(LoggerWrapper()))
	})

	It("stores an enriched logger in the context", func() {
		Init("info", "json")
		ctx := With(context.Background(), "request_id", "abc")
		Expect(From(ctx)).NotTo(BeIdenticalTo(LoggerWrapper()))
	})

	It("tags the request logger with the caller", func() {
		var buf bytes.Buffer
		defaultLogger = slog.New(slog.NewJSONHandler(&buf, nil))

		ctx := WithUser(context.Background(), 7, "ana")
		From(ctx).Info("hello")

		Expect(buf.String()).To(ContainSubstring(`"user_id":7`))
		Expect(buf.String()).To(ContainSubstring(`"username":"ana"`))
	})
})
