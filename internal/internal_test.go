package internal_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/frahmantamala/church-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

func validConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{
			Port:              8000,
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       5 * time.Second,
		},
		Database: internal.DatabaseConfig{
			Source:       "postgres://localhost/igreja",
			MaxOpenConns: 10,
			MaxIdleConns: 2,
		},
		Security: internal.SecurityConfig{
			AccessTokenSecret:  "access-secret-access-secret-access-secret",
			RefreshTokenSecret: "refresh-secret-refresh-secret-refresh-secret",
			BCryptCost:         12,
		},
		Observability: internal.ObservabilityConfig{
			Logging: internal.LoggingConfig{Level: "info", Format: "json"},
		},
	}
}

var _ = Describe("Config", func() {
	It("accepts a complete configuration", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	It("aggregates errors from every section", func() {
		cfg := validConfig()
		cfg.Database.Source = ""
		cfg.Security.RefreshTokenSecret = cfg.Security.AccessTokenSecret
		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("database config"))
		Expect(err.Error()).To(ContainSubstring("security config"))
	})

	It("rejects idle pools larger than open pools", func() {
		cfg := validConfig()
		cfg.Database.MaxIdleConns = 50
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
	})

	It("requires a metrics path when metrics are enabled", func() {
		cfg := validConfig()
		cfg.Observability.Metrics.Enabled = true
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("metrics path")))
	})

	It("reads defaults from the environment", func() {
		GinkgoT().Setenv("HTTP_PORT", "9100")
		GinkgoT().Setenv("ACCESS_TOKEN_DURATION", "10m")
		cfg := internal.LoadConfigFromEnv()
		Expect(cfg.Server.Port).To(Equal(9100))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(10 * time.Minute))
		Expect(cfg.Observability.Metrics.Path).To(Equal("/metrics"))
	})
})

var _ = Describe("AppError", func() {
	It("matches sentinels through wrapping and copies", func() {
		wrapped := fmt.Errorf("approve: %w", internal.ErrUserNotFound.WithCause(errors.New("record not found")))
		Expect(errors.Is(wrapped, internal.ErrUserNotFound)).To(BeTrue())
		Expect(errors.Is(wrapped, internal.ErrPendingUserNotFound)).To(BeFalse())

		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
		Expect(internal.ErrUserNotFound.Cause).To(BeNil())
	})

	It("joins validation messages", func() {
		err := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "email", Message: "email is required"},
				{Field: "username", Message: "username is required"},
			}})
		Expect(err.GetDetailedMessage()).To(Equal("email is required; username is required"))
		Expect(err.Error()).To(Equal("email is required"))
	})

	It("maps each taxonomy entry to its status code", func() {
		Expect(internal.ErrInvalidRole.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(internal.ErrPermissionDenied.StatusCode).To(Equal(http.StatusForbidden))
		Expect(internal.ErrAlreadySuperuser.Type).To(Equal(internal.ErrorTypeInvalidState))
		Expect(internal.NewUnavailableError("x", internal.ErrCodeRendererMissing).StatusCode).To(Equal(http.StatusServiceUnavailable))
	})
})

var _ = Describe("WithTimeout", func() {
	It("defaults non-positive durations", func() {
		ctx, cancel := internal.WithTimeout(context.Background(), 0)
		defer cancel()
		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically("~", 5*time.Second, time.Second))
	})
})
