package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
	"github.com/frahmantamala/church-management/internal/transport"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		handler *Handler
		rbac    *RBACAuthorization
		repo    *mockUserRepository
	)

	ginkgo.BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		repo = newMockUserRepository()
		svc := NewService(repo, NewJWTTokenGenerator("a-secret", "r-secret", time.Minute, time.Hour), logger)
		handler = NewHandler(transport.NewBaseHandler(logger), svc)
		rbac = NewRBACAuthorization(logger)
	})

	login := func(username string) AuthTokens {
		req := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(`{"username":"`+username+`","password":"correct_password"}`))
		w := httptest.NewRecorder()
		handler.Login(w, req)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		var tokens AuthTokens
		gomega.Expect(json.NewDecoder(w.Body).Decode(&tokens)).To(gomega.Succeed())
		return tokens
	}

	protected := func(mw ...func(http.Handler) http.Handler) http.Handler {
		var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			gomega.Expect(ok).To(gomega.BeTrue())
			w.Write([]byte(actor.Username))
		})
		for i := len(mw) - 1; i >= 0; i-- {
			h = mw[i](h)
		}
		return handler.AuthMiddleware(h)
	}

	ginkgo.It("should return 401 with the error envelope for bad credentials", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(`{"username":"maria","password":"nope"}`))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"code":"INVALID_CREDENTIALS"`))
	})

	ginkgo.It("should refresh a token pair", func() {
		tokens := login("maria")
		req := httptest.NewRequest(http.MethodPost, "/api/token/refresh", strings.NewReader(`{"refresh":"`+tokens.Refresh+`"}`))
		w := httptest.NewRecorder()

		handler.RefreshToken(w, req)

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"access"`))
	})

	ginkgo.It("should place the actor in the context", func() {
		tokens := login("maria")
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.Access)
		w := httptest.NewRecorder()

		protected().ServeHTTP(w, req)

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(w.Body.String()).To(gomega.Equal("maria"))
	})

	ginkgo.It("should reject requests without a bearer token", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		w := httptest.NewRecorder()

		protected().ServeHTTP(w, req)

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("should forbid non-secretaries on secretary routes", func() {
		tokens := login("maria")
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.Access)
		w := httptest.NewRecorder()

		protected(rbac.RequireSecretary()).ServeHTTP(w, req)

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.It("should evaluate the stored role rather than the token claim", func() {
		tokens := login("maria")
		repo.users[1].Role = userDatamodel.RoleSecretary
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.Access)
		w := httptest.NewRecorder()

		protected(rbac.RequireSecretary()).ServeHTTP(w, req)

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("should let superusers through superuser routes", func() {
		tokens := login("secretaria")
		req := httptest.NewRequest(http.MethodGet, "/api/superusers", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.Access)
		w := httptest.NewRecorder()

		protected(rbac.RequireSuperuser()).ServeHTTP(w, req)

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
	})
})
