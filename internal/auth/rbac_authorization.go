package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/church-management/internal"
	"github.com/frahmantamala/church-management/internal/transport"
)

// RBACAuthorization guards routes with capability predicates. It runs after
// AuthMiddleware has placed the actor in the request context.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

func (ra *RBACAuthorization) Require(name string, capability Capability, denied *internal.AppError) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				ra.Logger.WarnContext(r.Context(), "authorization check failed: actor not found in context")
				ra.WriteAppError(w, internal.ErrInvalidToken)
				return
			}

			if !capability(actor) {
				ra.Logger.WarnContext(r.Context(), "access denied",
					"user_id", actor.ID,
					"capability", name,
					"papel", actor.Role,
					"is_superuser", actor.IsSuperuser)
				ra.WriteAppError(w, denied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireSecretary() func(http.Handler) http.Handler {
	return ra.Require("secretary", CanApprove, ErrSecretaryOnly)
}

func (ra *RBACAuthorization) RequireSuperuser() func(http.Handler) http.Handler {
	return ra.Require("superuser", CanManageSuperusers, ErrSuperuserOnly)
}

var (
	ErrSecretaryOnly = internal.NewForbiddenError("Acesso negado. Apenas secretários podem executar esta ação.", internal.ErrCodeForbidden)
	ErrSuperuserOnly = internal.NewForbiddenError("Apenas superusuários podem gerenciar superusuários.", internal.ErrCodeForbidden)
)
