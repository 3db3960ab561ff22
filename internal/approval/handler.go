package approval

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/church-management/internal"
	"github.com/frahmantamala/church-management/internal/auth"
	"github.com/frahmantamala/church-management/internal/transport"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	if baseHandler == nil {
		baseHandler = transport.NewBaseHandler(slog.Default())
	}
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// ListPending handles GET /admin/pending-users
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	pending, err := h.Service.ListPending(actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, pending)
}

// Approve handles POST /admin/users/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, appErr := transport.PathID(chi.URLParam(r, "id"))
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	// an empty or malformed body still reaches the service, which looks the
	// user up before checking the role
	var dto ApproveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil && !errors.Is(err, io.EOF) {
		h.Logger.Debug("Approve: unreadable body", "error", err, "user_id", id)
		dto = ApproveDTO{}
	}

	detail, err := h.Service.Approve(r.Context(), actor, id, dto.Role)
	if err != nil {
		h.Logger.Info("Approve: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteDetail(w, http.StatusOK, detail)
}

// Reject handles DELETE /admin/users/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, appErr := transport.PathID(chi.URLParam(r, "id"))
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	if err := h.Service.Reject(r.Context(), actor, id); err != nil {
		h.Logger.Info("Reject: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSuperusers handles GET /superusers
func (h *Handler) ListSuperusers(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	list, err := h.Service.ListSuperusers(actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, list)
}

// Promote handles POST /superusers
func (h *Handler) Promote(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	var dto PromoteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteAppError(w, internal.NewValidationError("Corpo da requisição inválido.", internal.ErrCodeInvalidRequest))
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, err)
		return
	}

	detail, err := h.Service.GrantSuperuser(r.Context(), actor, dto.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteDetail(w, http.StatusOK, detail)
}

// Demote handles DELETE /superusers/{id}/demote
func (h *Handler) Demote(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, appErr := transport.PathID(chi.URLParam(r, "id"))
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	detail, err := h.Service.RevokeSuperuser(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteDetail(w, http.StatusOK, detail)
}

// PromotionCandidates handles GET /superusers/users-available
func (h *Handler) PromotionCandidates(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	candidates, err := h.Service.ListPromotionCandidates(actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, candidates)
}
