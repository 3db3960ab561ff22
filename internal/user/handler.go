package user

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

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

var errInvalidBody = internal.NewValidationError("Corpo da requisição inválido.", internal.ErrCodeInvalidRequest)

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Info("Register: invalid request body", "error", err)
		h.WriteAppError(w, errInvalidBody)
		return
	}

	created, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// GetMe handles GET /users/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}

	profile, err := h.Service.GetProfile(actor)
	if err != nil {
		h.Logger.Error("GetMe: service error", "error", err, "user_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

// UpdateMe handles PUT and PATCH /users/me. Both are partial updates.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}

	var patch ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.WriteAppError(w, errInvalidBody)
		return
	}

	profile, err := h.Service.UpdateProfile(actor, patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

// AdminList handles GET /admin/users?papel=&aprovado=&ativo=&search=
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	filter, appErr := parseFilter(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	users, err := h.Service.AdminList(actor, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, users)
}

// AdminCreate handles POST /admin/users
func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	var dto AdminCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteAppError(w, errInvalidBody)
		return
	}

	created, err := h.Service.AdminCreate(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// AdminGet handles GET /admin/users/{id}
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, appErr := transport.PathID(chi.URLParam(r, "id"))
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	u, err := h.Service.AdminGet(actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// AdminUpdate handles PUT and PATCH /admin/users/{id}
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, appErr := transport.PathID(chi.URLParam(r, "id"))
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto AdminUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteAppError(w, errInvalidBody)
		return
	}

	u, err := h.Service.AdminUpdate(actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// AdminDelete handles DELETE /admin/users/{id}
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())
	id, appErr := transport.PathID(chi.URLParam(r, "id"))
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	if err := h.Service.AdminDelete(actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Dashboard handles GET /admin/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFromContext(r.Context())

	stats, err := h.Service.DashboardStats(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func parseFilter(r *http.Request) (Filter, *internal.AppError) {
	q := r.URL.Query()
	filter := Filter{Search: strings.TrimSpace(q.Get("search"))}

	if role := q.Get("papel"); role != "" {
		filter.Role = &role
	}

	var appErr *internal.AppError
	if filter.Approved, appErr = parseBoolParam(q.Get("aprovado"), "aprovado"); appErr != nil {
		return filter, appErr
	}
	if filter.Active, appErr = parseBoolParam(q.Get("ativo"), "ativo"); appErr != nil {
		return filter, appErr
	}
	return filter, nil
}

func parseBoolParam(raw, name string) (*bool, *internal.AppError) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, internal.NewValidationFieldError(name, name+" deve ser true ou false", internal.ErrCodeInvalidRequest)
	}
	return &v, nil
}
