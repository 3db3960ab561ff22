package document

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/church-management/internal"
	"github.com/frahmantamala/church-management/internal/auth"
	"github.com/frahmantamala/church-management/internal/transport"
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

// InvitationLetter handles POST /documentos/gerar-carta-convite
func (h *Handler) InvitationLetter(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}
	if !h.Service.Available() {
		h.WriteAppError(w, ErrRendererUnavailable)
		return
	}

	var dto InvitationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Info("InvitationLetter: invalid request body", "error", err)
		h.WriteAppError(w, internal.NewValidationError("Corpo da requisição inválido.", internal.ErrCodeInvalidRequest))
		return
	}

	file, err := h.Service.InvitationLetter(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WritePDF(w, file.Name, file.Content)
}

// BaptismCertificate handles POST /documentos/gerar-certificado-batismo
func (h *Handler) BaptismCertificate(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}

	file, err := h.Service.BaptismCertificate(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WritePDF(w, file.Name, file.Content)
}
