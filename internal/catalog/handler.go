package catalog

import (
	"log/slog"
	"net/http"

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

var emptyObject = map[string]interface{}{}

// SiteConfig handles GET /configuracao
func (h *Handler) SiteConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Service.GetSiteConfig()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if cfg == nil {
		h.WriteJSON(w, http.StatusOK, emptyObject)
		return
	}
	h.WriteJSON(w, http.StatusOK, cfg)
}

// LatestDevotional handles GET /devocionais/recente
func (h *Handler) LatestDevotional(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.GetLatestDevotional()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if d == nil {
		h.WriteJSON(w, http.StatusOK, emptyObject)
		return
	}
	h.WriteJSON(w, http.StatusOK, d)
}

// Devotionals handles GET /devocionais
func (h *Handler) Devotionals(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListDevotionals()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, list)
}

// Leadership handles GET /lideranca
func (h *Handler) Leadership(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Service.ListLeadershipSections()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sections)
}

// Departments handles GET /departamentos
func (h *Handler) Departments(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.ListDepartmentsGroupedByCategory()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, groups)
}

// Agenda handles GET /agenda
func (h *Handler) Agenda(w http.ResponseWriter, r *http.Request) {
	agenda, err := h.Service.GetAgenda()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, agenda)
}
