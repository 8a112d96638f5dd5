package handler

import (
	"net/http"

	"cleanbook/internal/catalog/service"
	httputil "cleanbook/pkg/http"
	"cleanbook/pkg/logger"
	"cleanbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ServicesResponse struct {
	Services []*model.Service `json:"services"`
}

type ServiceResponse struct {
	Service *model.Service `json:"service"`
}

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log,
	}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	services, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, ServicesResponse{Services: services}); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) GetBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	svc, err := h.service.GetBySlug(r.Context(), ps.ByName("slug"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBySlug", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, ServiceResponse{Service: svc}); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBySlug", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/services", h.List)
	router.GET("/api/services/:slug", h.GetBySlug)
}
