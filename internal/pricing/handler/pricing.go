package handler

import (
	"net/http"

	"cleanbook/internal/pricing/service"
	httputil "cleanbook/pkg/http"
	"cleanbook/pkg/logger"
	"cleanbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PricingHandler struct {
	service service.PricingService
	log     *logger.Logger
}

func NewPricingHandler(service service.PricingService, log *logger.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		log:     log,
	}
}

func (h *PricingHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.PriceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Quote", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	quote, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Quote", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, quote); err != nil {
		h.log.Error("failed to write success response", "handler", "Quote", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PricingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/pricing", h.Quote)
}
