package handler

import (
	"net/http"
	"strings"

	"cleanbook/internal/availability/service"
	"cleanbook/pkg/calendar"
	apperrors "cleanbook/pkg/errors"
	httputil "cleanbook/pkg/http"
	"cleanbook/pkg/logger"
	"cleanbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SlotsResponse struct {
	Slots []model.SlotSummary `json:"slots"`
}

type TeamsResponse struct {
	Availability []model.TeamAvailability `json:"availability"`
}

type RangeResponse struct {
	Availability map[string][]model.SlotSummary `json:"availability"`
}

type NextSlotResponse struct {
	NextSlot *model.SlotRef `json:"nextSlot"`
}

type DatesResponse struct {
	Dates []string `json:"dates"`
}

type DateStatusResponse struct {
	Date        string `json:"date"`
	FullyBooked bool   `json:"fully_booked"`
}

type AvailabilityHandler struct {
	service service.QueryService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.QueryService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// Get serves the four query shapes of /api/availability: next, days, date+time_slot and date.
func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	if httputil.QueryBool(r, "next") {
		h.next(w, r, query.Get("service_id"))
		return
	}

	days, hasDays, err := httputil.QueryInt(r, "days")
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}
	if hasDays {
		h.listRange(w, r, days)
		return
	}

	date := strings.TrimSpace(query.Get("date"))
	if date == "" {
		h.writeError(w, "Get", apperrors.InvalidInput("One of date, days or next is required"))
		return
	}

	if timeSlot := strings.TrimSpace(query.Get("time_slot")); timeSlot != "" {
		teams, err := h.service.IsSlotOpen(r.Context(), date, timeSlot)
		if err != nil {
			h.writeError(w, "Get", err)
			return
		}
		if err := httputil.WriteSuccess(w, TeamsResponse{Availability: teams}); err != nil {
			h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
		}
		return
	}

	slots, err := h.service.ListOpenSlots(r.Context(), date)
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}
	if err := httputil.WriteSuccess(w, SlotsResponse{Slots: slots}); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) next(w http.ResponseWriter, r *http.Request, serviceID string) {
	slot, err := h.service.NextOpenSlot(r.Context(), serviceID)
	if err != nil {
		h.writeError(w, "Next", err)
		return
	}
	if err := httputil.WriteSuccess(w, NextSlotResponse{NextSlot: slot}); err != nil {
		h.log.Error("failed to write success response", "handler", "Next", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) listRange(w http.ResponseWriter, r *http.Request, days int) {
	availability, err := h.service.ListRange(r.Context(), days)
	if err != nil {
		h.writeError(w, "ListRange", err)
		return
	}
	if err := httputil.WriteSuccess(w, RangeResponse{Availability: availability}); err != nil {
		h.log.Error("failed to write success response", "handler", "ListRange", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) ListDates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	days, hasDays, err := httputil.QueryInt(r, "days")
	if err != nil {
		h.writeError(w, "ListDates", err)
		return
	}
	if !hasDays {
		days = calendar.MaxHorizonDays
	}

	dates, err := h.service.ListOpenDates(r.Context(), days)
	if err != nil {
		h.writeError(w, "ListDates", err)
		return
	}
	if err := httputil.WriteSuccess(w, DatesResponse{Dates: dates}); err != nil {
		h.log.Error("failed to write success response", "handler", "ListDates", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) DateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")

	full, err := h.service.IsDateFullyBooked(r.Context(), date)
	if err != nil {
		h.writeError(w, "DateStatus", err)
		return
	}
	if err := httputil.WriteSuccess(w, DateStatusResponse{Date: date, FullyBooked: full}); err != nil {
		h.log.Error("failed to write success response", "handler", "DateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/availability", h.Get)
	router.GET("/api/availability/dates", h.ListDates)
	router.GET("/api/availability/dates/:date", h.DateStatus)
}
