package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"upperroom/internal/availability"
	"upperroom/internal/bookings/service"
	"upperroom/pkg/config"
	apperrors "upperroom/pkg/errors"
	httputil "upperroom/pkg/http"
	"upperroom/pkg/model"
)

// BookingHandler serves the public booking surface. No authentication:
// anyone can reserve a slot or view the anonymized schedule.
type BookingHandler struct {
	bookings     service.BookingService
	availability availability.Service
	cfg          *config.Config
}

func NewBookingHandler(
	bookings service.BookingService,
	availabilitySvc availability.Service,
	cfg *config.Config,
) *BookingHandler {
	return &BookingHandler{
		bookings:     bookings,
		availability: availabilitySvc,
		cfg:          cfg,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", h.Create)
	router.GET("/api/bookings/public", h.Public)
	router.GET("/api/bookings/availability", h.Availability)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.bookings.Reserve(r.Context(), &req)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) Public(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.bookings.PublicBookings(r.Context())
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, bookings)
}

// Availability returns the bookable grid. Without explicit bounds the
// window runs from today through the booking horizon.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	start := query.Get("start_date")
	end := query.Get("end_date")
	if start == "" || end == "" {
		today := time.Now().In(h.cfg.Location)
		start = today.Format(model.DateLayout)
		end = today.AddDate(0, 0, config.BookingHorizonDays).Format(model.DateLayout)
	}

	slots, err := h.availability.Availability(r.Context(), start, end)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, slots)
}
