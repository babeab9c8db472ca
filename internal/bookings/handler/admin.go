package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"upperroom/internal/auth"
	"upperroom/internal/bookings/service"
	apperrors "upperroom/pkg/errors"
	httputil "upperroom/pkg/http"
	"upperroom/pkg/logger"
	"upperroom/pkg/model"
)

// JobRunner triggers the notification jobs on demand, outside their
// scheduled firing times.
type JobRunner interface {
	MemberReminderJob(ctx context.Context) error
	LeadershipSummaryJob(ctx context.Context) error
}

type AdminHandler struct {
	bookings service.BookingService
	jobs     JobRunner
	auth     *auth.Service
	logger   *logger.Logger
}

func NewAdminHandler(
	bookings service.BookingService,
	jobs JobRunner,
	authSvc *auth.Service,
	log *logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		bookings: bookings,
		jobs:     jobs,
		auth:     authSvc,
		logger:   log,
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/admin/bookings", auth.RequireAdmin(h.auth, h.List))
	router.GET("/api/admin/bookings/:id", auth.RequireAdmin(h.auth, h.Get))
	router.PUT("/api/admin/bookings/:id", auth.RequireAdmin(h.auth, h.Update))
	router.DELETE("/api/admin/bookings/:id", auth.RequireAdmin(h.auth, h.Delete))
	router.POST("/api/admin/bookings/:id/unlock", auth.RequireAdmin(h.auth, h.Unlock))
	router.POST("/api/admin/send-reminders", auth.RequireAdmin(h.auth, h.SendReminders))
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	filter := model.BookingFilter{
		Date:   query.Get("date"),
		Role:   query.Get("role"),
		Name:   query.Get("name"),
		Status: query.Get("status"),
	}

	bookings, err := h.bookings.List(r.Context(), filter)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, bookings)
}

func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.bookings.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, booking)
}

func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.bookings.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, booking)
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.bookings.Delete(r.Context(), ps.ByName("id")); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// Unlock cancels a booking so its slot becomes bookable again.
func (h *AdminHandler) Unlock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := h.bookings.Cancel(r.Context(), id); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, map[string]string{"message": "Slot unlocked", "id": id})
}

// SendReminders runs both notification jobs immediately.
func (h *AdminHandler) SendReminders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.jobs.MemberReminderJob(r.Context()); err != nil {
		h.logger.Error("Manual reminder job failed", "error", err)
		_ = httputil.WriteError(w, apperrors.Internal("Failed to send reminders", err))
		return
	}
	if err := h.jobs.LeadershipSummaryJob(r.Context()); err != nil {
		h.logger.Error("Manual summary job failed", "error", err)
		_ = httputil.WriteError(w, apperrors.Internal("Failed to send summary", err))
		return
	}
	_ = httputil.WriteSuccess(w, map[string]string{"message": "Reminders dispatched"})
}
