package reports

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"upperroom/internal/auth"
	apperrors "upperroom/pkg/errors"
	httputil "upperroom/pkg/http"
	"upperroom/pkg/logger"
)

type Handler struct {
	service *ReportService
	auth    *auth.Service
	logger  *logger.Logger
}

func NewHandler(svc *ReportService, authSvc *auth.Service, log *logger.Logger) *Handler {
	return &Handler{service: svc, auth: authSvc, logger: log}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/admin/analytics", auth.RequireAdmin(h.auth, h.Analytics))
	router.GET("/api/admin/participant-history", auth.RequireAdmin(h.auth, h.ParticipantHistory))
	router.GET("/api/admin/reports/monthly", auth.RequireAdmin(h.auth, h.MonthlyReport))
}

// monthYear reads the month and year query parameters, defaulting to the
// current month when absent.
func monthYear(r *http.Request) (int, int, error) {
	now := time.Now()
	month, year := int(now.Month()), now.Year()

	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("Month must be a number")
		}
		month = parsed
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("Year must be a number")
		}
		year = parsed
	}
	return month, year, nil
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	month, year, err := monthYear(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	analytics, err := h.service.Analytics(r.Context(), month, year)
	if err != nil {
		h.logger.Error("Failed to build analytics", "error", err, "month", month, "year", year)
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, analytics)
}

func (h *Handler) ParticipantHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	name := r.URL.Query().Get("name")
	history, err := h.service.ParticipantHistory(r.Context(), name)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, history)
}

func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	month, year, err := monthYear(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	report, err := h.service.MonthlyReport(r.Context(), month, year)
	if err != nil {
		h.logger.Error("Failed to build monthly report", "error", err, "month", month, "year", year)
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, report)
}
