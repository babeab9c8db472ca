package export

import (
	"fmt"
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
	service *ExportService
	auth    *auth.Service
	logger  *logger.Logger
}

func NewHandler(svc *ExportService, authSvc *auth.Service, log *logger.Logger) *Handler {
	return &Handler{service: svc, auth: authSvc, logger: log}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/admin/export/csv", auth.RequireAdmin(h.auth, h.CSV))
	router.GET("/api/admin/export/excel", auth.RequireAdmin(h.auth, h.Excel))
}

// monthYear reads the optional month and year query parameters. Month zero
// means no filter. A month without a year defaults to the current year.
func monthYear(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	month := 0
	if raw := query.Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("Month must be a number")
		}
		month = parsed
	}

	year := time.Now().Year()
	if raw := query.Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("Year must be a number")
		}
		year = parsed
	}
	return month, year, nil
}

func filename(ext string, month, year int) string {
	if month == 0 {
		return fmt.Sprintf("bookings.%s", ext)
	}
	return fmt.Sprintf("bookings-%04d-%02d.%s", year, month, ext)
}

func (h *Handler) CSV(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	month, year, err := monthYear(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	data, err := h.service.CSV(r.Context(), month, year)
	if err != nil {
		h.logger.Error("CSV export failed", "error", err)
		_ = httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename("csv", month, year)))
	_, _ = w.Write(data)
}

func (h *Handler) Excel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	month, year, err := monthYear(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	data, err := h.service.Excel(r.Context(), month, year)
	if err != nil {
		h.logger.Error("Excel export failed", "error", err)
		_ = httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename("xlsx", month, year)))
	_, _ = w.Write(data)
}
