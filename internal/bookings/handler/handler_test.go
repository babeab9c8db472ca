package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"upperroom/internal/auth"
	"upperroom/pkg/config"
	apperrors "upperroom/pkg/errors"
	"upperroom/pkg/logger"
	"upperroom/pkg/model"
)

type stubBookingService struct {
	reserveErr  error
	reserved    *model.Booking
	public      []model.PublicBooking
	listed      []*model.Booking
	lastFilter  model.BookingFilter
	cancelledID string
	deletedID   string
}

func (s *stubBookingService) Reserve(ctx context.Context, req *model.BookingCreate) (*model.Booking, error) {
	if s.reserveErr != nil {
		return nil, s.reserveErr
	}
	return s.reserved, nil
}

func (s *stubBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if s.reserved != nil && s.reserved.ID == id {
		return s.reserved, nil
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (s *stubBookingService) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	s.lastFilter = filter
	return s.listed, nil
}

func (s *stubBookingService) PublicBookings(ctx context.Context) ([]model.PublicBooking, error) {
	return s.public, nil
}

func (s *stubBookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	return s.reserved, nil
}

func (s *stubBookingService) Cancel(ctx context.Context, id string) error {
	s.cancelledID = id
	return nil
}

func (s *stubBookingService) Delete(ctx context.Context, id string) error {
	s.deletedID = id
	return nil
}

type stubAvailability struct {
	start, end string
	slots      []model.SlotAvailability
}

func (s *stubAvailability) Availability(ctx context.Context, startDate, endDate string) ([]model.SlotAvailability, error) {
	s.start, s.end = startDate, endDate
	return s.slots, nil
}

type stubJobs struct {
	reminderRuns int
	summaryRuns  int
}

func (s *stubJobs) MemberReminderJob(ctx context.Context) error {
	s.reminderRuns++
	return nil
}

func (s *stubJobs) LeadershipSummaryJob(ctx context.Context) error {
	s.summaryRuns++
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	return &config.Config{
		Log:           logger.New(logger.Config{Output: io.Discard}),
		Location:      loc,
		JWTSecret:     "test-secret",
		AdminUsername: "admin",
		AdminPassword: "hunter2",
		TokenTTL:      time.Hour,
	}
}

func TestCreateBooking(t *testing.T) {
	svc := &stubBookingService{reserved: &model.Booking{ID: "b1", Date: "2026-09-02", Role: model.RolePrayer}}
	h := NewBookingHandler(svc, &stubAvailability{}, testConfig(t))

	router := httprouter.New()
	h.RegisterRoutes(router)

	body := `{"full_name":"Jane Doe","role":"Prayer","date":"2026-09-02"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateBookingInvalidBody(t *testing.T) {
	h := NewBookingHandler(&stubBookingService{}, &stubAvailability{}, testConfig(t))

	router := httprouter.New()
	h.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader("{not json")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateBookingConflictStatus(t *testing.T) {
	svc := &stubBookingService{reserveErr: apperrors.Conflict("This slot is already taken. Please choose another date.")}
	h := NewBookingHandler(svc, &stubAvailability{}, testConfig(t))

	router := httprouter.New()
	h.RegisterRoutes(router)

	body := `{"full_name":"Jane Doe","role":"Prayer","date":"2026-09-02"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(resp.Error, "already taken") {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
}

func TestAvailabilityDefaultsToHorizon(t *testing.T) {
	avail := &stubAvailability{}
	h := NewBookingHandler(&stubBookingService{}, avail, testConfig(t))

	router := httprouter.New()
	h.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/availability", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	start, err := time.Parse(model.DateLayout, avail.start)
	if err != nil {
		t.Fatalf("invalid start date %q: %v", avail.start, err)
	}
	end, err := time.Parse(model.DateLayout, avail.end)
	if err != nil {
		t.Fatalf("invalid end date %q: %v", avail.end, err)
	}
	if got := end.Sub(start); got != time.Duration(config.BookingHorizonDays)*24*time.Hour {
		t.Fatalf("expected a %d day window, got %v", config.BookingHorizonDays, got)
	}
}

func TestAvailabilityExplicitRange(t *testing.T) {
	avail := &stubAvailability{}
	h := NewBookingHandler(&stubBookingService{}, avail, testConfig(t))

	router := httprouter.New()
	h.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/availability?start_date=2026-09-01&end_date=2026-09-07", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if avail.start != "2026-09-01" || avail.end != "2026-09-07" {
		t.Fatalf("range not passed through: %s..%s", avail.start, avail.end)
	}
}

func adminRouter(t *testing.T, svc *stubBookingService, jobs *stubJobs) (*httprouter.Router, string) {
	t.Helper()
	cfg := testConfig(t)
	authSvc := auth.NewService(cfg)
	h := NewAdminHandler(svc, jobs, authSvc, cfg.Log)

	router := httprouter.New()
	h.RegisterRoutes(router)

	token, err := authSvc.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	return router, token
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router, _ := adminRouter(t, &stubBookingService{}, &stubJobs{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminListPassesFilters(t *testing.T) {
	svc := &stubBookingService{}
	router, token := adminRouter(t, svc, &stubJobs{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings?role=Prayer&status=Booked", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastFilter.Role != model.RolePrayer || svc.lastFilter.Status != model.StatusBooked {
		t.Fatalf("filters not passed through: %+v", svc.lastFilter)
	}
}

func TestAdminUnlockCancelsBooking(t *testing.T) {
	svc := &stubBookingService{}
	router, token := adminRouter(t, svc, &stubJobs{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/bookings/b42/unlock", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.cancelledID != "b42" {
		t.Fatalf("expected cancel of b42, got %q", svc.cancelledID)
	}
}

func TestAdminSendRemindersRunsBothJobs(t *testing.T) {
	jobs := &stubJobs{}
	router, token := adminRouter(t, &stubBookingService{}, jobs)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/send-reminders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if jobs.reminderRuns != 1 || jobs.summaryRuns != 1 {
		t.Fatalf("expected both jobs to run once, got %d and %d", jobs.reminderRuns, jobs.summaryRuns)
	}
}
