package validator

import (
	"errors"
	"testing"
	"time"

	bookingserrors "upperroom/internal/bookings/errors"
	"upperroom/pkg/logger"
	"upperroom/pkg/model"
)

func testValidator(t *testing.T) *BookingValidator {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	// Wednesday 2026-09-02, mid-afternoon
	fixed := time.Date(2026, 9, 2, 15, 0, 0, 0, loc)
	return NewBookingValidator(loc, log).WithClock(func() time.Time { return fixed })
}

func TestValidateDateBoundaries(t *testing.T) {
	v := testValidator(t)

	cases := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"today", "2026-09-02", false},
		{"tomorrow", "2026-09-03", false},
		{"yesterday", "2026-09-01", true},
		{"exactly 31 days out (Saturday, rejected by weekday)", "2026-10-03", true},
		{"within horizon, Thursday", "2026-10-01", false},
		{"31 days out lands on Saturday; last valid Thursday", "2026-10-01", false},
		{"32 days out", "2026-10-04", true},
		{"friday", "2026-09-04", true},
		{"saturday", "2026-09-05", true},
		{"sunday", "2026-09-06", true},
		{"garbage", "not-a-date", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := v.ValidateDate(c.date)
			if c.wantErr && err == nil {
				t.Errorf("ValidateDate(%s) = nil, want error", c.date)
			}
			if !c.wantErr && err != nil {
				t.Errorf("ValidateDate(%s) = %v, want nil", c.date, err)
			}
			if c.wantErr && err != nil && !errors.Is(err, bookingserrors.ErrInvalidDate) {
				t.Errorf("ValidateDate(%s) error %v is not ErrInvalidDate", c.date, err)
			}
		})
	}
}

func TestValidateDateHorizonInclusive(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	// Monday 2026-08-31: 31 days later is Thursday 2026-10-01
	fixed := time.Date(2026, 8, 31, 9, 0, 0, 0, loc)
	v := NewBookingValidator(loc, log).WithClock(func() time.Time { return fixed })

	if err := v.ValidateDate("2026-10-01"); err != nil {
		t.Errorf("date exactly 31 days out should be accepted, got %v", err)
	}
	// 2026-10-05 is a Monday, 35 days out
	if err := v.ValidateDate("2026-10-05"); err == nil {
		t.Error("date beyond 31-day horizon should be rejected")
	}
}

func TestValidateCreate(t *testing.T) {
	v := testValidator(t)

	valid := &model.BookingCreate{
		FullName: "Jane Doe",
		Role:     model.RolePrayer,
		Date:     "2026-09-03",
		Email:    "jane@example.org",
	}
	if err := v.ValidateCreate(valid); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}

	cases := []struct {
		name string
		req  model.BookingCreate
	}{
		{"short name", model.BookingCreate{FullName: "J", Role: "Prayer", Date: "2026-09-03"}},
		{"bad role", model.BookingCreate{FullName: "Jane Doe", Role: "Usher", Date: "2026-09-03"}},
		{"bad date format", model.BookingCreate{FullName: "Jane Doe", Role: "Prayer", Date: "03/09/2026"}},
		{"bad email", model.BookingCreate{FullName: "Jane Doe", Role: "Prayer", Date: "2026-09-03", Email: "not-an-email"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := v.ValidateCreate(&c.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := testValidator(t)

	role := model.RoleWorship
	if err := v.ValidateUpdate(&model.BookingUpdate{Role: &role}); err != nil {
		t.Errorf("valid update rejected: %v", err)
	}

	bad := "Choir"
	if err := v.ValidateUpdate(&model.BookingUpdate{Role: &bad}); err == nil {
		t.Error("expected validation error for unknown role")
	}
}
