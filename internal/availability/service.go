package availability

import (
	"context"
	"time"

	"upperroom/internal/bookings/repository"
	"upperroom/pkg/config"
	apperrors "upperroom/pkg/errors"
	"upperroom/pkg/model"
)

type Service interface {
	Availability(ctx context.Context, startDate, endDate string) ([]model.SlotAvailability, error)
}

type availabilityService struct {
	repo repository.BookingRepository
	cfg  *config.Config
}

func NewService(repo repository.BookingRepository, cfg *config.Config) Service {
	return &availabilityService{repo: repo, cfg: cfg}
}

// Availability derives the open/held state of both role slots for every
// Monday-Thursday date in [startDate, endDate]. Other weekdays are omitted
// from the result entirely. The view is computed from current store state;
// nothing is cached or persisted.
func (s *availabilityService) Availability(ctx context.Context, startDate, endDate string) ([]model.SlotAvailability, error) {
	start, err := time.ParseInLocation(model.DateLayout, startDate, s.cfg.Location)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid date format")
	}
	end, err := time.ParseInLocation(model.DateLayout, endDate, s.cfg.Location)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid date format")
	}

	bookings, err := s.repo.FindBookedInRange(ctx, startDate, endDate)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability", "error", err)
		return nil, apperrors.Internal("Failed to compute availability", err)
	}

	slots := make([]model.SlotAvailability, 0)
	index := make(map[string]int)
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		if cur.Weekday() < time.Monday || cur.Weekday() > time.Thursday {
			continue
		}
		dateStr := cur.Format(model.DateLayout)
		index[dateStr] = len(slots)
		slots = append(slots, model.SlotAvailability{
			Date:             dateStr,
			PrayerAvailable:  true,
			WorshipAvailable: true,
		})
	}

	for _, b := range bookings {
		i, ok := index[b.Date]
		if !ok {
			continue
		}
		switch b.Role {
		case model.RolePrayer:
			slots[i].PrayerAvailable = false
			slots[i].PrayerBookedBy = model.DisplayName(b.FullName)
		case model.RoleWorship:
			slots[i].WorshipAvailable = false
			slots[i].WorshipBookedBy = model.DisplayName(b.FullName)
		}
	}

	return slots, nil
}
