package reports

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"upperroom/internal/bookings/repository"
	apperrors "upperroom/pkg/errors"
	"upperroom/pkg/logger"
	"upperroom/pkg/model"
)

const topParticipantLimit = 10

type ReportService struct {
	bookings repository.BookingRepository
	logger   *logger.Logger
}

func NewReportService(bookings repository.BookingRepository, log *logger.Logger) *ReportService {
	return &ReportService{bookings: bookings, logger: log}
}

// monthBounds returns the half-open [first day, first day of next month)
// date range for the given month.
func monthBounds(month, year int) (string, string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return start.Format(model.DateLayout), end.Format(model.DateLayout)
}

func validateMonth(month, year int) error {
	if month < 1 || month > 12 {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid month: %d", month))
	}
	if year < 2000 || year > 2100 {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid year: %d", year))
	}
	return nil
}

// Analytics aggregates role and participant counts for one month.
func (s *ReportService) Analytics(ctx context.Context, month, year int) (*model.Analytics, error) {
	if err := validateMonth(month, year); err != nil {
		return nil, err
	}

	start, end := monthBounds(month, year)

	roleCounts, err := s.bookings.RoleCounts(ctx, start, end)
	if err != nil {
		return nil, apperrors.Internal("Failed to aggregate role counts", err)
	}

	participants, err := s.bookings.ParticipantStats(ctx, start, end)
	if err != nil {
		return nil, apperrors.Internal("Failed to aggregate participant stats", err)
	}

	prayer := roleCounts[model.RolePrayer]
	worship := roleCounts[model.RoleWorship]

	return &model.Analytics{
		Month:         month,
		Year:          year,
		PrayerSlots:   prayer,
		WorshipSlots:  worship,
		TotalBookings: prayer + worship,
		Participants:  participants,
	}, nil
}

// ParticipantHistory returns the full serving record for one person.
func (s *ReportService) ParticipantHistory(ctx context.Context, name string) (*model.ParticipantHistory, error) {
	if name == "" {
		return nil, apperrors.InvalidInput("Participant name is required")
	}

	history, err := s.bookings.FindBookedByName(ctx, name)
	if err != nil {
		return nil, apperrors.Internal("Failed to load participant history", err)
	}
	if len(history) == 0 {
		return nil, apperrors.NotFound("Participant")
	}

	result := &model.ParticipantHistory{
		Name:          name,
		TotalServices: len(history),
		History:       history,
	}
	for _, b := range history {
		switch b.Role {
		case model.RolePrayer:
			result.PrayerCount++
		case model.RoleWorship:
			result.WorshipCount++
		}
	}
	return result, nil
}

// MonthlyReport summarizes slot take-up for one month, including the
// participation rate against the number of bookable slots and the members
// who served the previous month but not this one.
func (s *ReportService) MonthlyReport(ctx context.Context, month, year int) (*model.MonthlyReport, error) {
	if err := validateMonth(month, year); err != nil {
		return nil, err
	}

	start, end := monthBounds(month, year)

	current, err := s.bookings.FindBookedBetween(ctx, start, end)
	if err != nil {
		return nil, apperrors.Internal("Failed to load monthly bookings", err)
	}

	prevStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	previous, err := s.bookings.FindBookedBetween(ctx, prevStart.Format(model.DateLayout), start)
	if err != nil {
		return nil, apperrors.Internal("Failed to load previous month bookings", err)
	}

	report := &model.MonthlyReport{
		Month:               month,
		Year:                year,
		TotalAvailableSlots: bookableSlots(month, year),
		TotalBookings:       len(current),
	}

	counts := make(map[string]int)
	for _, b := range current {
		counts[b.FullName]++
		switch b.Role {
		case model.RolePrayer:
			report.TotalPrayerBookings++
		case model.RoleWorship:
			report.TotalWorshipBookings++
		}
	}

	if report.TotalAvailableSlots > 0 {
		rate := float64(report.TotalBookings) / float64(report.TotalAvailableSlots) * 100
		report.ParticipationRate = math.Round(rate*10) / 10
	}

	report.TopParticipants = topParticipants(counts, topParticipantLimit)
	report.InactiveMembers = inactiveMembers(previous, counts)

	return report, nil
}

// bookableSlots counts the Monday through Thursday days in the month and
// multiplies by the two roles available per day.
func bookableSlots(month, year int) int {
	day := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := 0
	for day.Month() == time.Month(month) {
		if wd := day.Weekday(); wd >= time.Monday && wd <= time.Thursday {
			days++
		}
		day = day.AddDate(0, 0, 1)
	}
	return days * 2
}

func topParticipants(counts map[string]int, limit int) []model.TopParticipant {
	top := make([]model.TopParticipant, 0, len(counts))
	for name, count := range counts {
		top = append(top, model.TopParticipant{Name: name, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}

func inactiveMembers(previous []*model.Booking, current map[string]int) []string {
	seen := make(map[string]bool)
	var inactive []string
	for _, b := range previous {
		if seen[b.FullName] {
			continue
		}
		seen[b.FullName] = true
		if _, active := current[b.FullName]; !active {
			inactive = append(inactive, b.FullName)
		}
	}
	sort.Strings(inactive)
	return inactive
}
