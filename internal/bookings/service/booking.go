package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	bookingserrors "upperroom/internal/bookings/errors"
	"upperroom/internal/bookings/repository"
	"upperroom/internal/bookings/validator"
	"upperroom/pkg/config"
	apperrors "upperroom/pkg/errors"
	"upperroom/pkg/model"
	"upperroom/pkg/sanitizer"
)

const (
	msgSlotTaken       = "This slot is already taken. Please choose another date."
	msgDuplicateBooker = "You already have a booking on this date. Please choose another date."
	msgSlotTakenOther  = "This slot is already taken by another booking."
	msgInvalidDate     = "Invalid date. Please select Monday-Thursday within the next month."
)

// ConfirmationSender schedules a best-effort confirmation message. It must
// return immediately; delivery happens off the request path.
type ConfirmationSender interface {
	SendConfirmation(booking *model.Booking)
}

type BookingService interface {
	Reserve(ctx context.Context, req *model.BookingCreate) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error)
	PublicBookings(ctx context.Context) ([]model.PublicBooking, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	confirmer ConfirmationSender
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	bookingValidator *validator.BookingValidator,
	confirmer ConfirmationSender,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: bookingValidator,
		confirmer: confirmer,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Reserve books one (date, role) slot. The pre-checks against the store are
// advisory only: they give fast rejections in the uncontended case but two
// concurrent callers can both pass them. The commit is the repository's
// conditional insert, and a matched-instead-of-inserted outcome is reported
// as a slot conflict even though the pre-check passed.
func (s *bookingService) Reserve(ctx context.Context, req *model.BookingCreate) (*model.Booking, error) {
	s.sanitizeCreate(req)

	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	if err := s.validator.ValidateDate(req.Date); err != nil {
		return nil, apperrors.InvalidInput(msgInvalidDate)
	}

	existing, err := s.repo.FindBookedSlot(ctx, req.Date, req.Role)
	if err != nil {
		return nil, apperrors.Internal("Failed to check slot availability", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict(msgSlotTaken)
	}

	personBooking, err := s.repo.FindBookedByPerson(ctx, req.Date, req.FullName)
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing bookings", err)
	}
	if personBooking != nil {
		return nil, apperrors.Conflict(msgDuplicateBooker)
	}

	created := s.now().UTC().Truncate(time.Millisecond)
	booking := &model.Booking{
		ID:            uuid.NewString(),
		FullName:      req.FullName,
		Role:          req.Role,
		Date:          req.Date,
		TimeStart:     s.cfg.MeetingStart,
		TimeEnd:       s.cfg.MeetingEnd,
		Status:        model.StatusBooked,
		Notes:         req.Notes,
		Email:         req.Email,
		CreatedAt:     created,
		LastUpdatedAt: created,
	}

	inserted, err := s.repo.ReserveSlot(ctx, booking)
	if err != nil {
		return nil, apperrors.Internal("Failed to create booking", err)
	}
	if !inserted {
		// Lost the race after the pre-check: the slot is held and the
		// already-inserted record belongs to someone else.
		s.cfg.Log.Info("Slot conflict detected at commit",
			"date", booking.Date,
			"role", booking.Role,
		)
		return nil, apperrors.Conflict(msgSlotTaken)
	}

	if booking.Email != "" {
		s.confirmer.SendConfirmation(booking)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"date", booking.Date,
		"role", booking.Role,
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	bookings, err := s.repo.FindWithFilters(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) PublicBookings(ctx context.Context) ([]model.PublicBooking, error) {
	bookings, err := s.repo.FindWithFilters(ctx, model.BookingFilter{Status: model.StatusBooked})
	if err != nil {
		s.cfg.Log.Error("Failed to list public bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	public := make([]model.PublicBooking, 0, len(bookings))
	for _, b := range bookings {
		public = append(public, model.PublicBooking{
			ID:          b.ID,
			DisplayName: model.DisplayName(b.FullName),
			Role:        b.Role,
			Date:        b.Date,
			TimeStart:   b.TimeStart,
			TimeEnd:     b.TimeEnd,
			Status:      b.Status,
		})
	}
	return public, nil
}

// Update applies an administrative edit. The conflict check on a date or
// role change is check-then-act without the conditional-insert guard: edits
// come from a single trusted operator, and that weaker consistency is a
// deliberate asymmetry against the public reservation path.
func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if updates.IsEmpty() {
		return nil, apperrors.InvalidInput("No fields to update")
	}

	s.sanitizeUpdate(updates)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to check booking existence", err)
	}

	if updates.Date != nil || updates.Role != nil {
		checkDate := existing.Date
		if updates.Date != nil {
			checkDate = *updates.Date
		}
		checkRole := existing.Role
		if updates.Role != nil {
			checkRole = *updates.Role
		}

		conflict, err := s.repo.FindBookedConflict(ctx, checkDate, checkRole, id)
		if err != nil {
			return nil, apperrors.Internal("Failed to check slot conflict", err)
		}
		if conflict != nil {
			return nil, apperrors.Conflict(msgSlotTakenOther)
		}
	}

	set := s.buildUpdateSet(updates)
	if err := s.repo.Update(ctx, id, set); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update booking", err)
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to reload booking", err)
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id)
	return updated, nil
}

// Cancel releases the booking's slot while keeping the record for history.
func (s *bookingService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	set := bson.M{
		"status":          model.StatusCancelled,
		"edited_by_admin": true,
		"last_updated_at": s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Update(ctx, id, set); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled, slot released", "id", id)
	return nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking deleted", "id", id)
	return nil
}

// --- Helpers ---

func (s *bookingService) sanitizeCreate(req *model.BookingCreate) {
	req.FullName = sanitizer.NormalizeName(req.FullName)
	req.Notes = sanitizer.NormalizeNote(req.Notes)
	req.Email = sanitizer.NormalizeEmail(req.Email)
}

func (s *bookingService) sanitizeUpdate(updates *model.BookingUpdate) {
	if updates.FullName != nil {
		normalized := sanitizer.NormalizeName(*updates.FullName)
		updates.FullName = &normalized
	}
	if updates.Notes != nil {
		normalized := sanitizer.NormalizeNote(*updates.Notes)
		updates.Notes = &normalized
	}
	if updates.Email != nil {
		normalized := sanitizer.NormalizeEmail(*updates.Email)
		updates.Email = &normalized
	}
}

func (s *bookingService) buildUpdateSet(updates *model.BookingUpdate) bson.M {
	set := bson.M{
		"edited_by_admin": true,
		"last_updated_at": s.now().UTC().Truncate(time.Millisecond),
	}
	if updates.FullName != nil {
		set["full_name"] = *updates.FullName
	}
	if updates.Role != nil {
		set["role"] = *updates.Role
	}
	if updates.Date != nil {
		set["date"] = *updates.Date
	}
	if updates.Notes != nil {
		set["notes"] = *updates.Notes
	}
	if updates.Status != nil {
		set["status"] = *updates.Status
	}
	if updates.Email != nil {
		set["email"] = *updates.Email
	}
	return set
}
