package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	bookingserrors "upperroom/internal/bookings/errors"
	"upperroom/pkg/config"
	"upperroom/pkg/logger"
	"upperroom/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	loc      *time.Location
	now      func() time.Time
	logger   *logger.Logger
}

func NewBookingValidator(loc *time.Location, log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		loc:      loc,
		now:      time.Now,
		logger:   log,
	}
}

// WithClock overrides the wall clock used for the horizon rule. Tests only.
func (v *BookingValidator) WithClock(now func() time.Time) *BookingValidator {
	v.now = now
	return v
}

func (v *BookingValidator) ValidateCreate(req *model.BookingCreate) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateDate enforces the reservation date rule: a Monday-Thursday that
// falls inside [today, today+31 days], evaluated in the configured timezone.
func (v *BookingValidator) ValidateDate(dateStr string) error {
	date, err := time.ParseInLocation(model.DateLayout, dateStr, v.loc)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidDate, dateStr)
	}

	if date.Weekday() < time.Monday || date.Weekday() > time.Thursday {
		return fmt.Errorf("%w: %s falls on a %s", bookingserrors.ErrInvalidDate, dateStr, date.Weekday())
	}

	now := v.now().In(v.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, v.loc)
	horizon := today.AddDate(0, 0, config.BookingHorizonDays)

	if date.Before(today) {
		return fmt.Errorf("%w: %s is in the past", bookingserrors.ErrInvalidDate, dateStr)
	}
	if date.After(horizon) {
		return fmt.Errorf("%w: %s is beyond the booking horizon", bookingserrors.ErrInvalidDate, dateStr)
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
