package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrSlotTaken means another Booked record already holds the (date, role)
	// slot, whether caught by the advisory pre-check or by the conditional
	// insert itself.
	ErrSlotTaken = errors.New("slot already booked for this date and role")

	ErrDuplicatePerson = errors.New("person already has a booking on this date")

	ErrInvalidDate = errors.New("date must be a Monday-Thursday within the next month")
)
