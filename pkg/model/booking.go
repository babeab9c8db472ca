package model

import "time"

const (
	RolePrayer  = "Prayer"
	RoleWorship = "Worship"

	StatusBooked    = "Booked"
	StatusCancelled = "Cancelled"

	// DateLayout is the calendar-date form bookings are stored under. Keeping
	// dates as strings makes range filters and the slot index lexicographic.
	DateLayout = "2006-01-02"
)

// Booking is one reservation of a ministry role on one meeting date. A slot
// is the (Date, Role) pair; at most one Booking with StatusBooked may hold a
// slot at any instant.
type Booking struct {
	ID            string    `json:"id" bson:"_id" validate:"omitempty,uuid4"`
	FullName      string    `json:"full_name" bson:"full_name" validate:"required,min=2,max=100"`
	Role          string    `json:"role" bson:"role" validate:"required,oneof=Prayer Worship"`
	Date          string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	TimeStart     string    `json:"time_start" bson:"time_start"`
	TimeEnd       string    `json:"time_end" bson:"time_end"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=Booked Cancelled"`
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	EditedByAdmin bool      `json:"edited_by_admin" bson:"edited_by_admin"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	LastUpdatedAt time.Time `json:"last_updated_at" bson:"last_updated_at"`
}

// BookingCreate is the public reservation request.
type BookingCreate struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Role     string `json:"role" validate:"required,oneof=Prayer Worship"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Notes    string `json:"notes,omitempty" validate:"omitempty,max=500"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

// BookingUpdate carries the optional fields of an administrative edit. Nil
// pointers mean "leave unchanged".
type BookingUpdate struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=Prayer Worship"`
	Date     *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=500"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=Booked Cancelled"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

// IsEmpty reports whether the update changes nothing.
func (u *BookingUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Role == nil && u.Date == nil &&
		u.Notes == nil && u.Status == nil && u.Email == nil
}

// PublicBooking is the privacy-redacted calendar projection: no email, no
// notes, display name instead of the stored full name.
type PublicBooking struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Date        string `json:"date"`
	TimeStart   string `json:"time_start"`
	TimeEnd     string `json:"time_end"`
	Status      string `json:"status"`
}

// BookingFilter narrows administrative listings.
type BookingFilter struct {
	Date     string
	Role     string
	Name     string
	Status   string
	FromDate string
	ToDate   string
}
