package model

import "strings"

// SlotAvailability is the derived per-date view of the two role slots. It is
// computed fresh per query and never persisted.
type SlotAvailability struct {
	Date             string `json:"date"`
	PrayerAvailable  bool   `json:"prayer_available"`
	PrayerBookedBy   string `json:"prayer_booked_by,omitempty"`
	WorshipAvailable bool   `json:"worship_available"`
	WorshipBookedBy  string `json:"worship_booked_by,omitempty"`
}

// AnonymousName is shown when a booking somehow carries an empty name.
const AnonymousName = "Anonymous"

// DisplayName renders a full name as "First L." for public-facing views.
// Single-token names pass through unchanged.
func DisplayName(fullName string) string {
	parts := strings.Fields(fullName)
	switch {
	case len(parts) >= 2:
		last := []rune(parts[len(parts)-1])
		return parts[0] + " " + string(last[0]) + "."
	case len(parts) == 1:
		return parts[0]
	default:
		return AnonymousName
	}
}
