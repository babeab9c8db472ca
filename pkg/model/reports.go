package model

// ParticipantStat is one row of the per-person aggregation over a month.
type ParticipantStat struct {
	Name          string `json:"name"`
	TotalBookings int64  `json:"total_bookings"`
	PrayerCount   int64  `json:"prayer_count"`
	WorshipCount  int64  `json:"worship_count"`
}

// Analytics is the ministry role tracking summary for one month.
type Analytics struct {
	Month         int               `json:"month"`
	Year          int               `json:"year"`
	PrayerSlots   int64             `json:"prayer_slots"`
	WorshipSlots  int64             `json:"worship_slots"`
	TotalBookings int64             `json:"total_bookings"`
	Participants  []ParticipantStat `json:"participants"`
}

// ParticipantHistory is the serving history for one person.
type ParticipantHistory struct {
	Name          string     `json:"name"`
	TotalServices int        `json:"total_services"`
	PrayerCount   int        `json:"prayer_count"`
	WorshipCount  int        `json:"worship_count"`
	History       []*Booking `json:"history"`
}

// TopParticipant is a name with its booking count for a month.
type TopParticipant struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MonthlyReport summarizes slot take-up for one month.
type MonthlyReport struct {
	Month                int              `json:"month"`
	Year                 int              `json:"year"`
	TotalAvailableSlots  int              `json:"total_available_slots"`
	TotalPrayerBookings  int              `json:"total_prayer_bookings"`
	TotalWorshipBookings int              `json:"total_worship_bookings"`
	TotalBookings        int              `json:"total_bookings"`
	ParticipationRate    float64          `json:"participation_rate"`
	TopParticipants      []TopParticipant `json:"top_participants"`
	InactiveMembers      []string         `json:"inactive_members"`
}
