package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "upperroom"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	// All wall-clock evaluation happens in this zone regardless of where the
	// process runs.
	DefaultTimezone = "Europe/London"

	DefaultMeetingStart = "20:00"
	DefaultMeetingEnd   = "21:00"

	// Member reminders go out 4 hours before the meeting; the leadership
	// summary one hour before.
	DefaultReminderAt = "16:00"
	DefaultSummaryAt  = "19:00"

	DefaultEmailTimeout = 20 * time.Second
	DefaultEmailPacing  = 1 * time.Second

	DefaultRequestTimeout  = 30 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultJobTimeout      = 5 * time.Minute

	DefaultTokenTTL = 24 * time.Hour

	// Bookings may be made up to this many days ahead, inclusive.
	BookingHorizonDays = 31
)
