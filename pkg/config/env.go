package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvTimezone        = "TIMEZONE"
	EnvMeetingStart    = "MEETING_START"
	EnvMeetingEnd      = "MEETING_END"
	EnvReminderAt      = "REMINDER_AT"
	EnvSummaryAt       = "SUMMARY_AT"
	EnvLeadershipEmail = "LEADERSHIP_EMAIL"

	EnvResendAPIKey = "RESEND_API_KEY"
	EnvResendFrom   = "RESEND_FROM"
	EnvEmailTimeout = "EMAIL_TIMEOUT"
	EnvEmailPacing  = "EMAIL_PACING"

	EnvJWTSecret     = "JWT_SECRET"
	EnvAdminUsername = "ADMIN_USERNAME"
	EnvAdminPassword = "ADMIN_PASSWORD"

	EnvRequestTimeout  = "REQUEST_TIMEOUT"
	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvJobTimeout      = "JOB_TIMEOUT"
)
