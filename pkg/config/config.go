package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"upperroom/pkg/client"
	"upperroom/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	Timezone        string
	Location        *time.Location
	MeetingStart    string
	MeetingEnd      string
	ReminderAt      string
	SummaryAt       string
	LeadershipEmail string

	ResendAPIKey string
	ResendFrom   string
	EmailTimeout time.Duration
	EmailPacing  time.Duration

	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string

	RequestTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	JobTimeout      time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		Timezone:        getEnvStr(EnvTimezone, DefaultTimezone),
		MeetingStart:    getEnvStr(EnvMeetingStart, DefaultMeetingStart),
		MeetingEnd:      getEnvStr(EnvMeetingEnd, DefaultMeetingEnd),
		ReminderAt:      getEnvStr(EnvReminderAt, DefaultReminderAt),
		SummaryAt:       getEnvStr(EnvSummaryAt, DefaultSummaryAt),
		LeadershipEmail: getEnvStr(EnvLeadershipEmail, ""),

		ResendAPIKey: getEnvStr(EnvResendAPIKey, ""),
		ResendFrom:   getEnvStr(EnvResendFrom, "Upperroom Schedule <noreply@example.org>"),
		EmailTimeout: getEnvDuration(EnvEmailTimeout, DefaultEmailTimeout),
		EmailPacing:  getEnvDuration(EnvEmailPacing, DefaultEmailPacing),

		JWTSecret:     getEnvStr(EnvJWTSecret, ""),
		TokenTTL:      DefaultTokenTTL,
		AdminUsername: getEnvStr(EnvAdminUsername, "admin"),
		AdminPassword: getEnvStr(EnvAdminPassword, ""),

		RequestTimeout:  getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),
		JobTimeout:      getEnvDuration(EnvJobTimeout, DefaultJobTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    "json",
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

var (
	timeRegex     = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	mongoURIRegex = regexp.MustCompile(`^mongodb(\+srv)?://`)
)

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" || !mongoURIRegex.MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		errs = append(errs, fmt.Sprintf("Timezone must be a valid IANA name, got: %s", cfg.Timezone))
	} else {
		cfg.Location = loc
	}

	for name, value := range map[string]string{
		"MeetingStart": cfg.MeetingStart,
		"MeetingEnd":   cfg.MeetingEnd,
		"ReminderAt":   cfg.ReminderAt,
		"SummaryAt":    cfg.SummaryAt,
	} {
		if !timeRegex.MatchString(value) {
			errs = append(errs, fmt.Sprintf("%s must be in HH:MM format (00:00-23:59), got: %s", name, value))
		}
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWTSecret cannot be empty")
	}
	if cfg.AdminPassword == "" {
		errs = append(errs, "AdminPassword cannot be empty")
	}

	for name, d := range map[string]time.Duration{
		"EmailTimeout":    cfg.EmailTimeout,
		"EmailPacing":     cfg.EmailPacing,
		"RequestTimeout":  cfg.RequestTimeout,
		"ReadTimeout":     cfg.ReadTimeout,
		"WriteTimeout":    cfg.WriteTimeout,
		"IdleTimeout":     cfg.IdleTimeout,
		"ShutdownTimeout": cfg.ShutdownTimeout,
		"JobTimeout":      cfg.JobTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"timezone", cfg.Timezone,
		"meeting_start", cfg.MeetingStart,
		"meeting_end", cfg.MeetingEnd,
		"reminder_at", cfg.ReminderAt,
		"summary_at", cfg.SummaryAt,
		"leadership_email_set", cfg.LeadershipEmail != "",
		"resend_key_set", cfg.ResendAPIKey != "",
		"email_timeout", cfg.EmailTimeout,
		"email_pacing", cfg.EmailPacing,
		"request_timeout", cfg.RequestTimeout,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"job_timeout", cfg.JobTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
