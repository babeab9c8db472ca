package main

import (
	"context"

	"upperroom/internal/auth"
	"upperroom/internal/availability"
	"upperroom/internal/bookings/handler"
	"upperroom/internal/bookings/repository"
	"upperroom/internal/bookings/service"
	"upperroom/internal/bookings/validator"
	"upperroom/internal/export"
	"upperroom/internal/notify"
	"upperroom/internal/reports"
	"upperroom/internal/scheduler"
	"upperroom/pkg/app"
	"upperroom/pkg/config"
	"upperroom/pkg/mailer"
)

const ServiceName = "upperroom"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Upperroom booking service")
	cfg.SetMongo()

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()
	if err := bookingRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to ensure indexes", "error", err)
	}

	mail := mailer.NewResendClient(cfg.ResendAPIKey, cfg.ResendFrom, cfg.EmailTimeout, cfg.Log)
	notifier := notify.New(bookingRepo, mail, cfg)

	bookingValidator := validator.NewBookingValidator(cfg.Location, cfg.Log)
	bookingService := service.NewBookingService(bookingRepo, bookingValidator, notifier, cfg)
	availabilityService := availability.NewService(bookingRepo, cfg)
	authService := auth.NewService(cfg)
	reportService := reports.NewReportService(bookingRepo, cfg.Log)
	exportService := export.NewExportService(bookingRepo, cfg.Log)

	sched := scheduler.New(cfg.Location, cfg.JobTimeout, cfg.Log)
	if err := sched.RegisterDaily("member-reminder", cfg.ReminderAt, notifier.MemberReminderJob); err != nil {
		cfg.Log.Fatal("Failed to register reminder trigger", "error", err)
	}
	if err := sched.RegisterDaily("leadership-summary", cfg.SummaryAt, notifier.LeadershipSummaryJob); err != nil {
		cfg.Log.Fatal("Failed to register summary trigger", "error", err)
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Client),
		handler.NewBookingHandler(bookingService, availabilityService, cfg),
		handler.NewAdminHandler(bookingService, notifier, authService, cfg.Log),
		auth.NewHandler(authService, cfg.Log),
		reports.NewHandler(reportService, authService, cfg.Log),
		export.NewHandler(exportService, authService, cfg.Log),
	)
	serverApp.SetScheduler(sched)
	serverApp.Run()
}
