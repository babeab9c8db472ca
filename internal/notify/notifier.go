package notify

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"upperroom/pkg/config"
	"upperroom/pkg/mailer"
	"upperroom/pkg/model"
)

// BookingFinder is the read-only slice of the booking store the jobs need.
type BookingFinder interface {
	FindForDay(ctx context.Context, date string) ([]*model.Booking, error)
}

// Notifier runs the time-triggered delivery jobs and the per-reservation
// confirmation. Send failures never escape a job: each recipient is
// independent and the scheduler must keep running whatever the email
// collaborator does.
type Notifier struct {
	bookings BookingFinder
	mail     mailer.Sender
	cfg      *config.Config
	limiter  *rate.Limiter
	now      func() time.Time
}

func New(bookings BookingFinder, mail mailer.Sender, cfg *config.Config) *Notifier {
	return &Notifier{
		bookings: bookings,
		mail:     mail,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Every(cfg.EmailPacing), 1),
		now:      time.Now,
	}
}

// WithClock overrides the wall clock. Tests only.
func (n *Notifier) WithClock(now func() time.Time) *Notifier {
	n.now = now
	return n
}

func (n *Notifier) timeRange() string {
	return fmt.Sprintf("%s - %s (%s)", n.cfg.MeetingStart, n.cfg.MeetingEnd, n.cfg.Timezone)
}

func (n *Notifier) today() string {
	return n.now().In(n.cfg.Location).Format(model.DateLayout)
}

// SendConfirmation dispatches the reservation confirmation off the request
// path. The caller gets no result; failure is logged and dropped.
func (n *Notifier) SendConfirmation(booking *model.Booking) {
	b := *booking
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.cfg.EmailTimeout)
		defer cancel()

		html := confirmationHTML(b.FullName, b.Role, b.Date, n.timeRange())
		if err := n.mail.Send(ctx, b.Email, subjectConfirmation, html); err != nil {
			n.cfg.Log.Error("Failed to send confirmation email",
				"booking_id", b.ID,
				"error", err,
			)
		}
	}()
}

// MemberReminderJob emails every Booked record for today that has a contact
// address. Sends are paced to respect the provider's rate limit; one failed
// recipient does not stop the rest. Re-running the job re-sends to everyone
// still matching, by design.
func (n *Notifier) MemberReminderJob(ctx context.Context) error {
	today := n.today()
	n.cfg.Log.Info("Running member reminder job", "date", today)

	bookings, err := n.bookings.FindForDay(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to load today's bookings: %w", err)
	}

	sent, failed := 0, 0
	for _, b := range bookings {
		if b.Email == "" {
			continue
		}
		if err := n.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("reminder fan-out interrupted: %w", err)
		}

		html := reminderHTML(b.FullName, b.Role, b.Date, n.timeRange())
		if err := n.mail.Send(ctx, b.Email, subjectReminder, html); err != nil {
			failed++
			n.cfg.Log.Error("Failed to send reminder email",
				"booking_id", b.ID,
				"error", err,
			)
			continue
		}
		sent++
	}

	n.cfg.Log.Info("Member reminder job completed",
		"date", today,
		"sent", sent,
		"failed", failed,
	)
	return nil
}

// LeadershipSummaryJob sends one message naming today's Prayer and Worship
// leaders to the leadership contact. Outside Monday-Thursday there is no
// meeting and the job is a silent no-op.
func (n *Notifier) LeadershipSummaryJob(ctx context.Context) error {
	now := n.now().In(n.cfg.Location)
	if now.Weekday() < time.Monday || now.Weekday() > time.Thursday {
		n.cfg.Log.Debug("Leadership summary skipped, no meeting today", "weekday", now.Weekday().String())
		return nil
	}
	if n.cfg.LeadershipEmail == "" {
		n.cfg.Log.Debug("Leadership summary skipped, no leadership contact configured")
		return nil
	}

	today := now.Format(model.DateLayout)
	bookings, err := n.bookings.FindForDay(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to load today's bookings: %w", err)
	}

	prayerLeader, worshipLeader := notBooked, notBooked
	for _, b := range bookings {
		// the slot invariant should make this a single record per role; if
		// it does not hold, the last record in store order wins
		switch b.Role {
		case model.RolePrayer:
			prayerLeader = b.FullName
		case model.RoleWorship:
			worshipLeader = b.FullName
		}
	}

	html := summaryHTML(today, prayerLeader, worshipLeader, n.timeRange())
	if err := n.mail.Send(ctx, n.cfg.LeadershipEmail, subjectSummary, html); err != nil {
		n.cfg.Log.Error("Failed to send leadership summary",
			"date", today,
			"error", err,
		)
		return nil
	}

	n.cfg.Log.Info("Leadership summary sent", "date", today)
	return nil
}
