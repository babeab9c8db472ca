package scheduler

import (
	"context"
	"testing"
	"time"

	"upperroom/pkg/logger"
)

func testScheduler(t *testing.T) *Scheduler {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	return New(loc, time.Minute, log)
}

func TestParseHHMM(t *testing.T) {
	cases := []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{"16:00", 16, 0, false},
		{"00:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{" 19:30 ", 19, 30, false},
		{"24:00", 0, 0, true},
		{"16:60", 0, 0, true},
		{"1600", 0, 0, true},
		{"", 0, 0, true},
		{"aa:bb", 0, 0, true},
	}

	for _, c := range cases {
		h, m, err := parseHHMM(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("parseHHMM(%q) = %d:%d, want error", c.in, h, m)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseHHMM(%q) error: %v", c.in, err)
			continue
		}
		if h != c.hour || m != c.minute {
			t.Errorf("parseHHMM(%q) = %d:%d, want %d:%d", c.in, h, m, c.hour, c.minute)
		}
	}
}

func TestRegisterDailyReplacesSameName(t *testing.T) {
	s := testScheduler(t)

	noop := func(ctx context.Context) error { return nil }
	if err := s.RegisterDaily("member-reminder", "16:00", noop); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := s.RegisterDaily("member-reminder", "17:30", noop); err != nil {
		t.Fatalf("re-registration: %v", err)
	}

	names := s.Triggers()
	if len(names) != 1 || names[0] != "member-reminder" {
		t.Errorf("triggers = %v, want single member-reminder", names)
	}
}

func TestRegisterDailyRejectsBadTime(t *testing.T) {
	s := testScheduler(t)
	if err := s.RegisterDaily("bad", "25:00", func(ctx context.Context) error { return nil }); err == nil {
		t.Error("expected error for hour 25")
	}
}

func TestStartIsIdempotentAndStops(t *testing.T) {
	s := testScheduler(t)
	if err := s.RegisterDaily("leadership-summary", "19:00", func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("register: %v", err)
	}

	s.Start()
	s.Start() // second call must not panic or double-start
	s.Stop(100 * time.Millisecond)
	s.Stop(100 * time.Millisecond) // stop after stop is a no-op
}

func TestFireIsolatesJobFailure(t *testing.T) {
	s := testScheduler(t)

	// neither an error nor a panic may escape the firing wrapper
	s.fire("failing", func(ctx context.Context) error {
		return context.DeadlineExceeded
	})
	s.fire("panicking", func(ctx context.Context) error {
		panic("boom")
	})
}
