package monitoring

import (
	"context"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"11:30 pm", "30 23 * * *"},
		{"12:05 am", "5 0 * * *"},
		{"12:00 pm", "0 12 * * *"},
		{"1:00 am", "0 1 * * *"},
		{"09:15 AM", "15 9 * * *"},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.in)
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q) failed: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseTimeOfDay(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, in := range []string{"", "25:00 pm", "13:00 pm", "11:60 pm", "11:30", "noon", "0:30 am"} {
		if _, err := ParseTimeOfDay(in); err == nil {
			t.Errorf("ParseTimeOfDay(%q) must fail", in)
		}
	}
}

type noopBackup struct{}

func (noopBackup) Run(ctx context.Context) error { return nil }

func TestNewScheduler(t *testing.T) {
	s, err := NewScheduler(noopBackup{}, "11:30 pm")
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	next := s.NextRun()
	if !next.After(time.Now()) {
		t.Errorf("next run %v must be in the future", next)
	}
	if next.Hour() != 23 || next.Minute() != 30 {
		t.Errorf("next run %v must be at 23:30", next)
	}
}

func TestNewScheduler_InvalidTime(t *testing.T) {
	if _, err := NewScheduler(noopBackup{}, "sometime"); err == nil {
		t.Fatal("expected error for invalid time of day")
	}
}
