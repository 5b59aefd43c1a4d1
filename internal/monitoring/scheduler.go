package monitoring

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"timeclock-backend/internal/services"
)

// timeOfDayRe matches "h:mm am/pm", hours 1-12 with optional leading zero.
var timeOfDayRe = regexp.MustCompile(`^(0?[1-9]|1[0-2]):([0-5][0-9]) (am|pm)$`)

// ParseTimeOfDay converts a human "h:mm am/pm" setting into a standard cron
// expression, e.g. "11:30 pm" becomes "30 23 * * *".
func ParseTimeOfDay(timeOfDay string) (string, error) {
	m := timeOfDayRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(timeOfDay)))
	if m == nil {
		return "", fmt.Errorf("invalid time format %q, want e.g. \"11:30 pm\"", timeOfDay)
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if m[3] == "pm" && hours != 12 {
		hours += 12
	} else if m[3] == "am" && hours == 12 {
		hours = 0
	}
	return fmt.Sprintf("%d %d * * *", minutes, hours), nil
}

// Scheduler runs the daily export/backup job. It ticks once a minute and
// fires when the computed next run time has passed, so a missed tick only
// delays the run rather than dropping it.
type Scheduler struct {
	backupSvc services.BackupServiceProvider
	schedule  cron.Schedule
	nextRun   time.Time
	ticker    *time.Ticker
	done      chan bool
}

// NewScheduler creates a scheduler firing daily at the given "h:mm am/pm"
// time of day.
func NewScheduler(backupSvc services.BackupServiceProvider, timeOfDay string) (*Scheduler, error) {
	spec, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return nil, err
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	return &Scheduler{
		backupSvc: backupSvc,
		schedule:  schedule,
		nextRun:   schedule.Next(time.Now()),
		done:      make(chan bool),
	}, nil
}

// NextRun returns the time the next backup is due.
func (s *Scheduler) NextRun() time.Time {
	return s.nextRun
}

// Run starts the scheduler's ticking loop. It blocks until Stop is called.
func (s *Scheduler) Run() {
	log.Info().Time("next_run", s.nextRun).Msg("Starting backup scheduler")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping backup scheduler")
			return
		case now := <-s.ticker.C:
			if now.After(s.nextRun) {
				s.nextRun = s.schedule.Next(now)
				go s.runBackup()
			}
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

// runBackup executes one backup pass. The job swallows errors: failures are
// logged and the process keeps serving requests.
func (s *Scheduler) runBackup() {
	log.Info().Msg("Scheduler: running daily attendance backup")
	if err := s.backupSvc.Run(context.Background()); err != nil {
		log.Error().Err(err).Msg("Scheduler: backup run failed")
		return
	}
	log.Info().Time("next_run", s.nextRun).Msg("Scheduler: backup run completed")
}
