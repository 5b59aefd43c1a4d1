package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClockIns counts successful clock-in actions.
	ClockIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timeclock_clock_ins_total",
		Help: "Number of successful clock-in actions.",
	})

	// ClockOuts counts successful clock-out actions.
	ClockOuts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timeclock_clock_outs_total",
		Help: "Number of successful clock-out actions.",
	})

	// ClockRejections counts rejected clock actions by reason.
	ClockRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timeclock_clock_rejections_total",
		Help: "Number of rejected clock actions.",
	}, []string{"reason"})

	// BackupRuns counts scheduled backup executions by outcome.
	BackupRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timeclock_backup_runs_total",
		Help: "Number of scheduled backup runs.",
	}, []string{"outcome"})
)
