package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PgErrCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "followups",
		Subsystem: "pg",
		Name:      "pg_err_count",
	}, []string{"method"})
	PgDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "followups",
		Subsystem: "pg",
		Name:      "pg_duration",
	}, []string{"method"})
	CalendarErrCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "followups",
		Subsystem: "calendar",
		Name:      "err_count",
	}, []string{"method"})
	CalendarDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "followups",
		Subsystem: "calendar",
		Name:      "duration",
	}, []string{"method"})
	SuggestionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "followups",
		Subsystem: "scheduler",
		Name:      "suggestions_total",
	})
	Bookings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "followups",
		Subsystem: "booking",
		Name:      "attempts_total",
	}, []string{"result"})
	OrphanedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "followups",
		Subsystem: "booking",
		Name:      "orphaned_events_total",
	})
)
