// Package metrics exposes the prometheus instruments for the HTTP shell.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScreeningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_screenings_total",
			Help: "Total number of completed screenings by terminal outcome",
		},
		[]string{"outcome"},
	)

	ScreeningFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screener_screening_failures_total",
			Help: "Total number of screenings aborted by classifier failures",
		},
	)

	ScreeningDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "screener_screening_duration_seconds",
			Help: "Duration of a full screening run in seconds",
		},
	)
)
