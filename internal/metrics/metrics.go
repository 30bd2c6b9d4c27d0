// Package metrics exposes Prometheus collectors for the stopwatch daemon.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/button-stopwatch/internal/logic"
)

var (
	// Input metrics
	PressesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stopwatch_presses_total",
			Help: "Button presses by classification",
		},
		[]string{"kind"},
	)

	SpuriousReleasesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stopwatch_spurious_releases_total",
			Help: "Releases received with no matching press",
		},
	)

	HoldThresholdsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stopwatch_hold_thresholds_total",
			Help: "In-progress hold threshold notifications",
		},
		[]string{"level"},
	)

	EdgesDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stopwatch_edges_dropped_total",
			Help: "Button edges dropped because a consumer queue was full",
		},
	)

	// State machine metrics
	ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stopwatch_actions_total",
			Help: "Stopwatch actions taken",
		},
		[]string{"action"},
	)

	LapSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stopwatch_lap_seconds",
			Help:    "Recorded lap durations",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	Phase = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stopwatch_phase",
			Help: "1 for the current stopwatch phase, 0 otherwise",
		},
		[]string{"phase"},
	)

	// Render metrics
	RenderErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stopwatch_render_errors_total",
			Help: "Failed writes to an output device",
		},
		[]string{"device"},
	)
)

var phases = []logic.Phase{logic.PhaseIdle, logic.PhaseRunning, logic.PhasePaused, logic.PhaseReset}

func init() {
	prometheus.MustRegister(
		PressesTotal,
		SpuriousReleasesTotal,
		HoldThresholdsTotal,
		EdgesDroppedTotal,
		ActionsTotal,
		LapSeconds,
		Phase,
		RenderErrorsTotal,
	)
	SetPhase(logic.PhaseIdle)
}

// SetPhase marks p as the current phase.
func SetPhase(p logic.Phase) {
	for _, ph := range phases {
		v := 0.0
		if ph == p {
			v = 1
		}
		Phase.WithLabelValues(string(ph)).Set(v)
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
