package kami

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Release outcomes reported by kami_releases_total.
const (
	releaseCombined = "combined"
	releaseNoRule   = "no_rule"
	releaseNoTarget = "no_target"
)

type engineMetrics struct {
	grabs    prometheus.Counter
	releases *prometheus.CounterVec
	spawns   prometheus.Counter
	despawns prometheus.Counter
	widgets  prometheus.Gauge
}

// newEngineMetrics creates the engine's collectors on reg. A nil reg gives
// working collectors that are not registered anywhere.
func newEngineMetrics(reg prometheus.Registerer) *engineMetrics {
	f := promauto.With(reg)
	return &engineMetrics{
		grabs: f.NewCounter(prometheus.CounterOpts{
			Namespace: "kami",
			Name:      "grabs_total",
			Help:      "Widgets picked up by the pointer.",
		}),
		releases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kami",
			Name:      "releases_total",
			Help:      "Widgets dropped, by outcome.",
		}, []string{"result"}),
		spawns: f.NewCounter(prometheus.CounterOpts{
			Namespace: "kami",
			Name:      "spawns_total",
			Help:      "Widgets created by flushes.",
		}),
		despawns: f.NewCounter(prometheus.CounterOpts{
			Namespace: "kami",
			Name:      "despawns_total",
			Help:      "Widgets destroyed by flushes.",
		}),
		widgets: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "kami",
			Name:      "widgets",
			Help:      "Live widgets after the last flush.",
		}),
	}
}
