package kami

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestEngineMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	e, err := NewEngine(EngineConfig{Seed: 1, Metrics: reg, SkipStart: true})
	if err != nil {
		t.Fatal(err)
	}
	place(t, e, "he_who", 0, 0, 1)
	place(t, e, "she_who", 300, 0, 2)
	place(t, e, "land", 600, 0, 3)

	// land onto she_who (no rule), land onto nothing, he_who onto she_who.
	e.RunScript(NewScript().
		Drag(600, 0, 300, 0, 2).
		Drag(300, 0, 2000, 0, 2).
		Drag(0, 0, 300, 0, 2))

	m := e.metrics
	if got := testutil.ToFloat64(m.grabs); got != 3 {
		t.Errorf("grabs = %v, want 3", got)
	}
	for result, want := range map[string]float64{
		releaseCombined: 1,
		releaseNoRule:   1,
		releaseNoTarget: 1,
	} {
		if got := testutil.ToFloat64(m.releases.WithLabelValues(result)); got != want {
			t.Errorf("releases{result=%q} = %v, want %v", result, got, want)
		}
	}
	if got := testutil.ToFloat64(m.spawns); got != 6 {
		t.Errorf("spawns = %v, want 6", got)
	}
	if got := testutil.ToFloat64(m.despawns); got != 1 {
		t.Errorf("despawns = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.widgets); got != 5 {
		t.Errorf("widgets = %v, want 5", got)
	}

	n, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Error("registry should expose the engine's metrics")
	}
}

func TestEngineMetricsUnregistered(t *testing.T) {
	e, err := NewEngine(EngineConfig{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	e.Tick(FrameInput{})
	if got := testutil.ToFloat64(e.metrics.spawns); got != 5 {
		t.Errorf("spawns = %v, want 5", got)
	}
}
