package utils

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordSteps(t *testing.T) {
	m := NewMetrics()
	m.ObserveStep(10, time.Millisecond)
	m.ObserveStep(12, time.Millisecond)
	m.ObserveReset("manual", 300)
	m.ObserveDiscard()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Generations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resets.WithLabelValues("manual")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Discarded))
	assert.Equal(t, 300.0, testutil.ToFloat64(m.Population))

	count, err := testutil.GatherAndCount(m.Registry, "gol_step_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetricsSummary(t *testing.T) {
	m := NewMetrics()
	m.ObserveStep(40, time.Millisecond)
	m.ObserveReset("manual", 50)
	m.ObserveReset("stagnation", 60)

	summary, err := m.Summary()
	require.NoError(t, err)
	assert.Equal(t, 1.0, summary["gol_generations_total"])
	assert.Equal(t, 2.0, summary["gol_resets_total"])
	assert.Equal(t, 60.0, summary["gol_population"])
	assert.Equal(t, 1.0, summary["gol_step_duration_seconds"])
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.ObserveStep(1, time.Second)
	m.ObserveReset("manual", 1)
	m.ObserveDiscard()
}

func TestStatsMovingAverage(t *testing.T) {
	s := NewStats()
	s.Update(1, 100, 500*time.Millisecond)
	assert.Equal(t, 100.0, s.AveragePopulation)
	assert.Equal(t, 2.0, s.GenerationsPerSecond)

	s.Update(2, 200, 0)
	assert.InDelta(t, 110.0, s.AveragePopulation, 1e-9)
	assert.Equal(t, 2, s.TotalGenerations)
	assert.GreaterOrEqual(t, s.Runtime(), time.Duration(0))
}

func TestLoggerRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, slog.LevelInfo)
	log.Info("boom", "error", "bad")
	log.Debug("hidden")

	assert.Contains(t, buf.String(), "err=bad")
	assert.NotContains(t, buf.String(), "hidden")
	NewNopLogger().Info("discarded")
}
