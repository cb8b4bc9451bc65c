package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, 14*24*time.Hour, cfg.GraceWindow)
	assert.Equal(t, 0.5, cfg.GraceDecay)
	assert.Equal(t, 5*time.Minute, cfg.SchedulerInterval)
	assert.Equal(t, 168*time.Hour, cfg.RecencyHalfLife)
	assert.Equal(t, "lifecycle.events", cfg.EventChannel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GRACE_WINDOW", "168h")
	t.Setenv("GRACE_DECAY", "0.25")
	t.Setenv("SCHEDULER_WORKERS", "16")

	cfg := Load()

	assert.Equal(t, 168*time.Hour, cfg.GraceWindow)
	assert.Equal(t, 0.25, cfg.GraceDecay)
	assert.Equal(t, 16, cfg.SchedulerWorkers)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("GRACE_WINDOW", "two weeks")
	t.Setenv("SCHEDULER_WORKERS", "many")

	cfg := Load()

	assert.Equal(t, 14*24*time.Hour, cfg.GraceWindow)
	assert.Equal(t, 8, cfg.SchedulerWorkers)
}
