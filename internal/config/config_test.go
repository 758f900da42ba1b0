// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SPONSOR_CONFIG", "")
	t.Setenv("SPECTATOR_POLICY", "")
	t.Setenv("CONFIRM_WINDOW_SECONDS", "")
	t.Setenv("QUICK_MATCH_SIZE", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "sponsors.json", cfg.SponsorPath)
	assert.Equal(t, "evict", cfg.SpectatorPolicy)
	assert.Equal(t, 30*time.Second, cfg.ConfirmWindow)
	assert.Equal(t, 4, cfg.QuickMatchSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SPONSOR_CONFIG", "/etc/game/sponsors.json")
	t.Setenv("SPECTATOR_POLICY", "retain")
	t.Setenv("CONFIRM_WINDOW_SECONDS", "10")
	t.Setenv("QUICK_MATCH_SIZE", "2")

	cfg := Load()
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "/etc/game/sponsors.json", cfg.SponsorPath)
	assert.Equal(t, "retain", cfg.SpectatorPolicy)
	assert.Equal(t, 10*time.Second, cfg.ConfirmWindow)
	assert.Equal(t, 2, cfg.QuickMatchSize)
}

func TestLoadRejectsGarbageIntegers(t *testing.T) {
	t.Setenv("CONFIRM_WINDOW_SECONDS", "soon")
	t.Setenv("QUICK_MATCH_SIZE", "-1")

	cfg := Load()
	assert.Equal(t, 30*time.Second, cfg.ConfirmWindow)
	assert.Equal(t, 4, cfg.QuickMatchSize)
}
