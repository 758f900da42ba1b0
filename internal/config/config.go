// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the process configuration, read from the environment. Defaults
// match the original deployment.
type Config struct {
	// Addr is the listen address, built from PORT.
	Addr string

	// SponsorPath points at the sponsor/campaign JSON file. Empty disables
	// the sponsor API.
	SponsorPath string

	// SpectatorPolicy is "evict" or "retain": what happens to spectators when
	// the last player leaves a room.
	SpectatorPolicy string

	// ConfirmWindow bounds the quick-match confirmation phase.
	ConfirmWindow time.Duration

	// QuickMatchSize is the matchmaking batch size.
	QuickMatchSize int
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		Addr:            ":" + getEnv("PORT", "8080"),
		SponsorPath:     getEnv("SPONSOR_CONFIG", "sponsors.json"),
		SpectatorPolicy: getEnv("SPECTATOR_POLICY", "evict"),
		ConfirmWindow:   time.Duration(getEnvInt("CONFIRM_WINDOW_SECONDS", 30)) * time.Second,
		QuickMatchSize:  getEnvInt("QUICK_MATCH_SIZE", 4),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
