package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration

	// Polling cadence for the queue sync engine
	ActivePollInterval time.Duration // while in a queue
	IdlePollInterval   time.Duration // while browsing

	// Discovery
	DiscoveryInterval time.Duration
	SearchRadiusKm    float64
	GeoEndpoint       string // "off" disables location entirely
	GeoTimeout        time.Duration
	GeoMaxFixAge      time.Duration

	// Wait estimates. The user-facing estimate uses ServiceUnitMinutes,
	// the barber dashboard totals use BarberUnitMinutes.
	ServiceUnitMinutes int
	BarberUnitMinutes  int

	SessionFile string
	SoundOn     bool
	Debug       bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:         firstNonEmpty(os.Getenv("NEXTCUT_API_URL"), "http://localhost:3000"),
		RequestTimeout:     getDuration("NEXTCUT_REQUEST_TIMEOUT", 10*time.Second),
		ActivePollInterval: getDuration("QUEUE_ACTIVE_POLL_INTERVAL", 5*time.Second),
		IdlePollInterval:   getDuration("QUEUE_IDLE_POLL_INTERVAL", 30*time.Second),
		DiscoveryInterval:  getDuration("DISCOVERY_REFRESH_INTERVAL", 30*time.Second),
		SearchRadiusKm:     getFloat("DISCOVERY_RADIUS_KM", 4),
		GeoEndpoint:        firstNonEmpty(os.Getenv("GEO_ENDPOINT"), "http://ip-api.com/json"),
		GeoTimeout:         getDuration("GEO_TIMEOUT", 10*time.Second),
		GeoMaxFixAge:       getDuration("GEO_MAX_FIX_AGE", 5*time.Minute),
		ServiceUnitMinutes: getInt("QUEUE_SERVICE_UNIT_MIN", 15),
		BarberUnitMinutes:  getInt("QUEUE_BARBER_UNIT_MIN", 20),
		SessionFile:        firstNonEmpty(os.Getenv("NEXTCUT_SESSION_FILE"), defaultSessionFile()),
		SoundOn:            getBool("NEXTCUT_SOUND", true),
		Debug:              getBool("NEXTCUT_DEBUG", false),
	}

	if cfg.ActivePollInterval <= 0 || cfg.IdlePollInterval <= 0 {
		return nil, errors.New("poll intervals must be positive")
	}
	if cfg.ActivePollInterval > cfg.IdlePollInterval {
		return nil, errors.New("QUEUE_ACTIVE_POLL_INTERVAL must not exceed QUEUE_IDLE_POLL_INTERVAL")
	}
	if cfg.ServiceUnitMinutes <= 0 || cfg.BarberUnitMinutes <= 0 {
		return nil, errors.New("wait-time unit minutes must be positive")
	}
	if cfg.SearchRadiusKm <= 0 {
		return nil, errors.New("DISCOVERY_RADIUS_KM must be positive")
	}

	return cfg, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nextcut-session.json"
	}
	return home + "/.nextcut-session.json"
}

func firstNonEmpty(v, d string) string {
	if v == "" {
		return d
	}
	return v
}

func getDuration(key string, d time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return d
}

func getInt(key string, d int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return d
}

func getFloat(key string, d float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return d
}

func getBool(key string, d bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return d
}

// Redacted is safe to log: the session file may hold a token but the
// config itself never does.
func (c *Config) Redacted() string {
	return fmt.Sprintf(
		"api=%s activePoll=%s idlePoll=%s discovery=%s radius=%.1fkm unitMin=%d session=%s",
		c.APIBaseURL, c.ActivePollInterval, c.IdlePollInterval,
		c.DiscoveryInterval, c.SearchRadiusKm, c.ServiceUnitMinutes, c.SessionFile,
	)
}
