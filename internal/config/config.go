package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/smartcity/corridor/internal/service"
)

// Config holds the service settings
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	RefreshInterval time.Duration
	PublishTimeout  time.Duration

	// Seed makes generation reproducible when set
	Seed *uint64

	MQTTBrokerURL string
	MQTTClientID  string
	MQTTTopic     string

	KafkaBrokers []string
	KafkaTopic   string

	Ranges service.Ranges
}

// Load reads an optional .env file and the environment.
// It reports whether a .env file was found so the caller can log it.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil
	cfg, err := FromEnv(os.Getenv)
	return cfg, dotenv, err
}

// FromEnv builds a validated Config from a lookup function
func FromEnv(getenv func(string) string) (*Config, error) {
	env := envReader{get: getenv}

	cfg := &Config{
		Port:      env.str("PORT", "8080"),
		Env:       env.str("GO_ENV", "development"),
		LogLevel:  env.str("LOG_LEVEL", "info"),
		LogFormat: env.str("LOG_FORMAT", "text"),

		RefreshInterval: env.duration("REFRESH_INTERVAL", 5*time.Second),
		PublishTimeout:  env.duration("PUBLISH_TIMEOUT", 3*time.Second),

		MQTTBrokerURL: env.str("MQTT_BROKER_URL", ""),
		MQTTClientID:  env.str("MQTT_CLIENT_ID", "corridor-metrics"),
		MQTTTopic:     env.str("MQTT_TOPIC", "corridor/snapshots"),

		KafkaBrokers: splitCSV(env.str("KAFKA_BROKERS", "")),
		KafkaTopic:   env.str("KAFKA_TOPIC", "corridor.snapshots"),

		Ranges: service.DefaultRanges(),
	}

	if v := getenv("RNG_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			env.fail("RNG_SEED", v, err)
		} else {
			cfg.Seed = &seed
		}
	}

	r := &cfg.Ranges
	env.intRange("FLOW_OFFSET_RANGE", &r.FlowOffset)
	env.intRange("SPEED_RANGE", &r.Speed)
	env.floatRange("CONGESTION_INDEX_RANGE", &r.CongestionIndex)
	env.intRange("STATS_FLOW_RANGE", &r.StatsFlow)
	env.floatRange("STATS_SPEED_RANGE", &r.StatsSpeed)
	env.floatRange("STATS_CONGESTION_RANGE", &r.StatsCongestion)
	env.intRange("STATS_TRAVEL_TIME_RANGE", &r.StatsTravelTime)
	env.intRange("INCIDENT_COUNT_RANGE", &r.IncidentCount)

	if cfg.RefreshInterval <= 0 {
		env.errs = append(env.errs, fmt.Errorf("config: REFRESH_INTERVAL must be positive, got %s", cfg.RefreshInterval))
	}
	if cfg.PublishTimeout <= 0 {
		env.errs = append(env.errs, fmt.Errorf("config: PUBLISH_TIMEOUT must be positive, got %s", cfg.PublishTimeout))
	}
	if err := cfg.Ranges.Validate(); err != nil {
		env.errs = append(env.errs, err)
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envReader collects parse errors so every bad value is reported at once
type envReader struct {
	get  func(string) string
	errs []error
}

func (e *envReader) fail(key, value string, err error) {
	e.errs = append(e.errs, fmt.Errorf("config: invalid %s=%q: %w", key, value, err))
}

func (e *envReader) str(key, defaultValue string) string {
	if value := e.get(key); value != "" {
		return value
	}
	return defaultValue
}

func (e *envReader) duration(key string, defaultValue time.Duration) time.Duration {
	value := e.get(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		e.fail(key, value, err)
		return defaultValue
	}
	return d
}

func (e *envReader) intRange(key string, dst *service.IntRange) {
	value := e.get(key)
	if value == "" {
		return
	}
	lo, hi, err := splitPair(value)
	if err != nil {
		e.fail(key, value, err)
		return
	}
	min, errMin := strconv.Atoi(lo)
	max, errMax := strconv.Atoi(hi)
	if err := errors.Join(errMin, errMax); err != nil {
		e.fail(key, value, err)
		return
	}
	*dst = service.IntRange{Min: min, Max: max}
}

func (e *envReader) floatRange(key string, dst *service.FloatRange) {
	value := e.get(key)
	if value == "" {
		return
	}
	lo, hi, err := splitPair(value)
	if err != nil {
		e.fail(key, value, err)
		return
	}
	min, errMin := strconv.ParseFloat(lo, 64)
	max, errMax := strconv.ParseFloat(hi, 64)
	if err := errors.Join(errMin, errMax); err != nil {
		e.fail(key, value, err)
		return
	}
	*dst = service.FloatRange{Min: min, Max: max}
}

func splitPair(s string) (string, string, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return "", "", errors.New("expected \"min,max\"")
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
