package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcity/corridor/internal/service"
)

func lookup(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookup(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 5*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 3*time.Second, cfg.PublishTimeout)
	assert.Nil(t, cfg.Seed)
	assert.Empty(t, cfg.MQTTBrokerURL)
	assert.Equal(t, "corridor/snapshots", cfg.MQTTTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "corridor.snapshots", cfg.KafkaTopic)
	assert.Equal(t, service.DefaultRanges(), cfg.Ranges)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		"PORT":                   "9090",
		"REFRESH_INTERVAL":       "2s",
		"RNG_SEED":               "42",
		"KAFKA_BROKERS":          "kafka-1:9092, kafka-2:9092,",
		"SPEED_RANGE":            "70, 110",
		"CONGESTION_INDEX_RANGE": "1.2,2.8",
		"INCIDENT_COUNT_RANGE":   "0,5",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.RefreshInterval)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(42), *cfg.Seed)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, service.IntRange{Min: 70, Max: 110}, cfg.Ranges.Speed)
	assert.Equal(t, service.FloatRange{Min: 1.2, Max: 2.8}, cfg.Ranges.CongestionIndex)
	assert.Equal(t, service.IntRange{Min: 0, Max: 5}, cfg.Ranges.IncidentCount)
}

func TestFromEnvRejectsOutOfDomainRanges(t *testing.T) {
	_, err := FromEnv(lookup(map[string]string{
		"FLOW_OFFSET_RANGE": "-1500,500",
		"SPEED_RANGE":       "120,60",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can go negative")
	assert.Contains(t, err.Error(), "is inverted")

	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"STATS_SPEED_RANGE", "70,Inf", "must be finite"},
		{"CONGESTION_INDEX_RANGE", "NaN,3", "must be finite"},
		{"STATS_FLOW_RANGE", "0,9223372036854775807", "stats flow range"},
		{"INCIDENT_COUNT_RANGE", "3,2000000000", "incident count range"},
		{"STATS_TRAVEL_TIME_RANGE", "25,100000", "stats travel time range"},
		{"SPEED_RANGE", "60,500", "exceeds free-flow speed"},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			_, err := FromEnv(lookup(map[string]string{test.key: test.value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.want)
		})
	}
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	tests := map[string]string{
		"REFRESH_INTERVAL":        "soon",
		"RNG_SEED":                "-1",
		"SPEED_RANGE":             "60",
		"STATS_SPEED_RANGE":       "fast,faster",
		"STATS_TRAVEL_TIME_RANGE": "25;35",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := FromEnv(lookup(map[string]string{key: value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestFromEnvRejectsNonPositiveDurations(t *testing.T) {
	_, err := FromEnv(lookup(map[string]string{"PUBLISH_TIMEOUT": "0s"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PUBLISH_TIMEOUT must be positive")
}
