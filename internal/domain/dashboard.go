package domain

import (
	"context"
	"time"
)

// CongestionRow is a congestion sample with its derived display values
type CongestionRow struct {
	CongestionSample
	Tier        Tier   `json:"tier"`
	StatusLabel string `json:"status_label"`
	StatusTone  string `json:"status_tone"`
}

// SpeedRow is a speed sample with its free-flow ratio
type SpeedRow struct {
	SpeedSample
	Ratio float64 `json:"ratio"`
	Tier  Tier    `json:"tier"`
}

// IncidentRow is an incident with badge colours
type IncidentRow struct {
	Incident
	SeverityColor string `json:"severity_color"`
	StatusTone    string `json:"status_tone"`
}

// DashboardData aggregates the overview page
type DashboardData struct {
	Stats      RealTimeStats   `json:"stats"`
	Flow       []FlowSample    `json:"flow"`
	Congestion []CongestionRow `json:"congestion"`
	Incidents  []IncidentRow   `json:"incidents"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Filter carries the page selectors. They are validated and echoed
// but do not change what is generated.
type Filter struct {
	Range string `json:"range"`
	Road  string `json:"road,omitempty"`
	Hour  *int   `json:"hour,omitempty"`
}

// TrafficFlowView backs the traffic flow page
type TrafficFlowView struct {
	Filter     Filter           `json:"filter"`
	Flow       []FlowComparison `json:"flow"`
	VehicleMix []VehicleShare   `json:"vehicle_mix"`
	Timestamp  time.Time        `json:"timestamp"`
}

// SpeedView backs the speed analysis page
type SpeedView struct {
	Filter    Filter      `json:"filter"`
	Sections  []SpeedRow  `json:"sections"`
	Heatmap   []SpeedCell `json:"heatmap"`
	Timestamp time.Time   `json:"timestamp"`
}

// CongestionView backs the congestion map page
type CongestionView struct {
	Filter           Filter                 `json:"filter"`
	Sections         []CongestionRow        `json:"sections"`
	Links            []Link                 `json:"links"`
	Trend            []CongestionTrendPoint `json:"trend"`
	WarningThreshold float64                `json:"warning_threshold"`
	Timestamp        time.Time              `json:"timestamp"`
}

// Snapshot is one refresh tick pushed to subscribers
type Snapshot struct {
	ID          string        `json:"id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Dashboard   DashboardData `json:"dashboard"`
}

// SnapshotPublisher pushes refresh snapshots to an outbound channel.
// The domain defines the interface; adapters live in internal/publisher.
type SnapshotPublisher interface {
	// Name identifies the sink in logs and metrics
	Name() string

	// Publish sends one snapshot
	Publish(ctx context.Context, snap Snapshot) error

	// Close releases the underlying connection
	Close() error
}
