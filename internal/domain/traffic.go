package domain

import "time"

// FreeFlowSpeed is the reference maximum speed of every section in km/h
const FreeFlowSpeed = 120

// Congestion index domain
const (
	CongestionIndexFloor   = 1.0
	CongestionIndexCeiling = 3.0
)

// FlowSample is the traffic volume of one hourly bucket in vehicles/hour
type FlowSample struct {
	Time  string `json:"time"`
	Value int    `json:"value"`
}

// FlowComparison pairs an observed flow with its predicted value
type FlowComparison struct {
	Time      string  `json:"time"`
	Actual    int     `json:"actual"`
	Predicted float64 `json:"predicted"`
}

// SpeedSample is the current speed of a section in km/h
type SpeedSample struct {
	Section       RoadSection `json:"section"`
	Speed         int         `json:"speed"`
	FreeFlowSpeed int         `json:"free_flow_speed"`
}

// SpeedCell is one cell of the section x hour speed heatmap
type SpeedCell struct {
	Hour         int `json:"hour"`
	SectionIndex int `json:"section_index"`
	Speed        int `json:"speed"`
}

// CongestionStatus is the categorical congestion state of a section
type CongestionStatus int

const (
	StatusFree     CongestionStatus = 1
	StatusLight    CongestionStatus = 2
	StatusModerate CongestionStatus = 3
	StatusSevere   CongestionStatus = 4
)

// CongestionSample holds the congestion index and status of a section.
// Status is sampled on its own and may disagree with Index.
type CongestionSample struct {
	Section RoadSection      `json:"section"`
	Index   float64          `json:"index"`
	Status  CongestionStatus `json:"status"`
}

// CongestionTrendPoint is an hourly congestion index
type CongestionTrendPoint struct {
	Time  string  `json:"time"`
	Index float64 `json:"index"`
}

// RealTimeStats is the corridor-wide snapshot shown in the dashboard header
type RealTimeStats struct {
	CurrentFlow     int     `json:"current_flow"`
	AverageSpeed    float64 `json:"average_speed"`
	CongestionIndex float64 `json:"congestion_index"`
	TravelTime      int     `json:"travel_time"`
}

// VehicleType is a vehicle size category
type VehicleType string

const (
	VehicleSmall      VehicleType = "small"
	VehicleMedium     VehicleType = "medium"
	VehicleLarge      VehicleType = "large"
	VehicleExtraLarge VehicleType = "extra_large"
)

// VehicleTypes lists the categories in display order
var VehicleTypes = [...]VehicleType{VehicleSmall, VehicleMedium, VehicleLarge, VehicleExtraLarge}

// VehicleShare is the share of a vehicle category in percent.
// The four shares are not normalized and need not sum to 100.
type VehicleShare struct {
	Type       VehicleType `json:"type"`
	Percentage int         `json:"percentage"`
}

// IncidentType classifies an incident
type IncidentType string

const (
	IncidentRearEnd  IncidentType = "rear_end"
	IncidentRollover IncidentType = "rollover"
	IncidentScrape   IncidentType = "scrape"
	IncidentOther    IncidentType = "other"
)

// IncidentTypes lists every incident type
var IncidentTypes = [...]IncidentType{IncidentRearEnd, IncidentRollover, IncidentScrape, IncidentOther}

// IncidentSeverity grades an incident
type IncidentSeverity string

const (
	SeverityMinor   IncidentSeverity = "minor"
	SeverityGeneral IncidentSeverity = "general"
	SeveritySevere  IncidentSeverity = "severe"
)

// IncidentSeverities lists every severity
var IncidentSeverities = [...]IncidentSeverity{SeverityMinor, SeverityGeneral, SeveritySevere}

// IncidentStatus is the handling state of an incident
type IncidentStatus string

const (
	IncidentInProgress IncidentStatus = "in_progress"
	IncidentResolved   IncidentStatus = "resolved"
)

// IncidentStatuses lists every handling state
var IncidentStatuses = [...]IncidentStatus{IncidentInProgress, IncidentResolved}

// Incident represents a road event on a section.
// IDs are random and may repeat within a list.
type Incident struct {
	ID       int              `json:"id"`
	Location RoadSection      `json:"location"`
	Type     IncidentType     `json:"type"`
	Severity IncidentSeverity `json:"severity"`
	Time     time.Time        `json:"time"`
	Status   IncidentStatus   `json:"status"`
}

// TrendPoint is a daily corridor aggregate used for history and forecast
type TrendPoint struct {
	Date       string  `json:"date"`
	Flow       int     `json:"flow"`
	Speed      int     `json:"speed"`
	Congestion float64 `json:"congestion"`
}
