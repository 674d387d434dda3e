package domain

import "github.com/smartcity/corridor/pkg/utils"

// Tier is a colour band derived from a numeric value
type Tier struct {
	Level string `json:"level"`
	Color string `json:"color"`
}

// Congestion tiers
var (
	TierFree     = Tier{Level: "free", Color: "#52c41a"}
	TierModerate = Tier{Level: "moderate", Color: "#faad14"}
	TierSevere   = Tier{Level: "severe", Color: "#f5222d"}
)

// Speed ratio tiers
var (
	TierSpeedNormal  = Tier{Level: "normal", Color: "#52c41a"}
	TierSpeedReduced = Tier{Level: "reduced", Color: "#faad14"}
	TierSpeedSlow    = Tier{Level: "slow", Color: "#f5222d"}
)

// CongestionWarningThreshold is the index at which the trend chart raises a warning
const CongestionWarningThreshold = 2.0

// ClassifyCongestion maps a congestion index to its colour tier
func ClassifyCongestion(index float64) Tier {
	switch {
	case index < 1.5:
		return TierFree
	case index < 2:
		return TierModerate
	default:
		return TierSevere
	}
}

// SpeedRatio returns speed as a percentage of free-flow speed, rounded to one decimal
func SpeedRatio(speed, freeFlowSpeed int) float64 {
	if freeFlowSpeed <= 0 {
		return 0
	}
	return utils.RoundTo(float64(speed)/float64(freeFlowSpeed)*100, 1)
}

// ClassifySpeedRatio maps a speed ratio percentage to its colour tier
func ClassifySpeedRatio(ratio float64) Tier {
	switch {
	case ratio < 60:
		return TierSpeedSlow
	case ratio < 80:
		return TierSpeedReduced
	default:
		return TierSpeedNormal
	}
}

// Valid reports whether s is one of the four known states
func (s CongestionStatus) Valid() bool {
	return s >= StatusFree && s <= StatusSevere
}

// Label returns the display text of the status
func (s CongestionStatus) Label() string {
	switch s {
	case StatusFree:
		return "Free flow"
	case StatusLight:
		return "Light congestion"
	case StatusModerate:
		return "Moderate congestion"
	case StatusSevere:
		return "Severe congestion"
	default:
		return "Unknown"
	}
}

// Tone returns the badge tone of the status
func (s CongestionStatus) Tone() string {
	switch s {
	case StatusFree:
		return "success"
	case StatusLight:
		return "warning"
	default:
		return "error"
	}
}

// Color returns the badge colour of the severity
func (s IncidentSeverity) Color() string {
	switch s {
	case SeveritySevere:
		return "red"
	case SeverityGeneral:
		return "orange"
	default:
		return "green"
	}
}

// Tone returns the badge tone of the incident status
func (s IncidentStatus) Tone() string {
	if s == IncidentInProgress {
		return "processing"
	}
	return "success"
}
