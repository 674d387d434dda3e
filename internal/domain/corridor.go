package domain

import "fmt"

// RoadSection names one segment of the corridor
type RoadSection string

// roadSections is the corridor in travel order. Index order defines adjacency.
var roadSections = [...]RoadSection{
	"Guangzhou South - Shiwan",
	"Shiwan - Xiqiao",
	"Xiqiao - Ronggui",
	"Ronggui - Daliang",
	"Daliang - Leliu",
	"Leliu - Lunjiao",
	"Lunjiao - Beijiao",
	"Beijiao - Lecong",
	"Lecong - Chencun",
	"Chencun - Foshan",
}

// HoursPerDay is the number of hourly time buckets
const HoursPerDay = 24

// SectionCount returns the number of road sections in the corridor
func SectionCount() int {
	return len(roadSections)
}

// RoadSections returns the corridor sections in order.
// Each call returns a fresh slice so callers cannot mutate the topology.
func RoadSections() []RoadSection {
	out := make([]RoadSection, len(roadSections))
	copy(out, roadSections[:])
	return out
}

// IsRoadSection reports whether name is part of the corridor
func IsRoadSection(name string) bool {
	for _, s := range roadSections {
		if string(s) == name {
			return true
		}
	}
	return false
}

// Link connects two consecutive sections by index
type Link struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// Links returns the adjacency of the corridor path
func Links() []Link {
	links := make([]Link, 0, len(roadSections)-1)
	for i := 0; i < len(roadSections)-1; i++ {
		links = append(links, Link{Source: i, Target: i + 1})
	}
	return links
}

// HourLabel formats an hour as a time bucket label ("05:00")
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// TimeBuckets returns the 24 hourly labels "00:00".."23:00"
func TimeBuckets() []string {
	labels := make([]string, HoursPerDay)
	for h := range labels {
		labels[h] = HourLabel(h)
	}
	return labels
}

// Marker is a map anchor for a section
type Marker struct {
	Section   RoadSection `json:"section"`
	Index     int         `json:"index"`
	Latitude  float64     `json:"lat"`
	Longitude float64     `json:"lon"`
}

// markerCoordinates trace the highway from Guangzhou towards Shenzhen.
// There are fewer anchors than sections; the last section has no marker.
var markerCoordinates = [...][2]float64{
	{23.1291, 113.2644},
	{23.1207, 113.3215},
	{23.1150, 113.4033},
	{23.0234, 113.7669},
	{22.9161, 113.8766},
	{22.8350, 113.9339},
	{22.7555, 114.0637},
	{22.6468, 114.1225},
	{22.5524, 114.1131},
}

// Markers returns the section anchors used by the highway map
func Markers() []Marker {
	markers := make([]Marker, 0, len(markerCoordinates))
	for i, c := range markerCoordinates {
		if i >= len(roadSections) {
			break
		}
		markers = append(markers, Marker{
			Section:   roadSections[i],
			Index:     i,
			Latitude:  c[0],
			Longitude: c[1],
		})
	}
	return markers
}

// Topology is the corridor description served to the dashboard
type Topology struct {
	Sections []RoadSection `json:"sections"`
	Links    []Link        `json:"links"`
	Markers  []Marker      `json:"markers"`
}

// CorridorTopology assembles sections, links and markers
func CorridorTopology() Topology {
	return Topology{
		Sections: RoadSections(),
		Links:    Links(),
		Markers:  Markers(),
	}
}
