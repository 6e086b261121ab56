package models

import "time"

//TrackSpec selects all points from one device within a time window
type TrackSpec struct {
	Device  string    `json:"device"`
	MinDate time.Time `json:"min_date"`
	MaxDate time.Time `json:"max_date"`
}

//Track is a named TrackSpec, unique per (name, owner)
type Track struct {
	Name  string
	Owner string
	Spec  TrackSpec
}

//TrackWithPoints is the response body for a track lookup
type TrackWithPoints struct {
	Definition TrackSpec     `json:"definition"`
	Points     []PointRecord `json:"points"`
}
