package models

import (
	"time"
)

//Point is the database model for a stored location. Coordinates is a PostGIS
//geography column and is only written and read through spatial functions.
type Point struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Owner       string    `gorm:"not null;index:idx_points_owner_device_time,priority:1"`
	Coordinates string    `gorm:"type:geography(Point,4326);not null;index:idx_points_coordinates,type:gist"`
	Elevation   float64   `gorm:"not null"`
	Time        time.Time `gorm:"type:timestamptz;not null;index:idx_points_owner_device_time,priority:3"`
	Device      string    `gorm:"not null;index:idx_points_owner_device_time,priority:2"`
}

//TableName returns the name of the points table
func (Point) TableName() string {
	return "points"
}

//Device maps a secret token to a named device and its owning username
type Device struct {
	Token    []byte `gorm:"primaryKey"`
	Name     string `gorm:"not null"`
	Username string `gorm:"not null;index"`
}

//TableName returns the name of the devices table
func (Device) TableName() string {
	return "devices"
}

//Track is a named device/time window, unique per owner
type Track struct {
	Name    string    `gorm:"primaryKey"`
	Owner   string    `gorm:"primaryKey"`
	Device  string    `gorm:"not null"`
	MinDate time.Time `gorm:"not null"`
	MaxDate time.Time `gorm:"not null"`
}

//TableName returns the name of the tracks table
func (Track) TableName() string {
	return "tracks"
}
