package models

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

//Coordinates is a WGS84 longitude/latitude pair, encoded as [lon, lat]
type Coordinates [2]float64

//NewCoordinates creates a coordinate pair from a longitude and a latitude
func NewCoordinates(longitude, latitude float64) Coordinates {
	return Coordinates{longitude, latitude}
}

//Longitude returns the first element of the pair
func (c Coordinates) Longitude() float64 {
	return c[0]
}

//Latitude returns the second element of the pair
func (c Coordinates) Latitude() float64 {
	return c[1]
}

//UnmarshalJSON accepts exactly two numbers, [lon, lat]
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	values := []float64{}
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}

	if len(values) != 2 {
		return errors.Errorf("coordinates must be [lon, lat], got %d values", len(values))
	}

	c[0], c[1] = values[0], values[1]
	return nil
}

//Point is a single location sample as submitted by a device
type Point struct {
	Coordinates Coordinates `json:"coordinates"`
	Elevation   float64     `json:"elevation"`
	Time        time.Time   `json:"time"`
	Device      string      `json:"device"`
}

//PointRecord is a stored point together with its id and owner
type PointRecord struct {
	ID    int64  `json:"id"`
	Owner string `json:"owner"`
	Point
}
