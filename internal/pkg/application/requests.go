package application

import (
	"encoding/json"
	"io"
	"time"

	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/models"
	"github.com/pkg/errors"
)

//BodyError is returned when a request body is not valid JSON or lacks a required field
type BodyError struct {
	Err error
}

func (e *BodyError) Error() string {
	return "invalid request body: " + e.Err.Error()
}

func (e *BodyError) Unwrap() error {
	return e.Err
}

func missingField(index int, name string) error {
	if index < 0 {
		return &BodyError{Err: errors.Errorf("field %s is required", name)}
	}
	return &BodyError{Err: errors.Errorf("point %d: field %s is required", index, name)}
}

//pointBody mirrors models.Point with every field required
type pointBody struct {
	Coordinates *models.Coordinates `json:"coordinates"`
	Elevation   *float64            `json:"elevation"`
	Time        *time.Time          `json:"time"`
	Device      *string             `json:"device"`
}

type trackSpecBody struct {
	Device  *string    `json:"device"`
	MinDate *time.Time `json:"min_date"`
	MaxDate *time.Time `json:"max_date"`
}

func decodePoints(body io.Reader) ([]models.Point, error) {
	bodies := []pointBody{}
	if err := json.NewDecoder(body).Decode(&bodies); err != nil {
		return nil, &BodyError{Err: err}
	}

	points := make([]models.Point, 0, len(bodies))

	for i, b := range bodies {
		switch {
		case b.Coordinates == nil:
			return nil, missingField(i, "coordinates")
		case b.Elevation == nil:
			return nil, missingField(i, "elevation")
		case b.Time == nil:
			return nil, missingField(i, "time")
		case b.Device == nil:
			return nil, missingField(i, "device")
		}

		points = append(points, models.Point{
			Coordinates: *b.Coordinates,
			Elevation:   *b.Elevation,
			Time:        *b.Time,
			Device:      *b.Device,
		})
	}

	return points, nil
}

func decodeTrackSpec(body io.Reader) (models.TrackSpec, error) {
	b := trackSpecBody{}
	if err := json.NewDecoder(body).Decode(&b); err != nil {
		return models.TrackSpec{}, &BodyError{Err: err}
	}

	switch {
	case b.Device == nil:
		return models.TrackSpec{}, missingField(-1, "device")
	case b.MinDate == nil:
		return models.TrackSpec{}, missingField(-1, "min_date")
	case b.MaxDate == nil:
		return models.TrackSpec{}, missingField(-1, "max_date")
	}

	return models.TrackSpec{Device: *b.Device, MinDate: *b.MinDate, MaxDate: *b.MaxDate}, nil
}
