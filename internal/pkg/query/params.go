package query

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

//ParameterError reports a query parameter that could not be parsed
type ParameterError struct {
	Name  string
	Value string
	Err   error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid value %q for query parameter %s: %s", e.Value, e.Name, e.Err.Error())
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

//ParseFilter reads the optional device, bounding box, time range and limit
//parameters. The returned filter has no owner; the caller assigns it from the
//authenticated device.
//
//A bounding box is only formed when all four of minlon, maxlon, minlat and
//maxlat are present, and a time range only when both min_date and max_date
//are. A partial set is dropped without error.
func ParseFilter(values url.Values) (Filter, error) {
	f := Filter{}

	if device := values.Get("device"); device != "" {
		f.Device = &device
	}

	bbox, err := parseBoundingBox(values)
	if err != nil {
		return Filter{}, err
	}
	f.BBox = bbox

	timeRange, err := parseTimeRange(values)
	if err != nil {
		return Filter{}, err
	}
	f.Time = timeRange

	if raw, ok := lookup(values, "limit"); ok {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && limit < 0 {
			err = fmt.Errorf("must not be negative")
		}
		if err != nil {
			return Filter{}, &ParameterError{Name: "limit", Value: raw, Err: err}
		}
		f.Limit = &limit
	}

	return f, nil
}

func lookup(values url.Values, name string) (string, bool) {
	v, ok := values[name]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func parseBoundingBox(values url.Values) (*BoundingBox, error) {
	names := []string{"minlon", "maxlon", "minlat", "maxlat"}
	parsed := make([]float64, len(names))

	raw := make([]string, len(names))
	for i, name := range names {
		v, ok := lookup(values, name)
		if !ok {
			return nil, nil
		}
		raw[i] = v
	}

	for i, name := range names {
		f, err := strconv.ParseFloat(raw[i], 64)
		if err != nil {
			return nil, &ParameterError{Name: name, Value: raw[i], Err: err}
		}
		parsed[i] = f
	}

	return &BoundingBox{
		MinLon: parsed[0],
		MaxLon: parsed[1],
		MinLat: parsed[2],
		MaxLat: parsed[3],
	}, nil
}

func parseTimeRange(values url.Values) (*TimeRange, error) {
	rawMin, hasMin := lookup(values, "min_date")
	rawMax, hasMax := lookup(values, "max_date")
	if !hasMin || !hasMax {
		return nil, nil
	}

	minDate, err := time.Parse(time.RFC3339, rawMin)
	if err != nil {
		return nil, &ParameterError{Name: "min_date", Value: rawMin, Err: err}
	}

	maxDate, err := time.Parse(time.RFC3339, rawMax)
	if err != nil {
		return nil, &ParameterError{Name: "max_date", Value: rawMax, Err: err}
	}

	return &TimeRange{MinDate: minDate, MaxDate: maxDate}, nil
}
