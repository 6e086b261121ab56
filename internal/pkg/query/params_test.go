package query

import (
	"errors"
	"net/url"
	"testing"
	"time"
)

func TestParseFilterWithNoParameters(t *testing.T) {
	f, err := ParseFilter(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if f.Device != nil || f.Time != nil || f.BBox != nil || f.Limit != nil {
		t.Errorf("expected an empty filter, got %+v", f)
	}
}

func TestThatOwnerCannotBeSuppliedAsParameter(t *testing.T) {
	values, _ := url.ParseQuery("owner=mallory&user=mallory&device=d1")

	f, err := ParseFilter(values)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if f.Owner != "" {
		t.Errorf("owner was populated from request input: %s", f.Owner)
	}
}

func TestParseFilterWithAllParameters(t *testing.T) {
	values, _ := url.ParseQuery(
		"device=d1&minlon=10.5&maxlon=11&minlat=-20&maxlat=20.25&limit=7" +
			"&min_date=2021-05-01T00:00:00Z&max_date=2021-05-02T00:00:00%2B02:00",
	)

	f, err := ParseFilter(values)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if f.Device == nil || *f.Device != "d1" {
		t.Errorf("unexpected device %v", f.Device)
	}

	expectedBox := BoundingBox{MinLon: 10.5, MaxLon: 11, MinLat: -20, MaxLat: 20.25}
	if f.BBox == nil || *f.BBox != expectedBox {
		t.Errorf("unexpected bounding box %+v", f.BBox)
	}

	if f.Limit == nil || *f.Limit != 7 {
		t.Errorf("unexpected limit %v", f.Limit)
	}

	expectedMax := time.Date(2021, 5, 1, 22, 0, 0, 0, time.UTC)
	if f.Time == nil || !f.Time.MaxDate.Equal(expectedMax) {
		t.Errorf("unexpected time range %+v", f.Time)
	}
}

func TestThatPartialBoundingBoxIsDropped(t *testing.T) {
	values, _ := url.ParseQuery("minlon=1&maxlon=2&minlat=3")

	f, err := ParseFilter(values)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if f.BBox != nil {
		t.Errorf("expected partial bounding box to be dropped, got %+v", f.BBox)
	}
}

func TestThatPartialTimeRangeIsDropped(t *testing.T) {
	values, _ := url.ParseQuery("min_date=2021-05-01T00:00:00Z")

	f, err := ParseFilter(values)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if f.Time != nil {
		t.Errorf("expected partial time range to be dropped, got %+v", f.Time)
	}
}

func TestThatInvalidParametersAreRejected(t *testing.T) {
	queries := map[string]string{
		"maxlat":   "minlon=1&maxlon=2&minlat=3&maxlat=north",
		"limit":    "limit=ten",
		"min_date": "min_date=yesterday&max_date=2021-05-01T00:00:00Z",
	}

	for name, raw := range queries {
		values, _ := url.ParseQuery(raw)

		_, err := ParseFilter(values)

		var paramErr *ParameterError
		if !errors.As(err, &paramErr) {
			t.Errorf("%s: expected a ParameterError, got %v", raw, err)
			continue
		}

		if paramErr.Name != name {
			t.Errorf("%s: error names parameter %s, expected %s", raw, paramErr.Name, name)
		}
	}
}

func TestThatNegativeLimitIsRejected(t *testing.T) {
	values, _ := url.ParseQuery("limit=-1")

	if _, err := ParseFilter(values); err == nil {
		t.Error("expected negative limit to be rejected")
	}
}
