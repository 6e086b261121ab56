package query

import (
	"time"

	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/models"
)

//BoundingBox is a WGS84 rectangle. No ordering between min and max is enforced.
type BoundingBox struct {
	MinLon float64
	MaxLon float64
	MinLat float64
	MaxLat float64
}

//TimeRange is an inclusive time window
type TimeRange struct {
	MinDate time.Time
	MaxDate time.Time
}

//Filter describes which points to retrieve. Owner must always be set from the
//authenticated device and is never read from request input.
type Filter struct {
	Owner  string
	Device *string
	Time   *TimeRange
	BBox   *BoundingBox
	Limit  *int64
}

//ForOwner returns a filter that matches every point belonging to owner
func ForOwner(owner string) Filter {
	return Filter{Owner: owner}
}

//FromTrack projects a stored track onto the filter that selects its points
func FromTrack(track models.Track) Filter {
	device := track.Spec.Device

	return Filter{
		Owner:  track.Owner,
		Device: &device,
		Time: &TimeRange{
			MinDate: track.Spec.MinDate,
			MaxDate: track.Spec.MaxDate,
		},
	}
}
