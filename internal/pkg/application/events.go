package application

import (
	"sort"
	"time"

	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/models"
	"github.com/iot-for-tillgenglighet/messaging-golang/pkg/messaging"
)

//MessagingContext is an interface that allows mocking of messaging.Context parameters
type MessagingContext interface {
	PublishOnTopic(message messaging.TopicMessage) error
}

type pointsCreated struct {
	Owner     string   `json:"owner"`
	Devices   []string `json:"devices"`
	Count     int      `json:"count"`
	Timestamp string   `json:"timestamp"`
}

func (m *pointsCreated) ContentType() string {
	return "application/json"
}

func (m *pointsCreated) TopicName() string {
	return "geolog.points.created"
}

func newPointsCreated(owner string, points []models.Point) *pointsCreated {
	seen := map[string]bool{}
	devices := []string{}

	for _, p := range points {
		if !seen[p.Device] {
			seen[p.Device] = true
			devices = append(devices, p.Device)
		}
	}
	sort.Strings(devices)

	return &pointsCreated{
		Owner:     owner,
		Devices:   devices,
		Count:     len(points),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type trackCreated struct {
	Name       string           `json:"name"`
	Owner      string           `json:"owner"`
	Definition models.TrackSpec `json:"definition"`
	Timestamp  string           `json:"timestamp"`
}

func (m *trackCreated) ContentType() string {
	return "application/json"
}

func (m *trackCreated) TopicName() string {
	return "geolog.track.created"
}

func newTrackCreated(track models.Track) *trackCreated {
	return &trackCreated{
		Name:       track.Name,
		Owner:      track.Owner,
		Definition: track.Spec,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

//publish is best effort; a failure is logged and never changes the response
func (a *api) publish(message messaging.TopicMessage) {
	if a.messenger == nil {
		return
	}

	if err := a.messenger.PublishOnTopic(message); err != nil {
		a.log.Warnf("Failed to publish %s: %s", message.TopicName(), err.Error())
	}
}
