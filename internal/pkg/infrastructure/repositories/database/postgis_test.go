package database

import (
	"context"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/infrastructure/config"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/infrastructure/logging"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/models"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/query"

	"github.com/google/uuid"
)

//These tests need a PostGIS database and only run when GEOLOG_TEST_DB_HOST is set.
//Every test writes points for freshly generated owners so runs do not interfere.
func newPostGISDatabaseForTest(t *testing.T) Datastore {
	host := os.Getenv("GEOLOG_TEST_DB_HOST")
	if host == "" {
		t.Skip("GEOLOG_TEST_DB_HOST not set, skipping PostGIS tests")
	}

	cfg := config.Config{
		DBHost:            host,
		DBPort:            envOr("GEOLOG_TEST_DB_PORT", "5432"),
		DBUser:            envOr("GEOLOG_TEST_DB_USER", "postgres"),
		DBName:            envOr("GEOLOG_TEST_DB_NAME", "geolog"),
		DBPassword:        os.Getenv("GEOLOG_TEST_DB_PASSWORD"),
		DBSSLMode:         envOr("GEOLOG_TEST_DB_SSLMODE", "disable"),
		DBConnectAttempts: 1,
		DBAutoMigrate:     true,
	}

	log := logging.NewLogger()
	db, err := NewDatabaseConnection(NewPostgreSQLConnector(cfg, log), log)
	if err != nil {
		t.Fatalf("failed to connect to PostGIS: %s", err.Error())
	}

	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func uniqueOwner(name string) string {
	return name + "-" + uuid.NewString()
}

func testPoints() []models.Point {
	t1 := time.Date(2021, 5, 1, 8, 0, 0, 0, time.UTC)

	return []models.Point{
		{Coordinates: models.NewCoordinates(10, 20), Elevation: 5, Time: t1, Device: "d1"},
		{Coordinates: models.NewCoordinates(11, 21), Elevation: -3.5, Time: t1.Add(time.Hour), Device: "d1"},
		{Coordinates: models.NewCoordinates(-70, -33), Elevation: 520, Time: t1.Add(2 * time.Hour), Device: "d2"},
	}
}

func TestThatInsertedPointsAreReturnedForTheirOwner(t *testing.T) {
	db := newPostGISDatabaseForTest(t)
	ctx := context.Background()
	owner := uniqueOwner("alice")
	points := testPoints()

	if err := db.InsertPoints(ctx, points, owner); err != nil {
		t.Fatalf("InsertPoints failed: %s", err.Error())
	}

	records, err := db.GetPoints(ctx, query.ForOwner(owner))
	if err != nil {
		t.Fatalf("GetPoints failed: %s", err.Error())
	}

	if len(records) != len(points) {
		t.Fatalf("expected %d records, got %d", len(points), len(records))
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Time.Before(records[j].Time) })

	for i, r := range records {
		p := points[i]
		if r.Owner != owner || r.Device != p.Device || r.Elevation != p.Elevation || !r.Time.Equal(p.Time) {
			t.Errorf("record %+v does not match point %+v", r, p)
		}
		if r.Coordinates != p.Coordinates {
			t.Errorf("coordinates %v != %v", r.Coordinates, p.Coordinates)
		}
	}
}

func TestThatDeviceFilterIsScopedToOwner(t *testing.T) {
	db := newPostGISDatabaseForTest(t)
	ctx := context.Background()
	alice := uniqueOwner("alice")
	bob := uniqueOwner("bob")

	db.InsertPoints(ctx, testPoints()[:1], alice)

	device := "d1"

	records, _ := db.GetPoints(ctx, query.Filter{Owner: alice, Device: &device})
	if len(records) != 1 {
		t.Errorf("expected alice to see 1 point, got %d", len(records))
	}

	records, _ = db.GetPoints(ctx, query.Filter{Owner: bob, Device: &device})
	if len(records) != 0 {
		t.Errorf("expected bob to see no points, got %d", len(records))
	}
}

func TestThatBoundingBoxExcludesPointsOutsideIt(t *testing.T) {
	db := newPostGISDatabaseForTest(t)
	ctx := context.Background()
	owner := uniqueOwner("alice")

	db.InsertPoints(ctx, testPoints(), owner)

	records, err := db.GetPoints(ctx, query.Filter{
		Owner: owner,
		BBox:  &query.BoundingBox{MinLon: 9, MaxLon: 12, MinLat: 19, MaxLat: 22},
	})
	if err != nil {
		t.Fatalf("GetPoints failed: %s", err.Error())
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 points inside the box, got %d", len(records))
	}

	for _, r := range records {
		if r.Device != "d1" {
			t.Errorf("point %+v should be outside the bounding box", r)
		}
	}
}

func TestThatTimeRangeIsInclusive(t *testing.T) {
	db := newPostGISDatabaseForTest(t)
	ctx := context.Background()
	owner := uniqueOwner("alice")
	points := testPoints()

	db.InsertPoints(ctx, points, owner)

	records, _ := db.GetPoints(ctx, query.Filter{
		Owner: owner,
		Time:  &query.TimeRange{MinDate: points[0].Time, MaxDate: points[1].Time},
	})

	if len(records) != 2 {
		t.Errorf("expected both boundary points, got %d", len(records))
	}
}

func TestThatLimitCapsResults(t *testing.T) {
	db := newPostGISDatabaseForTest(t)
	ctx := context.Background()
	owner := uniqueOwner("alice")

	db.InsertPoints(ctx, testPoints(), owner)

	for limit, expected := range map[int64]int{0: 0, 2: 2, 3: 3, 10: 3} {
		l := limit
		records, err := db.GetPoints(ctx, query.Filter{Owner: owner, Limit: &l})
		if err != nil {
			t.Fatalf("GetPoints failed: %s", err.Error())
		}

		if len(records) != expected {
			t.Errorf("limit %d: expected %d records, got %d", limit, expected, len(records))
		}
	}
}

func TestThatTrackFilterSelectsTrackPoints(t *testing.T) {
	db := newPostGISDatabaseForTest(t)
	ctx := context.Background()
	owner := uniqueOwner("alice")
	points := testPoints()

	db.InsertPoints(ctx, points, owner)

	track := models.Track{
		Name:  "morning",
		Owner: owner,
		Spec:  models.TrackSpec{Device: "d1", MinDate: points[0].Time, MaxDate: points[2].Time},
	}
	if err := db.InsertTrack(ctx, track); err != nil {
		t.Fatalf("InsertTrack failed: %s", err.Error())
	}

	stored, err := db.GetTrack(ctx, "morning", owner)
	if err != nil {
		t.Fatalf("GetTrack failed: %s", err.Error())
	}

	records, _ := db.GetPoints(ctx, query.FromTrack(*stored))
	if len(records) != 2 {
		t.Errorf("expected the 2 d1 points on the track, got %d", len(records))
	}
}

func TestThatFailedBatchKeepsEarlierPointsAndStops(t *testing.T) {
	db := newPostGISDatabaseForTest(t)
	ctx := context.Background()
	owner := uniqueOwner("alice")
	points := testPoints()

	//a latitude of 100 is rejected by the geography column
	points[1].Coordinates = models.NewCoordinates(11, 100)

	if err := db.InsertPoints(ctx, points, owner); err == nil {
		t.Fatal("expected an error for an out of range latitude")
	}

	records, err := db.GetPoints(ctx, query.ForOwner(owner))
	if err != nil {
		t.Fatalf("GetPoints failed: %s", err.Error())
	}

	if len(records) != 1 {
		t.Fatalf("expected only the point before the failure, got %d", len(records))
	}

	if records[0].Coordinates != points[0].Coordinates || !records[0].Time.Equal(points[0].Time) {
		t.Errorf("unexpected stored point %+v", records[0])
	}
}
