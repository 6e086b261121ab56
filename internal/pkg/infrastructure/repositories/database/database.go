package database

import (
	"context"
	"fmt"
	"time"

	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/infrastructure/config"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/infrastructure/logging"
	dbmodels "github.com/iot-for-tillgenglighet/geolog/internal/pkg/infrastructure/repositories/models"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/models"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/query"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const pointInsertion = "INSERT INTO points (owner, coordinates, elevation, time, device) " +
	"VALUES (?, ST_SetSRID(ST_MakePoint(?, ?), 4326), ?, ?, ?)"

//Datastore is an interface that is used to inject the database into different handlers to improve testability
type Datastore interface {
	GetDevice(ctx context.Context, token []byte) (*models.Device, error)
	CreateDevice(ctx context.Context, token []byte, device models.Device) error

	GetPoints(ctx context.Context, filter query.Filter) ([]models.PointRecord, error)
	InsertPoints(ctx context.Context, points []models.Point, owner string) error

	GetTrack(ctx context.Context, name, owner string) (*models.Track, error)
	InsertTrack(ctx context.Context, track models.Track) error

	Ping(ctx context.Context) error
}

type myDB struct {
	impl *gorm.DB
}

//ConnectorFunc is used to inject a database connection method into NewDatabaseConnection
type ConnectorFunc func() (*gorm.DB, error)

//NewPostgreSQLConnector opens a connection to a PostGIS enabled postgresql database,
//retrying a configured number of times before giving up
func NewPostgreSQLConnector(cfg config.Config, log logging.Logger) ConnectorFunc {
	attempts := cfg.DBConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	return func() (*gorm.DB, error) {
		var lastErr error

		for attempt := 1; attempt <= attempts; attempt++ {
			log.Infof("Connecting to database host %s (attempt %d/%d) ...", cfg.DBHost, attempt, attempts)

			db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Warn),
			})
			if err == nil {
				if cfg.DBAutoMigrate {
					if err := bootstrap(db, log); err != nil {
						return nil, err
					}
				}
				return db, nil
			}

			lastErr = err
			log.Errorf("Failed to connect to database: %s", err.Error())
			time.Sleep(cfg.DBConnectDelay)
		}

		return nil, errors.Wrapf(lastErr, "database connection failed after %d attempts", attempts)
	}
}

func bootstrap(db *gorm.DB, log logging.Logger) error {
	log.Infof("Ensuring postgis extension and tables exist ...")

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS postgis").Error; err != nil {
		return err
	}

	return db.AutoMigrate(&dbmodels.Device{}, &dbmodels.Track{}, &dbmodels.Point{})
}

//NewSQLiteConnector opens a connection to a fresh, private in-memory sqlite database.
//SQLite has no spatial functions, so only devices and tracks are available.
func NewSQLiteConnector() ConnectorFunc {
	return func() (*gorm.DB, error) {
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, err
		}

		err = db.AutoMigrate(&dbmodels.Device{}, &dbmodels.Track{})
		return db, err
	}
}

//NewDatabaseConnection initializes a new connection to the database and wraps it in a Datastore
func NewDatabaseConnection(connect ConnectorFunc, log logging.Logger) (Datastore, error) {
	impl, err := connect()
	if err != nil {
		return nil, err
	}

	log.Infof("Connected to %s database.", impl.Dialector.Name())

	return &myDB{impl: impl}, nil
}

func (db *myDB) GetDevice(ctx context.Context, token []byte) (*models.Device, error) {
	device := dbmodels.Device{}

	err := db.impl.WithContext(ctx).Where("token = ?", token).First(&device).Error
	if err != nil {
		return nil, err
	}

	return &models.Device{Name: device.Name, Username: device.Username}, nil
}

func (db *myDB) CreateDevice(ctx context.Context, token []byte, device models.Device) error {
	return db.impl.WithContext(ctx).Create(&dbmodels.Device{
		Token:    token,
		Name:     device.Name,
		Username: device.Username,
	}).Error
}

type pointRow struct {
	ID        int64
	Owner     string
	Longitude float64
	Latitude  float64
	Elevation float64
	Time      time.Time
	Device    string
}

func (db *myDB) GetPoints(ctx context.Context, filter query.Filter) ([]models.PointRecord, error) {
	q := query.BuildPointQuery(filter)

	rows := []pointRow{}
	if err := db.impl.WithContext(ctx).Raw(q.SQL, q.Args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]models.PointRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.PointRecord{
			ID:    row.ID,
			Owner: row.Owner,
			Point: models.Point{
				Coordinates: models.NewCoordinates(row.Longitude, row.Latitude),
				Elevation:   row.Elevation,
				Time:        row.Time,
				Device:      row.Device,
			},
		})
	}

	return records, nil
}

//InsertPoints stores each point with its own statement. A failure leaves the
//points before it committed and does not attempt the rest.
func (db *myDB) InsertPoints(ctx context.Context, points []models.Point, owner string) error {
	for _, p := range points {
		err := db.impl.WithContext(ctx).Exec(
			pointInsertion,
			owner, p.Coordinates.Longitude(), p.Coordinates.Latitude(), p.Elevation, p.Time, p.Device,
		).Error
		if err != nil {
			return err
		}
	}

	return nil
}

func (db *myDB) GetTrack(ctx context.Context, name, owner string) (*models.Track, error) {
	track := dbmodels.Track{}

	err := db.impl.WithContext(ctx).Where("name = ? AND owner = ?", name, owner).First(&track).Error
	if err != nil {
		return nil, err
	}

	return &models.Track{
		Name:  track.Name,
		Owner: track.Owner,
		Spec: models.TrackSpec{
			Device:  track.Device,
			MinDate: track.MinDate,
			MaxDate: track.MaxDate,
		},
	}, nil
}

func (db *myDB) InsertTrack(ctx context.Context, track models.Track) error {
	return db.impl.WithContext(ctx).Create(&dbmodels.Track{
		Name:    track.Name,
		Owner:   track.Owner,
		Device:  track.Spec.Device,
		MinDate: track.Spec.MinDate,
		MaxDate: track.Spec.MaxDate,
	}).Error
}

func (db *myDB) Ping(ctx context.Context) error {
	sqlDB, err := db.impl.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}
