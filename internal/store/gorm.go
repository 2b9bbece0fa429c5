package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/the-user-created/FERS/internal/config"
	"github.com/the-user-created/FERS/internal/database"
	"github.com/the-user-created/FERS/internal/geo"
	"github.com/the-user-created/FERS/internal/model"
	"github.com/the-user-created/FERS/internal/preview"
	"github.com/the-user-created/FERS/pkg/scenario"
)

// trackSamples is the number of motion samples cached per platform track.
const trackSamples = 50

// GormBackend stores scenarios in Postgres, falling back to SQLite when the
// server is unreachable. Alongside the scenario document it caches a sampled
// EPSG:3857 track per platform for map display.
type GormBackend struct {
	cfg     config.StoreConfig
	origin  geo.Origin
	log     zerolog.Logger
	manager *database.Manager
}

// NewGormBackend creates a database-backed scenario store.
func NewGormBackend(cfg config.StoreConfig, origin geo.Origin, log zerolog.Logger) *GormBackend {
	return &GormBackend{cfg: cfg, origin: origin, log: log}
}

// Init connects to the database and migrates the schema.
func (b *GormBackend) Init() error {
	b.manager = database.NewManager(b.log)
	b.manager.SqliteFilePath = b.cfg.SqlitePath

	if b.cfg.Type == "sqlite" {
		db, err := b.manager.GetSqliteDB(b.cfg.SqlitePath)
		if err != nil {
			return fmt.Errorf("failed to open SQLite DB: %w", err)
		}
		b.manager.DB = db
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		b.manager.SqlDB = sqlDB
		b.manager.IsValid = true
	} else {
		if err := b.manager.Connect(); err != nil {
			return err
		}
	}

	return b.manager.Setup()
}

// Close shuts the connection down, dumping the in-memory fallback database to
// disk first if one is in use.
func (b *GormBackend) Close() error {
	if b.manager == nil || b.manager.SqlDB == nil {
		return nil
	}
	if b.manager.ShouldSaveLocal && b.manager.SqliteFilePath != "" {
		if err := b.manager.DumpMemoryToDisk(); err != nil {
			b.log.Error().Err(err).Msg("Failed to dump memory DB to disk")
		}
	}
	return b.manager.SqlDB.Close()
}

// Save upserts the scenario document under name and rebuilds its cached
// platform tracks.
func (b *GormBackend) Save(name string, state *scenario.State) error {
	if name == "" {
		return fmt.Errorf("scenario name must not be empty")
	}

	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding scenario %q: %w", name, err)
	}

	return b.manager.DB.Transaction(func(tx *gorm.DB) error {
		var record model.ScenarioRecord
		err := tx.Where("name = ?", name).First(&record).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			record = model.ScenarioRecord{Name: name, Document: doc}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("creating scenario %q: %w", name, err)
			}
		case err != nil:
			return err
		default:
			record.Document = doc
			if err := tx.Save(&record).Error; err != nil {
				return fmt.Errorf("updating scenario %q: %w", name, err)
			}
		}

		if err := tx.Unscoped().Where("scenario_id = ?", record.ID).
			Delete(&model.PlatformTrack{}).Error; err != nil {
			return err
		}

		tracks := b.buildTracks(record.ID, state)
		if len(tracks) == 0 {
			return nil
		}
		return tx.Create(&tracks).Error
	})
}

// buildTracks samples each platform's motion path and projects it into
// EPSG:3857. Platforms whose paths cannot be sampled are skipped with a
// warning rather than failing the save.
func (b *GormBackend) buildTracks(scenarioID uint, state *scenario.State) []model.PlatformTrack {
	var tracks []model.PlatformTrack
	for _, p := range state.Platforms {
		points, err := preview.SampleMotion(p.MotionPath, trackSamples)
		if err != nil {
			b.log.Warn().Err(err).Str("platform", p.Name).Msg("Skipping platform track")
			continue
		}

		track := model.PlatformTrack{
			ScenarioID: scenarioID,
			Platform:   p.Name,
			Role:       platformRole(p.Component),
		}

		if len(points) == 1 {
			point, err := b.origin.Point3857(points[0].X, points[0].Y)
			if err != nil {
				b.log.Warn().Err(err).Str("platform", p.Name).Msg("Skipping platform track")
				continue
			}
			track.Geometry = point.AsGeometry()
		} else {
			coords := make([][]float64, 0, len(points))
			for _, pt := range points {
				east, north := b.origin.Mercator(pt.X, pt.Y)
				coords = append(coords, []float64{east, north})
			}
			ls, err := geo.LineStringFromPoints(coords)
			if err != nil {
				b.log.Warn().Err(err).Str("platform", p.Name).Msg("Skipping platform track")
				continue
			}
			track.Geometry = ls.AsGeometry()
		}

		tracks = append(tracks, track)
	}
	return tracks
}

// Load reads the scenario stored under name.
func (b *GormBackend) Load(name string) (*scenario.State, error) {
	var record model.ScenarioRecord
	err := b.manager.DB.Where("name = ?", name).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	state := scenario.New()
	if err := json.Unmarshal(record.Document, state); err != nil {
		return nil, fmt.Errorf("decoding scenario %q: %w", name, err)
	}
	return state, nil
}

// List returns the stored scenarios in name order.
func (b *GormBackend) List() ([]Entry, error) {
	var records []model.ScenarioRecord
	if err := b.manager.DB.Order("name").Find(&records).Error; err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, Entry{Name: record.Name, UpdatedAt: record.UpdatedAt})
	}
	return entries, nil
}

// Delete removes the scenario stored under name and its cached tracks.
func (b *GormBackend) Delete(name string) error {
	return b.manager.DB.Transaction(func(tx *gorm.DB) error {
		var record model.ScenarioRecord
		err := tx.Where("name = ?", name).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		if err != nil {
			return err
		}

		// Hard delete. A soft-deleted record would still hold the unique
		// name index against a later save.
		if err := tx.Unscoped().Where("scenario_id = ?", record.ID).
			Delete(&model.PlatformTrack{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&record).Error
	})
}

func platformRole(c scenario.Component) string {
	switch c.(type) {
	case scenario.Monostatic:
		return "monostatic"
	case scenario.Transmitter:
		return "transmitter"
	case scenario.Receiver:
		return "receiver"
	case scenario.Target:
		return "target"
	default:
		return "platform"
	}
}
