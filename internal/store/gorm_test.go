package store

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-user-created/FERS/internal/config"
	"github.com/the-user-created/FERS/internal/geo"
	"github.com/the-user-created/FERS/internal/model"
	"github.com/the-user-created/FERS/pkg/scenario"
)

// Compile-time interface check
var _ Backend = (*GormBackend)(nil)

func newGormBackend(t *testing.T) *GormBackend {
	t.Helper()
	cfg := config.StoreConfig{
		Type:       "sqlite",
		SqlitePath: filepath.Join(t.TempDir(), "scenarios.db"),
	}
	origin := geo.Origin{Latitude: -33.9577, Longitude: 18.4612}
	b := NewGormBackend(cfg, origin, zerolog.Nop())
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func trackedState(t *testing.T) *scenario.State {
	t.Helper()
	state := scenario.New()
	state.GlobalParameters.SimulationName = "tracked"
	state.Platforms = []scenario.Platform{
		{
			ID:   "p-target",
			Name: "drone",
			MotionPath: scenario.MotionPath{
				Interpolation: "linear",
				Waypoints: []scenario.PositionWaypoint{
					{ID: "w0", Time: 0, X: 0, Y: 0, Altitude: 100},
					{ID: "w1", Time: 10, X: 500, Y: 250, Altitude: 100},
				},
			},
			Rotation:  scenario.FixedRotation{},
			Component: scenario.Target{Name: "drone_rcs", RCSType: "isotropic", RCSModel: "constant"},
		},
		{
			ID:   "p-rx",
			Name: "ground_station",
			MotionPath: scenario.MotionPath{
				Interpolation: "static",
				Waypoints: []scenario.PositionWaypoint{
					{ID: "w2", Time: 0, X: 100, Y: -50, Altitude: 5},
				},
			},
			Rotation:  scenario.FixedRotation{},
			Component: scenario.Receiver{Name: "rx"},
		},
	}
	return state
}

func TestGormSaveLoadRoundTrip(t *testing.T) {
	b := newGormBackend(t)
	state := trackedState(t)

	require.NoError(t, b.Save("tracked", state))

	got, err := b.Load("tracked")
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestGormSaveBuildsPlatformTracks(t *testing.T) {
	b := newGormBackend(t)
	require.NoError(t, b.Save("tracked", trackedState(t)))

	var tracks []model.PlatformTrack
	require.NoError(t, b.manager.DB.Order("platform").Find(&tracks).Error)
	require.Len(t, tracks, 2)

	assert.Equal(t, "drone", tracks[0].Platform)
	assert.Equal(t, "target", tracks[0].Role)
	assert.False(t, tracks[0].Geometry.IsEmpty())

	assert.Equal(t, "ground_station", tracks[1].Platform)
	assert.Equal(t, "receiver", tracks[1].Role)
}

func TestGormSaveOverwrites(t *testing.T) {
	b := newGormBackend(t)

	state := trackedState(t)
	require.NoError(t, b.Save("tracked", state))

	state.GlobalParameters.End = 99
	require.NoError(t, b.Save("tracked", state))

	got, err := b.Load("tracked")
	require.NoError(t, err)
	assert.Equal(t, 99.0, got.GlobalParameters.End)

	entries, err := b.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Tracks are rebuilt, not accumulated.
	var count int64
	require.NoError(t, b.manager.DB.Model(&model.PlatformTrack{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestGormSaveEmptyName(t *testing.T) {
	b := newGormBackend(t)
	require.Error(t, b.Save("", scenario.New()))
}

func TestGormLoadMissing(t *testing.T) {
	b := newGormBackend(t)

	_, err := b.Load("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGormList(t *testing.T) {
	b := newGormBackend(t)
	require.NoError(t, b.Save("bravo", scenario.New()))
	require.NoError(t, b.Save("alpha", scenario.New()))

	entries, err := b.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "bravo", entries[1].Name)
	assert.False(t, entries[0].UpdatedAt.IsZero())
}

func TestGormDelete(t *testing.T) {
	b := newGormBackend(t)
	require.NoError(t, b.Save("doomed", trackedState(t)))

	require.NoError(t, b.Delete("doomed"))

	_, err := b.Load("doomed")
	require.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, b.manager.DB.Model(&model.PlatformTrack{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	require.ErrorIs(t, b.Delete("doomed"), ErrNotFound)
}

func TestNewBackendUnknownType(t *testing.T) {
	_, err := NewBackend(config.StoreConfig{Type: "redis"}, geo.Origin{}, zerolog.Nop())
	require.Error(t, err)
}
