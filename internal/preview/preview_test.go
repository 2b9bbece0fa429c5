package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-user-created/FERS/internal/geo"
	"github.com/the-user-created/FERS/pkg/scenario"
)

func linearPath() scenario.MotionPath {
	return scenario.MotionPath{
		Interpolation: scenario.InterpLinear,
		Waypoints: []scenario.PositionWaypoint{
			{ID: "a", X: 0, Y: 0, Altitude: 100, Time: 0},
			{ID: "b", X: 100, Y: 50, Altitude: 200, Time: 10},
		},
	}
}

func TestSampleMotionLinear(t *testing.T) {
	points, err := SampleMotion(linearPath(), 11)
	require.NoError(t, err)
	require.Len(t, points, 11)

	assert.Equal(t, Point{Time: 0, X: 0, Y: 0, Altitude: 100}, points[0])
	assert.Equal(t, Point{Time: 10, X: 100, Y: 50, Altitude: 200}, points[10])

	mid := points[5]
	assert.InDelta(t, 5.0, mid.Time, 1e-9)
	assert.InDelta(t, 50.0, mid.X, 1e-9)
	assert.InDelta(t, 25.0, mid.Y, 1e-9)
	assert.InDelta(t, 150.0, mid.Altitude, 1e-9)
}

func TestSampleMotionSortsWaypoints(t *testing.T) {
	mp := linearPath()
	mp.Waypoints[0], mp.Waypoints[1] = mp.Waypoints[1], mp.Waypoints[0]

	points, err := SampleMotion(mp, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, points[0].X, 1e-9)
	assert.InDelta(t, 100.0, points[2].X, 1e-9)
}

func TestSampleMotionCubicHitsWaypoints(t *testing.T) {
	mp := scenario.MotionPath{
		Interpolation: scenario.InterpCubic,
		Waypoints: []scenario.PositionWaypoint{
			{X: 0, Y: 0, Altitude: 0, Time: 0},
			{X: 10, Y: 5, Altitude: 50, Time: 1},
			{X: 0, Y: 10, Altitude: 100, Time: 2},
		},
	}

	points, err := SampleMotion(mp, 201)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, points[0].X, 1e-9)
	assert.InDelta(t, 10.0, points[100].X, 1e-9)
	assert.InDelta(t, 5.0, points[100].Y, 1e-9)
	assert.InDelta(t, 0.0, points[200].X, 1e-9)
	assert.InDelta(t, 100.0, points[200].Altitude, 1e-9)
}

func TestSampleMotionStatic(t *testing.T) {
	mp := scenario.MotionPath{
		Interpolation: scenario.InterpStatic,
		Waypoints: []scenario.PositionWaypoint{
			{X: 7, Y: 8, Altitude: 9, Time: 0},
			{X: 1, Y: 2, Altitude: 3, Time: 5},
		},
	}

	points, err := SampleMotion(mp, 10)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, Point{Time: 0, X: 7, Y: 8, Altitude: 9}, points[0])
}

func TestSampleMotionSingleWaypoint(t *testing.T) {
	mp := scenario.MotionPath{
		Interpolation: scenario.InterpLinear,
		Waypoints:     []scenario.PositionWaypoint{{X: 1, Y: 2, Altitude: 3, Time: 4}},
	}

	points, err := SampleMotion(mp, 10)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 1.0, points[0].X)
}

func TestSampleMotionErrors(t *testing.T) {
	tests := []struct {
		name string
		mp   scenario.MotionPath
		n    int
		want string
	}{
		{
			name: "no waypoints",
			mp:   scenario.MotionPath{Interpolation: scenario.InterpLinear},
			n:    10,
			want: "no waypoints",
		},
		{
			name: "sample count too small",
			mp:   linearPath(),
			n:    1,
			want: "sample count",
		},
		{
			name: "unknown interpolation",
			mp: scenario.MotionPath{
				Interpolation: "bezier",
				Waypoints: []scenario.PositionWaypoint{
					{Time: 0}, {Time: 1, X: 1},
				},
			},
			n:    10,
			want: "unknown interpolation",
		},
		{
			name: "duplicate waypoint times",
			mp: scenario.MotionPath{
				Interpolation: scenario.InterpLinear,
				Waypoints: []scenario.PositionWaypoint{
					{Time: 1, X: 0}, {Time: 1, X: 5},
				},
			},
			n:    10,
			want: "duplicate waypoint time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleMotion(tt.mp, tt.n)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSampleRotationFixed(t *testing.T) {
	rot := scenario.FixedRotation{
		StartAzimuth:   90,
		StartElevation: 10,
		AzimuthRate:    6,
		ElevationRate:  -1,
	}

	atts, err := SampleRotation(rot, 0, 10, 11)
	require.NoError(t, err)
	require.Len(t, atts, 11)

	assert.Equal(t, Attitude{Time: 0, Azimuth: 90, Elevation: 10}, atts[0])
	assert.InDelta(t, 120.0, atts[5].Azimuth, 1e-9)
	assert.InDelta(t, 150.0, atts[10].Azimuth, 1e-9)
	assert.InDelta(t, 0.0, atts[10].Elevation, 1e-9)
}

func TestSampleRotationNilIsFixedZero(t *testing.T) {
	atts, err := SampleRotation(nil, 0, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, atts[1].Azimuth)
}

func TestSampleRotationPath(t *testing.T) {
	rot := scenario.RotationPath{
		Interpolation: scenario.InterpLinear,
		Waypoints: []scenario.RotationWaypoint{
			{Azimuth: 0, Elevation: 0, Time: 0},
			{Azimuth: 180, Elevation: 20, Time: 2},
		},
	}

	atts, err := SampleRotation(rot, 0, 2, 3)
	require.NoError(t, err)
	require.Len(t, atts, 3)
	assert.InDelta(t, 90.0, atts[1].Azimuth, 1e-9)
	assert.InDelta(t, 10.0, atts[1].Elevation, 1e-9)
}

func TestSampleRotationPathDuplicateTimes(t *testing.T) {
	rot := scenario.RotationPath{
		Interpolation: scenario.InterpCubic,
		Waypoints: []scenario.RotationWaypoint{
			{Azimuth: 0, Time: 1},
			{Azimuth: 90, Time: 1},
			{Azimuth: 180, Time: 2},
		},
	}

	_, err := SampleRotation(rot, 0, 2, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate waypoint time")
}

func TestTrackGeoJSON(t *testing.T) {
	origin := geo.Origin{Latitude: 0, Longitude: 0}
	points, err := SampleMotion(linearPath(), 5)
	require.NoError(t, err)

	data, err := TrackGeoJSON(origin, points)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"LineString"`)
	assert.Contains(t, string(data), `"coordinates"`)
	assert.NotContains(t, string(data), "NaN")
}

func TestTrackGeoJSONTooShort(t *testing.T) {
	origin := geo.Origin{}
	_, err := TrackGeoJSON(origin, []Point{{X: 1, Y: 1}})
	require.Error(t, err)
}
