package kml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-user-created/FERS/internal/geo"
	"github.com/the-user-created/FERS/pkg/scenario"
)

func TestExport(t *testing.T) {
	s := scenario.New()
	s.GlobalParameters.SimulationName = "KML Demo"
	s.Platforms = append(s.Platforms,
		scenario.Platform{
			ID: "p1", Name: "ground_station",
			MotionPath: scenario.MotionPath{
				Interpolation: scenario.InterpStatic,
				Waypoints: []scenario.PositionWaypoint{
					{X: 0, Y: 0, Altitude: 5, Time: 0},
				},
			},
			Rotation:  scenario.FixedRotation{},
			Component: scenario.Receiver{Name: "rx1"},
		},
		scenario.Platform{
			ID: "p2", Name: "aircraft",
			MotionPath: scenario.MotionPath{
				Interpolation: scenario.InterpLinear,
				Waypoints: []scenario.PositionWaypoint{
					{X: 0, Y: 0, Altitude: 1000, Time: 0},
					{X: 5000, Y: 2000, Altitude: 1200, Time: 60},
				},
			},
			Rotation:  scenario.FixedRotation{},
			Component: scenario.Target{Name: "t1", RCSType: "isotropic"},
		},
	)

	origin := geo.Origin{Latitude: -33.9577, Longitude: 18.4612}
	data, err := Export(s, origin)
	require.NoError(t, err)

	doc := string(data)
	assert.Contains(t, doc, `<kml xmlns="http://www.opengis.net/kml/2.2">`)
	assert.Contains(t, doc, "<name>KML Demo</name>")
	assert.Contains(t, doc, "<name>ground_station</name>")
	assert.Contains(t, doc, "<description>Receiver</description>")
	assert.Contains(t, doc, "<Point>")
	assert.Contains(t, doc, "<name>aircraft</name>")
	assert.Contains(t, doc, "<description>Target</description>")
	assert.Contains(t, doc, "<LineString>")
	assert.Contains(t, doc, "<altitudeMode>absolute</altitudeMode>")
	assert.Contains(t, doc, "<tessellate>1</tessellate>")
}

func TestExportPlatformWithoutWaypoints(t *testing.T) {
	s := scenario.New()
	s.Platforms = append(s.Platforms, scenario.Platform{
		ID: "p1", Name: "bare",
		Rotation:  scenario.FixedRotation{},
		Component: scenario.NoComponent{},
	})

	data, err := Export(s, geo.Origin{Latitude: 10, Longitude: 20, Altitude: 30})
	require.NoError(t, err)

	doc := string(data)
	assert.Contains(t, doc, "<name>bare</name>")
	assert.Contains(t, doc, "<description>Platform</description>")
	assert.Contains(t, doc, "20.000000,10.000000,30.000000")
}

func TestExportEmptyScenario(t *testing.T) {
	data, err := Export(scenario.New(), geo.Origin{})
	require.NoError(t, err)
	assert.Contains(t, string(data), "<name>FERS Simulation</name>")
	assert.NotContains(t, string(data), "<Placemark>")
}
