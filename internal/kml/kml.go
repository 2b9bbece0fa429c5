// Package kml renders a scenario's platforms as a KML document for display in
// mapping tools. Static platforms become point placemarks, moving platforms
// become line tracks sampled from their motion paths.
package kml

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/the-user-created/FERS/internal/geo"
	"github.com/the-user-created/FERS/internal/preview"
	"github.com/the-user-created/FERS/pkg/scenario"
)

// trackSamples is the number of points a moving platform's track is sampled
// at.
const trackSamples = 100

type kmlRoot struct {
	XMLName  xml.Name    `xml:"kml"`
	XMLNS    string      `xml:"xmlns,attr"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name       string         `xml:"name"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name        string         `xml:"name"`
	Description string         `xml:"description"`
	Point       *kmlPoint      `xml:"Point,omitempty"`
	LineString  *kmlLineString `xml:"LineString,omitempty"`
}

type kmlPoint struct {
	AltitudeMode string `xml:"altitudeMode"`
	Coordinates  string `xml:"coordinates"`
}

type kmlLineString struct {
	AltitudeMode string `xml:"altitudeMode"`
	Tessellate   int    `xml:"tessellate"`
	Coordinates  string `xml:"coordinates"`
}

// Export renders the scenario's platforms as a KML document anchored at
// origin.
func Export(state *scenario.State, origin geo.Origin) ([]byte, error) {
	doc := kmlDocument{Name: state.GlobalParameters.SimulationName}

	for _, platform := range state.Platforms {
		pm, err := buildPlacemark(platform, origin)
		if err != nil {
			return nil, fmt.Errorf("platform %q: %w", platform.Name, err)
		}
		doc.Placemarks = append(doc.Placemarks, pm)
	}

	body, err := xml.MarshalIndent(kmlRoot{
		XMLNS:    "http://www.opengis.net/kml/2.2",
		Document: doc,
	}, "", "    ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

func buildPlacemark(platform scenario.Platform, origin geo.Origin) (kmlPlacemark, error) {
	pm := kmlPlacemark{
		Name:        platform.Name,
		Description: componentRole(platform.Component),
	}

	if len(platform.MotionPath.Waypoints) == 0 {
		long, lat, elev := origin.ToGeodetic(0, 0, 0)
		pm.Point = &kmlPoint{
			AltitudeMode: "absolute",
			Coordinates:  formatCoord(long, lat, elev),
		}
		return pm, nil
	}

	samples := trackSamples
	if platform.MotionPath.Interpolation == scenario.InterpStatic || len(platform.MotionPath.Waypoints) == 1 {
		samples = 2
	}
	points, err := preview.SampleMotion(platform.MotionPath, samples)
	if err != nil {
		return pm, err
	}

	if len(points) == 1 {
		long, lat, elev := origin.ToGeodetic(points[0].X, points[0].Y, points[0].Altitude)
		pm.Point = &kmlPoint{
			AltitudeMode: "absolute",
			Coordinates:  formatCoord(long, lat, elev),
		}
		return pm, nil
	}

	coords := make([]string, len(points))
	for i, p := range points {
		long, lat, elev := origin.ToGeodetic(p.X, p.Y, p.Altitude)
		coords[i] = formatCoord(long, lat, elev)
	}
	pm.LineString = &kmlLineString{
		AltitudeMode: "absolute",
		Tessellate:   1,
		Coordinates:  strings.Join(coords, " "),
	}
	return pm, nil
}

func formatCoord(long, lat, elev float64) string {
	return fmt.Sprintf("%f,%f,%f", long, lat, elev)
}

func componentRole(c scenario.Component) string {
	switch c.(type) {
	case scenario.Monostatic:
		return "Monostatic radar"
	case scenario.Transmitter:
		return "Transmitter"
	case scenario.Receiver:
		return "Receiver"
	case scenario.Target:
		return "Target"
	default:
		return "Platform"
	}
}
