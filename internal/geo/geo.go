package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// Scenario coordinates are a local east/north/up frame in meters, anchored at
// a geodetic origin. Conversions go through Web Mercator (EPSG:3857), whose
// meters shrink by cos(latitude) relative to ground meters, so local offsets
// are scaled by the secant of the origin latitude before projecting back.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Origin anchors the scenario frame at a point on the globe.
type Origin struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// OriginFromString parses a string in the format "lat,long" or
// "lat,long,alt" into an Origin.
func OriginFromString(coords string) (Origin, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) < 2 {
		return Origin{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(coordsSplit[0], 64)
	if err != nil {
		return Origin{}, ErrInvalidCoordinates
	}
	long, err := strconv.ParseFloat(coordsSplit[1], 64)
	if err != nil {
		return Origin{}, ErrInvalidCoordinates
	}
	var alt float64
	if len(coordsSplit) > 2 {
		alt, err = strconv.ParseFloat(coordsSplit[2], 64)
		if err != nil {
			return Origin{}, ErrInvalidCoordinates
		}
	}
	return Origin{Latitude: lat, Longitude: long, Altitude: alt}, nil
}

// ToGeodetic converts a local east/north/up position to longitude, latitude
// and elevation above the ellipsoid.
func (o Origin) ToGeodetic(x, y, altitude float64) (long, lat, elev float64) {
	epsg := wgs84.EPSG()
	forward := epsg.Transform(4326, 3857)
	east0, north0, _ := forward(o.Longitude, o.Latitude, 0)

	scale := 1 / math.Cos(o.Latitude*math.Pi/180)
	inverse := epsg.Transform(3857, 4326)
	long, lat, _ = inverse(east0+x*scale, north0+y*scale, 0)
	return long, lat, o.Altitude + altitude
}

// Mercator projects a local east/north position into Web Mercator meters.
func (o Origin) Mercator(x, y float64) (east, north float64) {
	epsg := wgs84.EPSG()
	forward := epsg.Transform(4326, 3857)
	east0, north0, _ := forward(o.Longitude, o.Latitude, 0)

	scale := 1 / math.Cos(o.Latitude*math.Pi/180)
	return east0 + x*scale, north0 + y*scale
}

// Point3857 projects a local east/north position into a Web Mercator point.
// Geometry in the store is always 3857 so that SQLite, which has no spatial
// awareness, round-trips it as plain numbers.
func (o Origin) Point3857(x, y float64) (geom.Point, error) {
	east, north := o.Mercator(x, y)
	point, err := geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: east, Y: north},
			Z:    0,
			Type: geom.DimXYZ,
		},
	)
	if err != nil {
		return geom.NewEmptyPoint(geom.DimXYZ), ErrInvalidCoordinates
	}
	return point, nil
}
