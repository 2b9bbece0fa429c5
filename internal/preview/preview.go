// Package preview samples platform motion and rotation paths into dense point
// sequences for display, and renders sampled tracks as GeoJSON.
package preview

import (
	"encoding/json"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/the-user-created/FERS/internal/geo"
	"github.com/the-user-created/FERS/pkg/scenario"
)

// Point is one sampled position on a motion path.
type Point struct {
	Time     float64 `json:"time"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Altitude float64 `json:"altitude"`
}

// Attitude is one sampled orientation on a rotation.
type Attitude struct {
	Time      float64 `json:"time"`
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
}

// SampleMotion samples a motion path at n evenly spaced times between the
// first and last waypoint. n only applies to interpolated paths: a static or
// single-waypoint path yields exactly one point regardless of n, and callers
// rendering line geometry must handle that length-1 result. Waypoints may
// arrive in any order but no two may share a time.
func SampleMotion(mp scenario.MotionPath, n int) ([]Point, error) {
	if len(mp.Waypoints) == 0 {
		return nil, fmt.Errorf("motion path has no waypoints")
	}
	if n < 2 {
		return nil, fmt.Errorf("sample count must be at least 2, got %d", n)
	}

	if mp.Interpolation == scenario.InterpStatic || len(mp.Waypoints) == 1 {
		wp := mp.Waypoints[0]
		return []Point{{Time: wp.Time, X: wp.X, Y: wp.Y, Altitude: wp.Altitude}}, nil
	}

	wps := make([]scenario.PositionWaypoint, len(mp.Waypoints))
	copy(wps, mp.Waypoints)
	sort.Slice(wps, func(i, j int) bool { return wps[i].Time < wps[j].Time })

	times := make([]float64, len(wps))
	xs := make([]float64, len(wps))
	ys := make([]float64, len(wps))
	alts := make([]float64, len(wps))
	for i, wp := range wps {
		times[i] = wp.Time
		xs[i] = wp.X
		ys[i] = wp.Y
		alts[i] = wp.Altitude
	}

	px, err := fitAxis(mp.Interpolation, times, xs)
	if err != nil {
		return nil, err
	}
	py, err := fitAxis(mp.Interpolation, times, ys)
	if err != nil {
		return nil, err
	}
	palt, err := fitAxis(mp.Interpolation, times, alts)
	if err != nil {
		return nil, err
	}

	t0, t1 := times[0], times[len(times)-1]
	points := make([]Point, n)
	for i := range points {
		t := t0 + (t1-t0)*float64(i)/float64(n-1)
		points[i] = Point{
			Time:     t,
			X:        px.Predict(t),
			Y:        py.Predict(t),
			Altitude: palt.Predict(t),
		}
	}
	return points, nil
}

// SampleRotation samples a rotation over [start, end] at n evenly spaced
// times. Fixed rotations integrate their rates from the start attitude;
// rotation paths interpolate their waypoints the same way motion paths do.
func SampleRotation(rot scenario.Rotation, start, end float64, n int) ([]Attitude, error) {
	if n < 2 {
		return nil, fmt.Errorf("sample count must be at least 2, got %d", n)
	}
	if end < start {
		return nil, fmt.Errorf("sample window ends before it starts")
	}

	switch r := rot.(type) {
	case nil:
		r2 := scenario.FixedRotation{}
		return sampleFixed(r2, start, end, n), nil
	case scenario.FixedRotation:
		return sampleFixed(r, start, end, n), nil
	case scenario.RotationPath:
		return sampleRotationPath(r, n)
	default:
		return nil, fmt.Errorf("unknown rotation %T", rot)
	}
}

func sampleFixed(r scenario.FixedRotation, start, end float64, n int) []Attitude {
	out := make([]Attitude, n)
	for i := range out {
		t := start + (end-start)*float64(i)/float64(n-1)
		out[i] = Attitude{
			Time:      t,
			Azimuth:   r.StartAzimuth + r.AzimuthRate*(t-start),
			Elevation: r.StartElevation + r.ElevationRate*(t-start),
		}
	}
	return out
}

func sampleRotationPath(r scenario.RotationPath, n int) ([]Attitude, error) {
	if len(r.Waypoints) == 0 {
		return nil, fmt.Errorf("rotation path has no waypoints")
	}
	if r.Interpolation == scenario.InterpStatic || len(r.Waypoints) == 1 {
		wp := r.Waypoints[0]
		return []Attitude{{Time: wp.Time, Azimuth: wp.Azimuth, Elevation: wp.Elevation}}, nil
	}

	wps := make([]scenario.RotationWaypoint, len(r.Waypoints))
	copy(wps, r.Waypoints)
	sort.Slice(wps, func(i, j int) bool { return wps[i].Time < wps[j].Time })

	times := make([]float64, len(wps))
	azs := make([]float64, len(wps))
	els := make([]float64, len(wps))
	for i, wp := range wps {
		times[i] = wp.Time
		azs[i] = wp.Azimuth
		els[i] = wp.Elevation
	}

	paz, err := fitAxis(r.Interpolation, times, azs)
	if err != nil {
		return nil, err
	}
	pel, err := fitAxis(r.Interpolation, times, els)
	if err != nil {
		return nil, err
	}

	t0, t1 := times[0], times[len(times)-1]
	out := make([]Attitude, n)
	for i := range out {
		t := t0 + (t1-t0)*float64(i)/float64(n-1)
		out[i] = Attitude{Time: t, Azimuth: paz.Predict(t), Elevation: pel.Predict(t)}
	}
	return out, nil
}

// fitAxis fits one coordinate axis against time. Times arrive sorted and must
// be strictly increasing; the predictors panic on duplicates rather than
// returning an error, so duplicates are rejected up front.
func fitAxis(interpolation string, times, values []float64) (interp.Predictor, error) {
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("duplicate waypoint time %v", times[i])
		}
	}

	var p interp.FittablePredictor
	switch interpolation {
	case scenario.InterpLinear:
		p = &interp.PiecewiseLinear{}
	case scenario.InterpCubic:
		p = &interp.NaturalCubic{}
	default:
		return nil, fmt.Errorf("unknown interpolation mode %q", interpolation)
	}
	if err := p.Fit(times, values); err != nil {
		return nil, fmt.Errorf("fitting %s path: %w", interpolation, err)
	}
	return p, nil
}

// TrackGeoJSON renders a sampled motion track as a GeoJSON LineString in
// geographic coordinates, anchored at origin.
func TrackGeoJSON(origin geo.Origin, points []Point) ([]byte, error) {
	coords := make([][]float64, len(points))
	for i, p := range points {
		long, lat, _ := origin.ToGeodetic(p.X, p.Y, p.Altitude)
		coords[i] = []float64{long, lat}
	}
	ls, err := geo.LineStringFromPoints(coords)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ls.AsGeometry())
}
