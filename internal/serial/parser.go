package serial

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/the-user-created/FERS/pkg/scenario"
)

// Deserialize parses a FERS XML document into a scenario model. It either
// returns a complete model or an error, never a partially filled one. Fresh
// identifiers are synthesized for every entity; platform references resolve
// through the names recorded while parsing the asset lists. Unresolved
// references and absent optional fields degrade to nil and are reported
// through the warning list.
func Deserialize(data []byte) (*scenario.State, []string, error) {
	var doc xmlSimulation
	if err := xml.Unmarshal(data, &doc); err != nil {
		failures.Add(context.Background(), 1, directionAttr("deserialize"))
		var syntax *xml.SyntaxError
		if errors.As(err, &syntax) {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	state, warnings, err := transform(&doc)
	if err != nil {
		failures.Add(context.Background(), 1, directionAttr("deserialize"))
		return nil, warnings, err
	}

	conversions.Add(context.Background(), 1, directionAttr("deserialize"))
	return state, warnings, nil
}

// transform maps the XML-shaped intermediate representation onto the model.
func transform(doc *xmlSimulation) (*scenario.State, []string, error) {
	var warnings []string

	gp, err := transformParameters(doc)
	if err != nil {
		return nil, nil, err
	}

	state := scenario.New()
	state.GlobalParameters = gp

	table := NewRefTable()

	for _, p := range doc.Pulses {
		power, err := reqFloat(p.Power, "pulse "+p.Name, "power")
		if err != nil {
			return nil, warnings, err
		}
		carrier, err := reqFloat(p.Carrier, "pulse "+p.Name, "carrier")
		if err != nil {
			return nil, warnings, err
		}
		state.Pulses = append(state.Pulses, scenario.Pulse{
			ID:        table.Register(p.Name),
			Type:      "Pulse",
			Name:      p.Name,
			PulseType: pulseKind(p.Type),
			Power:     power,
			Carrier:   carrier,
			Filename:  p.Filename,
		})
	}

	for _, t := range doc.Timings {
		freq, err := reqFloat(t.Frequency, "timing "+t.Name, "frequency")
		if err != nil {
			return nil, warnings, err
		}
		timing := scenario.Timing{
			ID:                     table.Register(t.Name),
			Type:                   "Timing",
			Name:                   t.Name,
			Frequency:              freq,
			FreqOffset:             t.FreqOffset,
			RandomFreqOffsetStdev:  t.RandomFreqOffsetStdev,
			PhaseOffset:            t.PhaseOffset,
			RandomPhaseOffsetStdev: t.RandomPhaseOffsetStdev,
			NoiseEntries:           []scenario.NoiseEntry{},
		}
		for _, ne := range t.NoiseEntries {
			timing.NoiseEntries = append(timing.NoiseEntries, scenario.NoiseEntry{
				ID:     uuid.NewString(),
				Alpha:  ne.Alpha,
				Weight: ne.Weight,
			})
		}
		state.Timings = append(state.Timings, timing)
	}

	for _, a := range doc.Antennas {
		state.Antennas = append(state.Antennas, scenario.Antenna{
			ID:         table.Register(a.Name),
			Type:       "Antenna",
			Name:       a.Name,
			Pattern:    a.Pattern,
			Filename:   a.Filename,
			Efficiency: a.Efficiency,
			Alpha:      a.Alpha,
			Beta:       a.Beta,
			Gamma:      a.Gamma,
			AzScale:    a.AzScale,
			ElScale:    a.ElScale,
			Diameter:   a.Diameter,
		})
	}

	for _, p := range doc.Platforms {
		platform, w, err := transformPlatform(p, table)
		if err != nil {
			return nil, warnings, err
		}
		warnings = append(warnings, w...)
		state.Platforms = append(state.Platforms, platform)
	}

	return state, warnings, nil
}

func transformParameters(doc *xmlSimulation) (scenario.GlobalParameters, error) {
	gp := scenario.DefaultGlobalParameters()
	gp.SimulationName = doc.Name

	p := doc.Parameters
	if p == nil {
		return gp, fmt.Errorf("%w: document has no parameters element", ErrSchemaMismatch)
	}

	var err error
	if gp.Start, err = reqFloat(p.StartTime, "parameters", "starttime"); err != nil {
		return gp, err
	}
	if gp.End, err = reqFloat(p.EndTime, "parameters", "endtime"); err != nil {
		return gp, err
	}
	if gp.Rate, err = reqFloat(p.Rate, "parameters", "rate"); err != nil {
		return gp, err
	}
	if gp.C, err = reqFloat(p.C, "parameters", "c"); err != nil {
		return gp, err
	}
	if gp.AdcBits, err = reqInt(p.AdcBits, "parameters", "adc_bits"); err != nil {
		return gp, err
	}
	if gp.OversampleRatio, err = reqInt(p.Oversample, "parameters", "oversample"); err != nil {
		return gp, err
	}
	if p.Export == nil {
		return gp, fmt.Errorf("%w: parameters has no export element", ErrSchemaMismatch)
	}

	gp.SimSamplingRate = p.SimSamplingRate
	if p.RandomSeed != nil {
		seed := float64(*p.RandomSeed)
		gp.RandomSeed = &seed
	}
	gp.Export = scenario.ExportOptions{
		XML:    p.Export.XML,
		CSV:    p.Export.CSV,
		Binary: p.Export.Binary,
	}
	return gp, nil
}

func transformPlatform(p xmlPlatform, table *RefTable) (scenario.Platform, []string, error) {
	var warnings []string

	platform := scenario.Platform{
		ID:   uuid.NewString(),
		Type: "Platform",
		Name: p.Name,
	}

	if p.MotionPath == nil {
		return platform, warnings, fmt.Errorf("%w: platform %q has no motionpath element", ErrSchemaMismatch, p.Name)
	}
	platform.MotionPath = scenario.MotionPath{
		Interpolation: p.MotionPath.Interpolation,
		Waypoints:     []scenario.PositionWaypoint{},
	}
	for i, wp := range p.MotionPath.Waypoints {
		where := fmt.Sprintf("platform %q positionwaypoint %d", p.Name, i)
		x, err := reqFloat(wp.X, where, "x")
		if err != nil {
			return platform, warnings, err
		}
		y, err := reqFloat(wp.Y, where, "y")
		if err != nil {
			return platform, warnings, err
		}
		alt, err := reqFloat(wp.Altitude, where, "altitude")
		if err != nil {
			return platform, warnings, err
		}
		t, err := reqFloat(wp.Time, where, "time")
		if err != nil {
			return platform, warnings, err
		}
		platform.MotionPath.Waypoints = append(platform.MotionPath.Waypoints, scenario.PositionWaypoint{
			ID:       uuid.NewString(),
			X:        x,
			Y:        y,
			Altitude: alt,
			Time:     t,
		})
	}

	rotation, err := transformRotation(p)
	if err != nil {
		return platform, warnings, err
	}
	platform.Rotation = rotation

	component, w, err := transformComponent(p, table)
	if err != nil {
		return platform, warnings, err
	}
	warnings = append(warnings, w...)
	platform.Component = component

	return platform, warnings, nil
}

// transformRotation maps whichever rotation element is present. A document
// with neither yields a zeroed fixed rotation, matching the editor's default
// for a platform that never rotates.
func transformRotation(p xmlPlatform) (scenario.Rotation, error) {
	switch {
	case p.FixedRotation != nil:
		r := p.FixedRotation
		where := fmt.Sprintf("platform %q fixedrotation", p.Name)
		az, err := reqFloat(r.StartAzimuth, where, "startazimuth")
		if err != nil {
			return nil, err
		}
		el, err := reqFloat(r.StartElevation, where, "startelevation")
		if err != nil {
			return nil, err
		}
		azRate, err := reqFloat(r.AzimuthRate, where, "azimuthrate")
		if err != nil {
			return nil, err
		}
		elRate, err := reqFloat(r.ElevationRate, where, "elevationrate")
		if err != nil {
			return nil, err
		}
		return scenario.FixedRotation{
			StartAzimuth:   az,
			StartElevation: el,
			AzimuthRate:    azRate,
			ElevationRate:  elRate,
		}, nil

	case p.RotationPath != nil:
		path := scenario.RotationPath{
			Interpolation: p.RotationPath.Interpolation,
			Waypoints:     []scenario.RotationWaypoint{},
		}
		for i, wp := range p.RotationPath.Waypoints {
			where := fmt.Sprintf("platform %q rotationwaypoint %d", p.Name, i)
			az, err := reqFloat(wp.Azimuth, where, "azimuth")
			if err != nil {
				return nil, err
			}
			el, err := reqFloat(wp.Elevation, where, "elevation")
			if err != nil {
				return nil, err
			}
			t, err := reqFloat(wp.Time, where, "time")
			if err != nil {
				return nil, err
			}
			path.Waypoints = append(path.Waypoints, scenario.RotationWaypoint{
				ID:        uuid.NewString(),
				Azimuth:   az,
				Elevation: el,
				Time:      t,
			})
		}
		return path, nil

	default:
		return scenario.FixedRotation{}, nil
	}
}

// transformComponent maps whichever component element is present; the schema
// makes them mutually exclusive. Absence of all of them is a platform with no
// radar role.
func transformComponent(p xmlPlatform, table *RefTable) (scenario.Component, []string, error) {
	var warnings []string

	// resolve maps an asset name back to a synthesized identifier; an
	// unknown name degrades to nil rather than failing the conversion.
	resolve := func(name *string, attr string) *string {
		if name == nil {
			return nil
		}
		id, ok := table.IDByName(*name)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("platform %q: %s %q does not match any asset, reference dropped", p.Name, attr, *name))
			return nil
		}
		return &id
	}

	switch {
	case p.Monostatic != nil:
		m := p.Monostatic
		where := fmt.Sprintf("platform %q monostatic", p.Name)
		skip, err := reqFloat(m.WindowSkip, where, "window_skip")
		if err != nil {
			return nil, warnings, err
		}
		length, err := reqFloat(m.WindowLength, where, "window_length")
		if err != nil {
			return nil, warnings, err
		}
		prf, err := reqFloat(m.PRF, where, "prf")
		if err != nil {
			return nil, warnings, err
		}
		return scenario.Monostatic{
			Name:              m.Name,
			RadarType:         radarKind(m.Type),
			WindowSkip:        skip,
			WindowLength:      length,
			PRF:               prf,
			AntennaID:         resolve(m.Antenna, "antenna"),
			PulseID:           resolve(m.Pulse, "pulse"),
			TimingID:          resolve(m.Timing, "timing"),
			NoiseTemperature:  m.NoiseTemp,
			NoDirectPaths:     m.NoDirect,
			NoPropagationLoss: m.NoPropagationLoss,
		}, warnings, nil

	case p.Transmitter != nil:
		t := p.Transmitter
		prf, err := reqFloat(t.PRF, fmt.Sprintf("platform %q transmitter", p.Name), "prf")
		if err != nil {
			return nil, warnings, err
		}
		return scenario.Transmitter{
			Name:      t.Name,
			RadarType: radarKind(t.Type),
			PRF:       prf,
			AntennaID: resolve(t.Antenna, "antenna"),
			PulseID:   resolve(t.Pulse, "pulse"),
			TimingID:  resolve(t.Timing, "timing"),
		}, warnings, nil

	case p.Receiver != nil:
		r := p.Receiver
		where := fmt.Sprintf("platform %q receiver", p.Name)
		skip, err := reqFloat(r.WindowSkip, where, "window_skip")
		if err != nil {
			return nil, warnings, err
		}
		length, err := reqFloat(r.WindowLength, where, "window_length")
		if err != nil {
			return nil, warnings, err
		}
		prf, err := reqFloat(r.PRF, where, "prf")
		if err != nil {
			return nil, warnings, err
		}
		return scenario.Receiver{
			Name:              r.Name,
			WindowSkip:        skip,
			WindowLength:      length,
			PRF:               prf,
			AntennaID:         resolve(r.Antenna, "antenna"),
			TimingID:          resolve(r.Timing, "timing"),
			NoiseTemperature:  r.NoiseTemp,
			NoDirectPaths:     r.NoDirect,
			NoPropagationLoss: r.NoPropagationLoss,
		}, warnings, nil

	case p.Target != nil:
		t := p.Target
		if t.RCS == nil {
			return nil, warnings, fmt.Errorf("%w: target %q has no rcs element", ErrSchemaMismatch, t.Name)
		}
		target := scenario.Target{
			Name:        t.Name,
			RCSType:     t.RCS.Type,
			RCSValue:    t.RCS.Value,
			RCSFilename: t.RCS.Filename,
			RCSModel:    "constant",
		}
		if t.Model != nil {
			target.RCSModel = t.Model.Type
			target.RCSK = t.Model.K
		}
		return target, warnings, nil

	default:
		return scenario.NoComponent{}, warnings, nil
	}
}

// pulseKind maps the document's pulse type attribute to the model's kind tag.
func pulseKind(attr string) string {
	if attr == "continuous" {
		return scenario.PulseKindCW
	}
	return attr
}

// radarKind maps the document's radar type attribute to the model's kind tag.
func radarKind(attr string) string {
	if attr == "continuous" || attr == "cw" {
		return "cw"
	}
	return "pulsed"
}

func reqFloat(v *float64, where, field string) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: %s missing required element %q", ErrSchemaMismatch, where, field)
	}
	return *v, nil
}

func reqInt(v *int64, where, field string) (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: %s missing required element %q", ErrSchemaMismatch, where, field)
	}
	return *v, nil
}
