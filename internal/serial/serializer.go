package serial

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/the-user-created/FERS/pkg/scenario"
)

const docType = `<!DOCTYPE simulation SYSTEM "fers-xml.dtd">`

// Serialize renders a scenario model as a FERS XML document. It is total for
// structurally valid models: it either returns the complete document text or
// an error, never partial output, and touches nothing outside its arguments.
// The returned warnings list the asset references that could not be resolved
// to a name and were therefore omitted from the document.
func Serialize(s *scenario.State) (string, []string, error) {
	doc, warnings, err := buildDocument(s)
	if err != nil {
		failures.Add(context.Background(), 1, directionAttr("serialize"))
		return "", warnings, err
	}

	body, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		failures.Add(context.Background(), 1, directionAttr("serialize"))
		return "", warnings, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}

	conversions.Add(context.Background(), 1, directionAttr("serialize"))
	return xml.Header + docType + "\n" + string(body) + "\n", warnings, nil
}

func buildDocument(s *scenario.State) (*xmlSimulation, []string, error) {
	var warnings []string

	gp := s.GlobalParameters
	doc := &xmlSimulation{
		Name: gp.SimulationName,
		Parameters: &xmlParameters{
			StartTime:       ptr(gp.Start),
			EndTime:         ptr(gp.End),
			Rate:            ptr(gp.Rate),
			C:               ptr(gp.C),
			SimSamplingRate: gp.SimSamplingRate,
			RandomSeed:      seedValue(gp.RandomSeed),
			AdcBits:         ptr(gp.AdcBits),
			Oversample:      ptr(gp.OversampleRatio),
			Export: &xmlExport{
				Binary: gp.Export.Binary,
				CSV:    gp.Export.CSV,
				XML:    gp.Export.XML,
			},
		},
	}

	for _, p := range s.Pulses {
		doc.Pulses = append(doc.Pulses, xmlPulse{
			Name:     p.Name,
			Type:     pulseTypeAttr(p.PulseType),
			Filename: p.Filename,
			Power:    ptr(p.Power),
			Carrier:  ptr(p.Carrier),
		})
	}

	for _, t := range s.Timings {
		xt := xmlTiming{
			Name:                   t.Name,
			Frequency:              ptr(t.Frequency),
			FreqOffset:             t.FreqOffset,
			RandomFreqOffsetStdev:  t.RandomFreqOffsetStdev,
			PhaseOffset:            t.PhaseOffset,
			RandomPhaseOffsetStdev: t.RandomPhaseOffsetStdev,
		}
		for _, ne := range t.NoiseEntries {
			xt.NoiseEntries = append(xt.NoiseEntries, xmlNoiseEntry{Alpha: ne.Alpha, Weight: ne.Weight})
		}
		doc.Timings = append(doc.Timings, xt)
	}

	for _, a := range s.Antennas {
		doc.Antennas = append(doc.Antennas, buildAntenna(a))
	}

	// Platforms link to assets by name in XML; the table resolves the
	// model's identifiers.
	table := NewRefTable()
	for _, p := range s.Pulses {
		table.AddAsset(p.ID, p.Name)
	}
	for _, t := range s.Timings {
		table.AddAsset(t.ID, t.Name)
	}
	for _, a := range s.Antennas {
		table.AddAsset(a.ID, a.Name)
	}

	for _, pl := range s.Platforms {
		xp, w, err := buildPlatform(pl, table)
		if err != nil {
			return nil, warnings, err
		}
		warnings = append(warnings, w...)
		doc.Platforms = append(doc.Platforms, xp)
	}

	return doc, warnings, nil
}

// buildAntenna emits only the parameters the antenna's pattern defines:
// sinc gets alpha/beta/gamma, gaussian gets azscale/elscale, squarehorn and
// parabolic get diameter, every other pattern gets none.
func buildAntenna(a scenario.Antenna) xmlAntenna {
	xa := xmlAntenna{
		Name:       a.Name,
		Pattern:    a.Pattern,
		Filename:   a.Filename,
		Efficiency: a.Efficiency,
	}
	switch a.Pattern {
	case "sinc":
		xa.Alpha = a.Alpha
		xa.Beta = a.Beta
		xa.Gamma = a.Gamma
	case "gaussian":
		xa.AzScale = a.AzScale
		xa.ElScale = a.ElScale
	case "squarehorn", "parabolic":
		xa.Diameter = a.Diameter
	}
	return xa
}

func buildPlatform(pl scenario.Platform, table *RefTable) (xmlPlatform, []string, error) {
	var warnings []string

	xp := xmlPlatform{
		Name:       pl.Name,
		MotionPath: &xmlMotionPath{Interpolation: pl.MotionPath.Interpolation},
	}
	for _, wp := range pl.MotionPath.Waypoints {
		xp.MotionPath.Waypoints = append(xp.MotionPath.Waypoints, xmlPositionWaypoint{
			X:        ptr(wp.X),
			Y:        ptr(wp.Y),
			Altitude: ptr(wp.Altitude),
			Time:     ptr(wp.Time),
		})
	}

	rot := pl.Rotation
	if rot == nil {
		rot = scenario.FixedRotation{}
	}
	switch r := rot.(type) {
	case scenario.FixedRotation:
		xp.FixedRotation = &xmlFixedRotation{
			StartAzimuth:   ptr(r.StartAzimuth),
			StartElevation: ptr(r.StartElevation),
			AzimuthRate:    ptr(r.AzimuthRate),
			ElevationRate:  ptr(r.ElevationRate),
		}
	case scenario.RotationPath:
		xr := &xmlRotationPath{Interpolation: r.Interpolation}
		for _, wp := range r.Waypoints {
			xr.Waypoints = append(xr.Waypoints, xmlRotationWaypoint{
				Azimuth:   ptr(wp.Azimuth),
				Elevation: ptr(wp.Elevation),
				Time:      ptr(wp.Time),
			})
		}
		xp.RotationPath = xr
	default:
		return xp, warnings, fmt.Errorf("%w: platform %q has unknown rotation %T", ErrEncodingFailure, pl.Name, rot)
	}

	// resolve resolves an asset reference to a name; a dangling reference
	// is omitted from the document and reported as a warning.
	resolve := func(ref *string, attr string) *string {
		if ref == nil {
			return nil
		}
		name, ok := table.NameByID(*ref)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("platform %q: %s reference %q does not match any asset, omitted", pl.Name, attr, *ref))
			return nil
		}
		return &name
	}

	comp := pl.Component
	if comp == nil {
		comp = scenario.NoComponent{}
	}
	switch c := comp.(type) {
	case scenario.NoComponent:
	case scenario.Monostatic:
		xp.Monostatic = &xmlMonostatic{
			Name:              c.Name,
			Type:              radarTypeAttr(c.RadarType),
			Antenna:           resolve(c.AntennaID, "antenna"),
			Pulse:             resolve(c.PulseID, "pulse"),
			Timing:            resolve(c.TimingID, "timing"),
			NoDirect:          c.NoDirectPaths,
			NoPropagationLoss: c.NoPropagationLoss,
			WindowSkip:        ptr(c.WindowSkip),
			WindowLength:      ptr(c.WindowLength),
			PRF:               ptr(c.PRF),
			NoiseTemp:         c.NoiseTemperature,
		}
	case scenario.Transmitter:
		xp.Transmitter = &xmlTransmitter{
			Name:    c.Name,
			Type:    radarTypeAttr(c.RadarType),
			Antenna: resolve(c.AntennaID, "antenna"),
			Pulse:   resolve(c.PulseID, "pulse"),
			Timing:  resolve(c.TimingID, "timing"),
			PRF:     ptr(c.PRF),
		}
	case scenario.Receiver:
		xp.Receiver = &xmlReceiver{
			Name:              c.Name,
			Antenna:           resolve(c.AntennaID, "antenna"),
			Timing:            resolve(c.TimingID, "timing"),
			NoDirect:          c.NoDirectPaths,
			NoPropagationLoss: c.NoPropagationLoss,
			WindowSkip:        ptr(c.WindowSkip),
			WindowLength:      ptr(c.WindowLength),
			PRF:               ptr(c.PRF),
			NoiseTemp:         c.NoiseTemperature,
		}
	case scenario.Target:
		xt := &xmlTarget{
			Name: c.Name,
			RCS: &xmlRCS{
				Type:     c.RCSType,
				Filename: c.RCSFilename,
				Value:    c.RCSValue,
			},
		}
		// The constant fluctuation model is the default and carries no
		// parameters, so it is left implicit in the document.
		if c.RCSModel != "" && c.RCSModel != "constant" {
			xt.Model = &xmlRCSModel{Type: c.RCSModel, K: c.RCSK}
		}
		xp.Target = xt
	default:
		return xp, warnings, fmt.Errorf("%w: platform %q has unknown component %T", ErrEncodingFailure, pl.Name, comp)
	}

	return xp, warnings, nil
}

// pulseTypeAttr maps the model's pulse kind to the document's type attribute.
func pulseTypeAttr(kind string) string {
	if kind == scenario.PulseKindCW || kind == "continuous" {
		return "continuous"
	}
	return "file"
}

// radarTypeAttr maps the model's radar kind to the document's type attribute.
func radarTypeAttr(kind string) string {
	if kind == "cw" || kind == "continuous" {
		return "continuous"
	}
	return "pulsed"
}

// seedValue coerces the optional random seed to the document's non-negative
// integer representation.
func seedValue(seed *float64) *uint64 {
	if seed == nil {
		return nil
	}
	v := uint64(0)
	if *seed > 0 {
		v = uint64(*seed)
	}
	return &v
}

func ptr[T any](v T) *T {
	return &v
}
