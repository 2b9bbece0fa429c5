// Package scenario defines the normalized in-memory representation of a FERS
// simulation scenario: global parameters, reusable asset lists, and platforms
// that reference assets by identifier. The JSON encoding of these types is the
// contract with the editing surface, so field names and optional/required
// status are fixed.
package scenario

import "fmt"

// Pulse kinds.
const (
	PulseKindFile = "file"
	PulseKindCW   = "cw"
)

// Interpolation modes for motion and rotation paths.
const (
	InterpStatic = "static"
	InterpLinear = "linear"
	InterpCubic  = "cubic"
)

// State is the complete scenario: one set of global parameters, the three
// asset lists, and the platforms.
type State struct {
	GlobalParameters GlobalParameters `json:"globalParameters"`
	Pulses           []Pulse          `json:"pulses"`
	Timings          []Timing         `json:"timings"`
	Antennas         []Antenna        `json:"antennas"`
	Platforms        []Platform       `json:"platforms"`
}

// New returns a State with the same defaults the editor starts from.
func New() *State {
	return &State{
		GlobalParameters: DefaultGlobalParameters(),
		Pulses:           []Pulse{},
		Timings:          []Timing{},
		Antennas:         []Antenna{},
		Platforms:        []Platform{},
	}
}

// GlobalParameters holds simulation-wide settings.
// ID and Type are fixed discriminators used by the editing surface.
type GlobalParameters struct {
	ID              string        `json:"id"`
	Type            string        `json:"type"`
	SimulationName  string        `json:"simulation_name"`
	Start           float64       `json:"start"`
	End             float64       `json:"end"`
	Rate            float64       `json:"rate"`
	SimSamplingRate *float64      `json:"simSamplingRate"`
	C               float64       `json:"c"`
	RandomSeed      *float64      `json:"random_seed"`
	AdcBits         int64         `json:"adc_bits"`
	OversampleRatio int64         `json:"oversample_ratio"`
	Export          ExportOptions `json:"export"`
}

// DefaultGlobalParameters returns the editor's default global parameters.
func DefaultGlobalParameters() GlobalParameters {
	return GlobalParameters{
		ID:              "global-parameters",
		Type:            "GlobalParameters",
		SimulationName:  "FERS Simulation",
		Start:           0,
		End:             10,
		Rate:            10000,
		C:               299792458,
		AdcBits:         12,
		OversampleRatio: 1,
		Export:          ExportOptions{Binary: true},
	}
}

// ExportOptions are the simulation result export format flags.
type ExportOptions struct {
	XML    bool `json:"xml"`
	CSV    bool `json:"csv"`
	Binary bool `json:"binary"`
}

// Pulse is a reusable waveform asset. Filename is set only for file-backed
// pulses.
type Pulse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	PulseType string  `json:"pulseType"` // PulseKindFile or PulseKindCW
	Power     float64 `json:"power"`
	Carrier   float64 `json:"carrier"`
	Filename  *string `json:"filename"`
}

// NoiseEntry is one (alpha, weight) pair of a timing source's phase noise
// specification. Entry order carries no meaning.
type NoiseEntry struct {
	ID     string  `json:"id"`
	Alpha  float64 `json:"alpha"`
	Weight float64 `json:"weight"`
}

// Timing is a reusable clock/timing source asset.
type Timing struct {
	ID                     string       `json:"id"`
	Type                   string       `json:"type"`
	Name                   string       `json:"name"`
	Frequency              float64      `json:"frequency"`
	FreqOffset             *float64     `json:"freqOffset"`
	RandomFreqOffsetStdev  *float64     `json:"randomFreqOffsetStdev"`
	PhaseOffset            *float64     `json:"phaseOffset"`
	RandomPhaseOffsetStdev *float64     `json:"randomPhaseOffsetStdev"`
	NoiseEntries           []NoiseEntry `json:"noiseEntries"`
}

// Antenna is a reusable antenna pattern asset. Which of the optional
// parameters apply depends on Pattern: sinc uses alpha/beta/gamma, gaussian
// uses azscale/elscale, squarehorn and parabolic use diameter, isotropic has
// none.
type Antenna struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Name       string   `json:"name"`
	Pattern    string   `json:"pattern"`
	Filename   *string  `json:"filename"`
	Efficiency *float64 `json:"efficiency"`
	Alpha      *float64 `json:"alpha"`
	Beta       *float64 `json:"beta"`
	Gamma      *float64 `json:"gamma"`
	AzScale    *float64 `json:"azscale"`
	ElScale    *float64 `json:"elscale"`
	Diameter   *float64 `json:"diameter"`
}

// PositionWaypoint is one point of a platform's motion path.
type PositionWaypoint struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Altitude float64 `json:"altitude"`
	Time     float64 `json:"time"`
}

// MotionPath is an interpolation mode plus an ordered waypoint sequence.
type MotionPath struct {
	Interpolation string             `json:"interpolation"`
	Waypoints     []PositionWaypoint `json:"waypoints"`
}

// Rotation is a closed sum: FixedRotation or RotationPath. Every site that
// converts a Rotation must type-switch over both cases.
type Rotation interface {
	rotationTag() string
}

// FixedRotation rotates at constant azimuth/elevation rates from a start
// attitude.
type FixedRotation struct {
	StartAzimuth   float64 `json:"startAzimuth"`
	StartElevation float64 `json:"startElevation"`
	AzimuthRate    float64 `json:"azimuthRate"`
	ElevationRate  float64 `json:"elevationRate"`
}

func (FixedRotation) rotationTag() string { return "fixed" }

// RotationWaypoint is one point of a rotation path.
type RotationWaypoint struct {
	ID        string  `json:"id"`
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
	Time      float64 `json:"time"`
}

// RotationPath interpolates attitude through an ordered waypoint sequence.
type RotationPath struct {
	Interpolation string             `json:"interpolation"`
	Waypoints     []RotationWaypoint `json:"waypoints"`
}

func (RotationPath) rotationTag() string { return "path" }

// Component is a closed sum over the role a platform plays: NoComponent,
// Monostatic, Transmitter, Receiver, or Target. Every site that converts a
// Component must type-switch over all five cases.
type Component interface {
	componentTag() string
}

// NoComponent marks a platform with no radar role.
type NoComponent struct{}

func (NoComponent) componentTag() string { return "none" }

// Monostatic is a combined transmitter/receiver. Asset references are by
// identifier; nil means no reference.
type Monostatic struct {
	Name              string   `json:"name"`
	RadarType         string   `json:"radarType"` // "pulsed" or "cw"
	WindowSkip        float64  `json:"window_skip"`
	WindowLength      float64  `json:"window_length"`
	PRF               float64  `json:"prf"`
	AntennaID         *string  `json:"antennaId"`
	PulseID           *string  `json:"pulseId"`
	TimingID          *string  `json:"timingId"`
	NoiseTemperature  *float64 `json:"noiseTemperature"`
	NoDirectPaths     bool     `json:"noDirectPaths"`
	NoPropagationLoss bool     `json:"noPropagationLoss"`
}

func (Monostatic) componentTag() string { return "monostatic" }

// Transmitter is a transmit-only radar role.
type Transmitter struct {
	Name      string  `json:"name"`
	RadarType string  `json:"radarType"`
	PRF       float64 `json:"prf"`
	AntennaID *string `json:"antennaId"`
	PulseID   *string `json:"pulseId"`
	TimingID  *string `json:"timingId"`
}

func (Transmitter) componentTag() string { return "transmitter" }

// Receiver is a receive-only radar role. Receivers never reference a pulse.
type Receiver struct {
	Name              string   `json:"name"`
	WindowSkip        float64  `json:"window_skip"`
	WindowLength      float64  `json:"window_length"`
	PRF               float64  `json:"prf"`
	AntennaID         *string  `json:"antennaId"`
	TimingID          *string  `json:"timingId"`
	NoiseTemperature  *float64 `json:"noiseTemperature"`
	NoDirectPaths     bool     `json:"noDirectPaths"`
	NoPropagationLoss bool     `json:"noPropagationLoss"`
}

func (Receiver) componentTag() string { return "receiver" }

// Target carries a radar cross-section specification.
type Target struct {
	Name        string   `json:"name"`
	RCSType     string   `json:"rcs_type"` // "isotropic" or "file"
	RCSValue    *float64 `json:"rcs_value"`
	RCSFilename *string  `json:"rcs_filename"`
	RCSModel    string   `json:"rcs_model"` // fluctuation model, "constant" default
	RCSK        *float64 `json:"rcs_k"`
}

func (Target) componentTag() string { return "target" }

// Platform is a positioned, rotating object carrying at most one radar role.
type Platform struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Name       string     `json:"name"`
	MotionPath MotionPath `json:"motionPath"`
	Rotation   Rotation   `json:"rotation"`
	Component  Component  `json:"component"`
}

// Validate checks the structural invariants of the model: time and sampling
// bounds, unique asset names, and component references that resolve to an
// existing asset. Conversions tolerate dangling references (they degrade to
// omission); Validate is how callers surface them as errors instead.
func (s *State) Validate() error {
	p := s.GlobalParameters
	if p.Start > p.End {
		return fmt.Errorf("scenario: start time %v after end time %v", p.Start, p.End)
	}
	if p.Rate <= 0 {
		return fmt.Errorf("scenario: sample rate must be positive, got %v", p.Rate)
	}
	if p.AdcBits <= 0 {
		return fmt.Errorf("scenario: adc_bits must be positive, got %d", p.AdcBits)
	}

	ids := make(map[string]string)
	names := make(map[string]struct{})
	addAsset := func(id, name string) error {
		if _, dup := names[name]; dup {
			return fmt.Errorf("scenario: duplicate asset name %q", name)
		}
		names[name] = struct{}{}
		ids[id] = name
		return nil
	}
	for _, p := range s.Pulses {
		if err := addAsset(p.ID, p.Name); err != nil {
			return err
		}
	}
	for _, t := range s.Timings {
		if err := addAsset(t.ID, t.Name); err != nil {
			return err
		}
	}
	for _, a := range s.Antennas {
		if err := addAsset(a.ID, a.Name); err != nil {
			return err
		}
	}

	checkRef := func(platform string, ref *string) error {
		if ref == nil {
			return nil
		}
		if _, ok := ids[*ref]; !ok {
			return fmt.Errorf("scenario: platform %q references unknown asset id %q", platform, *ref)
		}
		return nil
	}
	for _, pl := range s.Platforms {
		var refs []*string
		switch c := pl.Component.(type) {
		case NoComponent, nil:
		case Monostatic:
			refs = []*string{c.AntennaID, c.PulseID, c.TimingID}
		case Transmitter:
			refs = []*string{c.AntennaID, c.PulseID, c.TimingID}
		case Receiver:
			refs = []*string{c.AntennaID, c.TimingID}
		case Target:
		default:
			return fmt.Errorf("scenario: platform %q has unknown component %T", pl.Name, pl.Component)
		}
		for _, r := range refs {
			if err := checkRef(pl.Name, r); err != nil {
				return err
			}
		}
	}
	return nil
}
