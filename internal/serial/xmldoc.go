// Package serial converts between the scenario model and the FERS XML
// document format. Serialization and deserialization are independent
// directions of one contract: both go through an intermediate representation
// that mirrors the XML schema exactly, keeping "is the document
// schema-conformant" separate from "does it map to the model".
package serial

import "encoding/xml"

// The intermediate types below mirror the FERS XML schema element for
// element. Optional fields are pointers so that absence survives both
// directions: a nil pointer is never written, and a missing element stays
// nil after unmarshalling. Required fields are also pointers on the
// deserialize path so their absence can be reported as a schema error
// instead of silently becoming zero.

type xmlSimulation struct {
	XMLName    xml.Name       `xml:"simulation"`
	Name       string         `xml:"name,attr"`
	Parameters *xmlParameters `xml:"parameters"`
	Pulses     []xmlPulse     `xml:"pulse"`
	Timings    []xmlTiming    `xml:"timing"`
	Antennas   []xmlAntenna   `xml:"antenna"`
	Platforms  []xmlPlatform  `xml:"platform"`
}

type xmlParameters struct {
	StartTime       *float64   `xml:"starttime"`
	EndTime         *float64   `xml:"endtime"`
	Rate            *float64   `xml:"rate"`
	C               *float64   `xml:"c"`
	SimSamplingRate *float64   `xml:"simSamplingRate"`
	RandomSeed      *uint64    `xml:"randomseed"`
	AdcBits         *int64     `xml:"adc_bits"`
	Oversample      *int64     `xml:"oversample"`
	Export          *xmlExport `xml:"export"`
}

type xmlExport struct {
	Binary bool `xml:"binary,attr"`
	CSV    bool `xml:"csv,attr"`
	XML    bool `xml:"xml,attr"`
}

type xmlPulse struct {
	Name     string   `xml:"name,attr"`
	Type     string   `xml:"type,attr"`
	Filename *string  `xml:"filename,attr,omitempty"`
	Power    *float64 `xml:"power"`
	Carrier  *float64 `xml:"carrier"`
}

type xmlTiming struct {
	Name                   string          `xml:"name,attr"`
	Frequency              *float64        `xml:"frequency"`
	FreqOffset             *float64        `xml:"freq_offset"`
	RandomFreqOffsetStdev  *float64        `xml:"random_freq_offset_stdev"`
	PhaseOffset            *float64        `xml:"phase_offset"`
	RandomPhaseOffsetStdev *float64        `xml:"random_phase_offset_stdev"`
	NoiseEntries           []xmlNoiseEntry `xml:"noise_entry"`
}

type xmlNoiseEntry struct {
	Alpha  float64 `xml:"alpha"`
	Weight float64 `xml:"weight"`
}

type xmlAntenna struct {
	Name       string   `xml:"name,attr"`
	Pattern    string   `xml:"pattern,attr"`
	Filename   *string  `xml:"filename,attr,omitempty"`
	Efficiency *float64 `xml:"efficiency"`
	Alpha      *float64 `xml:"alpha"`
	Beta       *float64 `xml:"beta"`
	Gamma      *float64 `xml:"gamma"`
	AzScale    *float64 `xml:"azscale"`
	ElScale    *float64 `xml:"elscale"`
	Diameter   *float64 `xml:"diameter"`
}

type xmlPlatform struct {
	Name          string            `xml:"name,attr"`
	MotionPath    *xmlMotionPath    `xml:"motionpath"`
	FixedRotation *xmlFixedRotation `xml:"fixedrotation"`
	RotationPath  *xmlRotationPath  `xml:"rotationpath"`
	Monostatic    *xmlMonostatic    `xml:"monostatic"`
	Transmitter   *xmlTransmitter   `xml:"transmitter"`
	Receiver      *xmlReceiver      `xml:"receiver"`
	Target        *xmlTarget        `xml:"target"`
}

type xmlMotionPath struct {
	Interpolation string                `xml:"interpolation,attr"`
	Waypoints     []xmlPositionWaypoint `xml:"positionwaypoint"`
}

type xmlPositionWaypoint struct {
	X        *float64 `xml:"x"`
	Y        *float64 `xml:"y"`
	Altitude *float64 `xml:"altitude"`
	Time     *float64 `xml:"time"`
}

type xmlFixedRotation struct {
	StartAzimuth   *float64 `xml:"startazimuth"`
	StartElevation *float64 `xml:"startelevation"`
	AzimuthRate    *float64 `xml:"azimuthrate"`
	ElevationRate  *float64 `xml:"elevationrate"`
}

type xmlRotationPath struct {
	Interpolation string                `xml:"interpolation,attr"`
	Waypoints     []xmlRotationWaypoint `xml:"rotationwaypoint"`
}

type xmlRotationWaypoint struct {
	Azimuth   *float64 `xml:"azimuth"`
	Elevation *float64 `xml:"elevation"`
	Time      *float64 `xml:"time"`
}

type xmlMonostatic struct {
	Name              string   `xml:"name,attr"`
	Type              string   `xml:"type,attr"`
	Antenna           *string  `xml:"antenna,attr,omitempty"`
	Pulse             *string  `xml:"pulse,attr,omitempty"`
	Timing            *string  `xml:"timing,attr,omitempty"`
	NoDirect          bool     `xml:"nodirect,attr,omitempty"`
	NoPropagationLoss bool     `xml:"nopropagationloss,attr,omitempty"`
	WindowSkip        *float64 `xml:"window_skip"`
	WindowLength      *float64 `xml:"window_length"`
	PRF               *float64 `xml:"prf"`
	NoiseTemp         *float64 `xml:"noise_temp"`
}

type xmlTransmitter struct {
	Name    string   `xml:"name,attr"`
	Type    string   `xml:"type,attr"`
	Antenna *string  `xml:"antenna,attr,omitempty"`
	Pulse   *string  `xml:"pulse,attr,omitempty"`
	Timing  *string  `xml:"timing,attr,omitempty"`
	PRF     *float64 `xml:"prf"`
}

type xmlReceiver struct {
	Name              string   `xml:"name,attr"`
	Antenna           *string  `xml:"antenna,attr,omitempty"`
	Timing            *string  `xml:"timing,attr,omitempty"`
	NoDirect          bool     `xml:"nodirect,attr,omitempty"`
	NoPropagationLoss bool     `xml:"nopropagationloss,attr,omitempty"`
	WindowSkip        *float64 `xml:"window_skip"`
	WindowLength      *float64 `xml:"window_length"`
	PRF               *float64 `xml:"prf"`
	NoiseTemp         *float64 `xml:"noise_temp"`
}

type xmlTarget struct {
	Name  string       `xml:"name,attr"`
	RCS   *xmlRCS      `xml:"rcs"`
	Model *xmlRCSModel `xml:"model"`
}

type xmlRCS struct {
	Type     string   `xml:"type,attr"`
	Filename *string  `xml:"filename,attr,omitempty"`
	Value    *float64 `xml:"value"`
}

type xmlRCSModel struct {
	Type string   `xml:"type,attr"`
	K    *float64 `xml:"k"`
}
