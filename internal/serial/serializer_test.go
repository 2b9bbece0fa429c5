package serial

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-user-created/FERS/pkg/scenario"
)

func testState() *scenario.State {
	s := scenario.New()
	s.GlobalParameters.SimulationName = "Test Scenario"
	s.GlobalParameters.End = 1
	s.GlobalParameters.Rate = 1e6
	s.Pulses = append(s.Pulses, scenario.Pulse{
		ID:        "pulse-1",
		Type:      "Pulse",
		Name:      "P1",
		PulseType: scenario.PulseKindFile,
		Power:     1000,
		Carrier:   1e10,
		Filename:  ptr("waveform.h5"),
	})
	s.Timings = append(s.Timings, scenario.Timing{
		ID:        "timing-1",
		Type:      "Timing",
		Name:      "clock",
		Frequency: 1e7,
	})
	s.Antennas = append(s.Antennas, scenario.Antenna{
		ID:      "antenna-1",
		Type:    "Antenna",
		Name:    "horn",
		Pattern: "isotropic",
	})
	s.Platforms = append(s.Platforms, scenario.Platform{
		ID:   "platform-1",
		Type: "Platform",
		Name: "tx_platform",
		MotionPath: scenario.MotionPath{
			Interpolation: scenario.InterpLinear,
			Waypoints: []scenario.PositionWaypoint{
				{ID: "wp-1", X: 0, Y: 0, Altitude: 100, Time: 0},
				{ID: "wp-2", X: 50, Y: 0, Altitude: 100, Time: 1},
			},
		},
		Rotation: scenario.FixedRotation{AzimuthRate: 0.5},
		Component: scenario.Transmitter{
			Name:      "tx1",
			RadarType: "pulsed",
			PRF:       1000,
			AntennaID: ptr("antenna-1"),
			PulseID:   ptr("pulse-1"),
			TimingID:  ptr("timing-1"),
		},
	})
	return s
}

func TestSerialize(t *testing.T) {
	doc, warnings, err := Serialize(testState())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, doc, `<!DOCTYPE simulation SYSTEM "fers-xml.dtd">`)
	assert.Contains(t, doc, `<simulation name="Test Scenario">`)
	assert.Contains(t, doc, "<starttime>0</starttime>")
	assert.Contains(t, doc, "<endtime>1</endtime>")
	assert.Contains(t, doc, "<c>2.99792458e+08</c>")
	assert.Contains(t, doc, `<export binary="true" csv="false" xml="false">`)
	assert.Contains(t, doc, `<pulse name="P1" type="file" filename="waveform.h5">`)
	assert.Contains(t, doc, "<power>1000</power>")
	assert.Contains(t, doc, `<timing name="clock">`)
	assert.Contains(t, doc, `<antenna name="horn" pattern="isotropic">`)
	assert.Contains(t, doc, `<platform name="tx_platform">`)
	assert.Contains(t, doc, `<motionpath interpolation="linear">`)
	assert.Contains(t, doc, "<altitude>100</altitude>")
	assert.Contains(t, doc, "<azimuthrate>0.5</azimuthrate>")
	assert.Contains(t, doc, `<transmitter name="tx1" type="pulsed" antenna="horn" pulse="P1" timing="clock">`)
	assert.Contains(t, doc, "<prf>1000</prf>")

	// Optional elements that were never set stay out of the document.
	assert.NotContains(t, doc, "simSamplingRate")
	assert.NotContains(t, doc, "randomseed")
	assert.NotContains(t, doc, "freq_offset")
	assert.NotContains(t, doc, "efficiency")
}

func TestSerializeIsPure(t *testing.T) {
	s := testState()
	first, _, err := Serialize(s)
	require.NoError(t, err)
	second, _, err := Serialize(s)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSerializeDanglingReference(t *testing.T) {
	s := testState()
	comp := s.Platforms[0].Component.(scenario.Transmitter)
	comp.PulseID = ptr("no-such-id")
	s.Platforms[0].Component = comp

	doc, warnings, err := Serialize(s)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no-such-id")
	assert.NotContains(t, doc, "no-such-id")
	assert.Contains(t, doc, `<transmitter name="tx1" type="pulsed" antenna="horn" timing="clock">`)
}

func TestSerializeAntennaPatterns(t *testing.T) {
	tests := []struct {
		name       string
		antenna    scenario.Antenna
		want       []string
		wantAbsent []string
	}{
		{
			name: "sinc keeps shape parameters",
			antenna: scenario.Antenna{
				ID: "a", Name: "a", Pattern: "sinc",
				Alpha: ptr(1.0), Beta: ptr(2.0), Gamma: ptr(3.0), Diameter: ptr(9.0),
			},
			want:       []string{"<alpha>1</alpha>", "<beta>2</beta>", "<gamma>3</gamma>"},
			wantAbsent: []string{"diameter"},
		},
		{
			name: "gaussian keeps scales",
			antenna: scenario.Antenna{
				ID: "a", Name: "a", Pattern: "gaussian",
				AzScale: ptr(0.1), ElScale: ptr(0.2), Alpha: ptr(1.0),
			},
			want:       []string{"<azscale>0.1</azscale>", "<elscale>0.2</elscale>"},
			wantAbsent: []string{"alpha"},
		},
		{
			name: "parabolic keeps diameter",
			antenna: scenario.Antenna{
				ID: "a", Name: "a", Pattern: "parabolic",
				Diameter: ptr(2.4), AzScale: ptr(0.1),
			},
			want:       []string{"<diameter>2.4</diameter>"},
			wantAbsent: []string{"azscale"},
		},
		{
			name: "isotropic keeps none",
			antenna: scenario.Antenna{
				ID: "a", Name: "a", Pattern: "isotropic",
				Alpha: ptr(1.0), Diameter: ptr(2.0), Efficiency: ptr(0.8),
			},
			want:       []string{"<efficiency>0.8</efficiency>"},
			wantAbsent: []string{"alpha", "diameter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scenario.New()
			s.Antennas = append(s.Antennas, tt.antenna)

			doc, _, err := Serialize(s)
			require.NoError(t, err)
			for _, frag := range tt.want {
				assert.Contains(t, doc, frag)
			}
			for _, frag := range tt.wantAbsent {
				assert.NotContains(t, doc, frag)
			}
		})
	}
}

func TestSerializeCWNormalization(t *testing.T) {
	s := scenario.New()
	s.Pulses = append(s.Pulses, scenario.Pulse{
		ID: "p", Name: "beam", PulseType: scenario.PulseKindCW, Power: 10, Carrier: 9.4e9,
	})
	s.Platforms = append(s.Platforms, scenario.Platform{
		ID: "pl", Name: "radar",
		Rotation: scenario.FixedRotation{},
		Component: scenario.Monostatic{
			Name: "m1", RadarType: "cw", PRF: 500,
			PulseID: ptr("p"), NoDirectPaths: true,
		},
	})

	doc, _, err := Serialize(s)
	require.NoError(t, err)
	assert.Contains(t, doc, `<pulse name="beam" type="continuous">`)
	assert.Contains(t, doc, `<monostatic name="m1" type="continuous" pulse="beam" nodirect="true">`)
	assert.NotContains(t, doc, "nopropagationloss")
}

func TestSerializeNegativeSeedClamps(t *testing.T) {
	s := scenario.New()
	s.GlobalParameters.RandomSeed = ptr(-5.0)

	doc, _, err := Serialize(s)
	require.NoError(t, err)
	assert.Contains(t, doc, "<randomseed>0</randomseed>")
}

func TestSerializeTargetConstantModelOmitted(t *testing.T) {
	s := scenario.New()
	s.Platforms = append(s.Platforms, scenario.Platform{
		ID: "pl", Name: "drone",
		Rotation: scenario.FixedRotation{},
		Component: scenario.Target{
			Name: "t1", RCSType: "isotropic", RCSValue: ptr(0.5), RCSModel: "constant",
		},
	})

	doc, _, err := Serialize(s)
	require.NoError(t, err)
	assert.Contains(t, doc, `<rcs type="isotropic">`)
	assert.Contains(t, doc, "<value>0.5</value>")
	assert.NotContains(t, doc, "<model")
}

func TestSerializeNilRotationDefaultsToFixed(t *testing.T) {
	s := scenario.New()
	s.Platforms = append(s.Platforms, scenario.Platform{ID: "pl", Name: "bare"})

	doc, _, err := Serialize(s)
	require.NoError(t, err)
	assert.Contains(t, doc, "<fixedrotation>")
	assert.Contains(t, doc, "<startazimuth>0</startazimuth>")
}
