package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-user-created/FERS/pkg/scenario"
)

func newTestService() *Service {
	return New(zerolog.Nop())
}

const testDoc = `<?xml version="1.0" encoding="UTF-8"?>
<simulation name="Imported">
    <parameters>
        <starttime>0</starttime>
        <endtime>5</endtime>
        <rate>100000</rate>
        <c>299792458</c>
        <adc_bits>10</adc_bits>
        <oversample>2</oversample>
        <export binary="true" csv="true" xml="false"/>
    </parameters>
    <pulse name="P1" type="file" filename="wave.h5">
        <power>100</power>
        <carrier>1e9</carrier>
    </pulse>
</simulation>`

func TestScenarioJSONDefaults(t *testing.T) {
	svc := newTestService()

	data, err := svc.ScenarioJSON()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	gp := got["globalParameters"].(map[string]any)
	assert.Equal(t, "FERS Simulation", gp["simulation_name"])
	assert.Equal(t, 10.0, gp["end"])
	assert.Nil(t, gp["random_seed"])
}

func TestUpdateFromJSON(t *testing.T) {
	svc := newTestService()

	data, err := svc.ScenarioJSON()
	require.NoError(t, err)

	var state scenario.State
	require.NoError(t, json.Unmarshal(data, &state))
	state.GlobalParameters.SimulationName = "edited"
	edited, err := json.Marshal(&state)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateFromJSON(edited))

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "edited", snap.GlobalParameters.SimulationName)
}

func TestUpdateFromJSONInvalidKeepsState(t *testing.T) {
	svc := newTestService()
	require.Error(t, svc.UpdateFromJSON([]byte(`{"globalParameters": [`)))

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "FERS Simulation", snap.GlobalParameters.SimulationName)
}

func TestImportXML(t *testing.T) {
	svc := newTestService()

	warnings, err := svc.ImportXML([]byte(testDoc))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "Imported", snap.GlobalParameters.SimulationName)
	assert.Equal(t, 5.0, snap.GlobalParameters.End)
	require.Len(t, snap.Pulses, 1)
	assert.Equal(t, "P1", snap.Pulses[0].Name)
}

func TestImportXMLInvalidKeepsState(t *testing.T) {
	svc := newTestService()
	_, err := svc.ImportXML([]byte(`<simulation name="broken">`))
	require.Error(t, err)

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "FERS Simulation", snap.GlobalParameters.SimulationName)
}

func TestLoadAndExportFiles(t *testing.T) {
	svc := newTestService()
	dir := t.TempDir()

	in := filepath.Join(dir, "in.fersxml")
	require.NoError(t, os.WriteFile(in, []byte(testDoc), 0644))

	_, err := svc.LoadXMLFile(in)
	require.NoError(t, err)

	out := filepath.Join(dir, "out.fersxml")
	_, err = svc.ExportXMLFile(out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<simulation name="Imported">`)
	assert.Contains(t, string(data), `<pulse name="P1" type="file" filename="wave.h5">`)
}

func TestLoadXMLFileMissing(t *testing.T) {
	svc := newTestService()
	_, err := svc.LoadXMLFile(filepath.Join(t.TempDir(), "absent.fersxml"))
	require.Error(t, err)
}

func TestSnapshotIsACopy(t *testing.T) {
	svc := newTestService()

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	snap.GlobalParameters.SimulationName = "mutated"

	again, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "FERS Simulation", again.GlobalParameters.SimulationName)
}

func TestValidate(t *testing.T) {
	svc := newTestService()
	require.NoError(t, svc.Validate())

	bad := `{"globalParameters": {"id":"global-parameters","type":"GlobalParameters",
		"simulation_name":"x","start":5,"end":1,"rate":1,"simSamplingRate":null,
		"c":3e8,"random_seed":null,"adc_bits":8,"oversample_ratio":1,
		"export":{"xml":false,"csv":false,"binary":true}},
		"pulses":[],"timings":[],"antennas":[],"platforms":[]}`
	require.NoError(t, svc.UpdateFromJSON([]byte(bad)))
	assert.Error(t, svc.Validate())
}
