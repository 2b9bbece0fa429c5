package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-user-created/FERS/pkg/scenario"
)

func TestRunWritesScenarioAndReportsResult(t *testing.T) {
	var gotDir, gotBinary string
	var gotArgs []string
	orig := runCommand
	runCommand = func(ctx context.Context, dir, binary string, args ...string) ([]byte, int, error) {
		gotDir, gotBinary, gotArgs = dir, binary, args
		return []byte("simulation complete\n"), 0, nil
	}
	defer func() { runCommand = orig }()

	r := &Runner{
		Binary:    "fers",
		OutputDir: t.TempDir(),
		Logger:    zerolog.Nop(),
	}

	state := scenario.New()
	state.GlobalParameters.SimulationName = "test run"

	result, err := r.Run(context.Background(), "test run", state)
	require.NoError(t, err)

	assert.Equal(t, "fers", gotBinary)
	assert.Equal(t, []string{"test_run.fersxml"}, gotArgs)
	assert.Equal(t, filepath.Join(r.OutputDir, "test_run"), gotDir)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "simulation complete\n", result.Output)

	data, err := os.ReadFile(result.ScenarioFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `<simulation name="test run">`))
}

func TestRunNonzeroExitIsNotAnError(t *testing.T) {
	orig := runCommand
	runCommand = func(ctx context.Context, dir, binary string, args ...string) ([]byte, int, error) {
		return []byte("bad scenario\n"), 2, nil
	}
	defer func() { runCommand = orig }()

	r := &Runner{Binary: "fers", OutputDir: t.TempDir(), Logger: zerolog.Nop()}

	result, err := r.Run(context.Background(), "failing", scenario.New())
	require.NoError(t, err)
	assert.Equal(t, 2, result.ExitCode)
}

func TestRunMissingBinary(t *testing.T) {
	orig := runCommand
	runCommand = func(ctx context.Context, dir, binary string, args ...string) ([]byte, int, error) {
		return nil, -1, fmt.Errorf("%s: executable file not found", binary)
	}
	defer func() { runCommand = orig }()

	r := &Runner{Binary: "no-such-engine", OutputDir: t.TempDir(), Logger: zerolog.Nop()}

	_, err := r.Run(context.Background(), "missing", scenario.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-engine")
}
