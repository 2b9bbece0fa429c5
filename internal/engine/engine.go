// Package engine shells out to the FERS simulation binary. The scenario is
// rendered to XML next to the simulation outputs so a run directory is
// self-describing.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/the-user-created/FERS/internal/config"
	"github.com/the-user-created/FERS/internal/serial"
	"github.com/the-user-created/FERS/pkg/scenario"
)

// Runner executes the simulation engine on a scenario.
type Runner struct {
	Binary    string
	OutputDir string
	Logger    zerolog.Logger
}

// NewRunner creates a Runner from configuration.
func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{
		Binary:    config.GetString("engine.binary"),
		OutputDir: config.GetString("engine.outputDir"),
		Logger:    log,
	}
}

// Result describes one engine run.
type Result struct {
	ScenarioFile string        `json:"scenarioFile"`
	OutputDir    string        `json:"outputDir"`
	ExitCode     int           `json:"exitCode"`
	Duration     time.Duration `json:"duration"`
	Output       string        `json:"output"`
	Warnings     []string      `json:"warnings,omitempty"`
}

// runCommand is injectable in tests.
var runCommand = func(ctx context.Context, dir, binary string, args ...string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, exitErr.ExitCode(), nil
	}
	if err != nil {
		return out, -1, fmt.Errorf("%s: %w: %s", binary, err, strings.TrimSpace(string(out)))
	}
	return out, 0, nil
}

// Run renders the scenario to XML under the run directory and invokes the
// engine on it. A nonzero engine exit is reported in the Result, not as an
// error.
func (r *Runner) Run(ctx context.Context, name string, state *scenario.State) (*Result, error) {
	doc, warnings, err := serial.Serialize(state)
	if err != nil {
		return nil, fmt.Errorf("rendering scenario %q: %w", name, err)
	}
	for _, w := range warnings {
		r.Logger.Warn().Str("scenario", name).Msg(w)
	}

	runDir := filepath.Join(r.OutputDir, sanitizeRunName(name))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	scenarioFile := filepath.Join(runDir, sanitizeRunName(name)+".fersxml")
	if err := os.WriteFile(scenarioFile, []byte(doc), 0644); err != nil {
		return nil, fmt.Errorf("writing scenario file: %w", err)
	}

	r.Logger.Info().Str("scenario", name).Str("binary", r.Binary).Msg("Starting engine run")
	start := time.Now()
	out, exitCode, err := runCommand(ctx, runDir, r.Binary, filepath.Base(scenarioFile))
	duration := time.Since(start)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ScenarioFile: scenarioFile,
		OutputDir:    runDir,
		ExitCode:     exitCode,
		Duration:     duration,
		Output:       string(out),
		Warnings:     warnings,
	}

	evt := r.Logger.Info()
	if exitCode != 0 {
		evt = r.Logger.Error()
	}
	evt.Str("scenario", name).Int("exitCode", exitCode).
		Dur("duration", duration).Msg("Engine run finished")

	return result, nil
}

func sanitizeRunName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	return name
}
