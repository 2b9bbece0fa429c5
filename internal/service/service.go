// Package service owns the live scenario state and exposes the operations
// the editing surface drives: reading and replacing the scenario as JSON,
// importing and exporting the XML document form, and file-backed variants of
// both. All operations are safe for concurrent use.
package service

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/the-user-created/FERS/internal/serial"
	"github.com/the-user-created/FERS/pkg/scenario"
)

// Service holds the current scenario behind a lock.
type Service struct {
	mu     sync.RWMutex
	state  *scenario.State
	logger zerolog.Logger
}

// New returns a Service holding a default scenario.
func New(logger zerolog.Logger) *Service {
	return &Service{
		state:  scenario.New(),
		logger: logger,
	}
}

// Reset replaces the current scenario with the defaults.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = scenario.New()
	s.logger.Info().Msg("Scenario reset to defaults")
}

// ReplaceState swaps in a new scenario. The service keeps its own deep copy
// so later mutations of the argument do not leak in.
func (s *Service) ReplaceState(state *scenario.State) error {
	clone, err := cloneState(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = clone
	s.logger.Info().Str("name", clone.GlobalParameters.SimulationName).Msg("Scenario replaced")
	return nil
}

// Snapshot returns a deep copy of the current scenario. The copy goes through
// the JSON encoding, which is the only representation that knows how to clone
// the rotation and component variants.
func (s *Service) Snapshot() (*scenario.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// ScenarioJSON returns the current scenario in its JSON encoding.
func (s *Service) ScenarioJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding scenario: %w", err)
	}
	return data, nil
}

// UpdateFromJSON replaces the current scenario with one decoded from data.
// The current scenario is untouched when decoding fails.
func (s *Service) UpdateFromJSON(data []byte) error {
	next := scenario.New()
	if err := json.Unmarshal(data, next); err != nil {
		return fmt.Errorf("decoding scenario: %w", err)
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.logger.Debug().
		Int("pulses", len(next.Pulses)).
		Int("timings", len(next.Timings)).
		Int("antennas", len(next.Antennas)).
		Int("platforms", len(next.Platforms)).
		Msg("Scenario updated")
	return nil
}

// ScenarioXML renders the current scenario as a FERS XML document.
func (s *Service) ScenarioXML() (string, []string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, warnings, err := serial.Serialize(s.state)
	for _, w := range warnings {
		s.logger.Warn().Str("detail", w).Msg("Serialization warning")
	}
	return doc, warnings, err
}

// ImportXML replaces the current scenario with one parsed from a FERS XML
// document. The current scenario is untouched when parsing fails.
func (s *Service) ImportXML(data []byte) ([]string, error) {
	next, warnings, err := serial.Deserialize(data)
	for _, w := range warnings {
		s.logger.Warn().Str("detail", w).Msg("Import warning")
	}
	if err != nil {
		return warnings, err
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.logger.Info().
		Str("simulation", next.GlobalParameters.SimulationName).
		Int("platforms", len(next.Platforms)).
		Msg("Scenario imported")
	return warnings, nil
}

// LoadXMLFile imports the scenario from an XML document on disk.
func (s *Service) LoadXMLFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return s.ImportXML(data)
}

// ExportXMLFile writes the current scenario to an XML document on disk.
func (s *Service) ExportXMLFile(path string) ([]string, error) {
	doc, warnings, err := s.ScenarioXML()
	if err != nil {
		return warnings, err
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return warnings, fmt.Errorf("writing %s: %w", path, err)
	}
	s.logger.Info().Str("path", path).Msg("Scenario exported")
	return warnings, nil
}

// Validate checks the current scenario's structural invariants.
func (s *Service) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Validate()
}

func cloneState(state *scenario.State) (*scenario.State, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("cloning scenario: %w", err)
	}
	clone := scenario.New()
	if err := json.Unmarshal(data, clone); err != nil {
		return nil, fmt.Errorf("cloning scenario: %w", err)
	}
	return clone, nil
}
