package store

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/the-user-created/FERS/internal/config"
	"github.com/the-user-created/FERS/pkg/scenario"
)

// MemoryBackend stores scenarios as JSON documents in a directory, optionally
// gzip-compressed.
type MemoryBackend struct {
	cfg config.MemoryConfig
	log zerolog.Logger
	mu  sync.Mutex
}

// NewMemoryBackend creates a file-backed scenario store.
func NewMemoryBackend(cfg config.MemoryConfig, log zerolog.Logger) *MemoryBackend {
	return &MemoryBackend{cfg: cfg, log: log}
}

// Init ensures the output directory exists.
func (b *MemoryBackend) Init() error {
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Close cleans up resources.
func (b *MemoryBackend) Close() error {
	return nil
}

// Save writes the scenario under name, replacing any previous document.
func (b *MemoryBackend) Save(name string, state *scenario.State) error {
	if name == "" {
		return fmt.Errorf("scenario name must not be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scenario %q: %w", name, err)
	}

	path := b.documentPath(name)
	if b.cfg.CompressOutput {
		if err := writeGzip(path, data); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
	}

	b.log.Debug().Str("name", name).Str("path", path).Msg("Scenario saved")
	return nil
}

// Load reads the scenario stored under name.
func (b *MemoryBackend) Load(name string) (*scenario.State, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := b.readDocument(name)
	if err != nil {
		return nil, err
	}

	state := scenario.New()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decoding scenario %q: %w", name, err)
	}
	return state, nil
}

// List returns the stored scenarios sorted however the directory lists them.
func (b *MemoryBackend) List() ([]Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	files, err := os.ReadDir(b.cfg.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		switch {
		case strings.HasSuffix(name, ".json.gz"):
			name = strings.TrimSuffix(name, ".json.gz")
		case strings.HasSuffix(name, ".json"):
			name = strings.TrimSuffix(name, ".json")
		default:
			continue
		}
		info, err := file.Info()
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: name, UpdatedAt: info.ModTime()})
	}
	return entries, nil
}

// Delete removes the scenario stored under name.
func (b *MemoryBackend) Delete(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := false
	for _, path := range b.candidatePaths(name) {
		if err := os.Remove(path); err == nil {
			removed = true
		} else if !os.IsNotExist(err) {
			return err
		}
	}
	if !removed {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

func (b *MemoryBackend) documentPath(name string) string {
	filename := sanitizeName(name) + ".json"
	if b.cfg.CompressOutput {
		filename += ".gz"
	}
	return filepath.Join(b.cfg.OutputDir, filename)
}

// candidatePaths lists both compressed and plain locations so that loads and
// deletes work across a compressOutput config change.
func (b *MemoryBackend) candidatePaths(name string) []string {
	base := filepath.Join(b.cfg.OutputDir, sanitizeName(name))
	if b.cfg.CompressOutput {
		return []string{base + ".json.gz", base + ".json"}
	}
	return []string{base + ".json", base + ".json.gz"}
}

func (b *MemoryBackend) readDocument(name string) ([]byte, error) {
	for _, path := range b.candidatePaths(name) {
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()

		var r io.Reader = f
		if strings.HasSuffix(path, ".gz") {
			gz, err := gzip.NewReader(f)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			defer gz.Close()
			r = gz
		}
		return io.ReadAll(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func writeGzip(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if _, err := gzWriter.Write(data); err != nil {
		return err
	}
	return gzWriter.Close()
}

func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	return name
}
