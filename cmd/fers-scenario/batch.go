package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/the-user-created/FERS/internal/api"
	"github.com/the-user-created/FERS/internal/config"
	"github.com/the-user-created/FERS/internal/serial"
)

// runBatch converts every .fersxml file in a directory to JSON with a small
// worker pool. Individual file failures are reported and counted, not fatal.
func runBatch(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("batch requires an input directory, an output directory and an optional worker count")
	}
	inDir, outDir := args[0], args[1]

	workers := 4
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid worker count %q", args[2])
		}
		workers = n
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".fersxml") {
			continue
		}
		files = append(files, entry.Name())
	}
	if len(files) == 0 {
		fmt.Printf("No .fersxml files in %s.\n", inDir)
		return nil
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed int

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				if err := convertFile(inDir, outDir, name); err != nil {
					logger.Error().Err(err).Str("file", name).Msg("Conversion failed")
					fmt.Fprintf(os.Stderr, "Error: %s: %v\n", name, err)
					mu.Lock()
					failed++
					mu.Unlock()
				}
			}
		}()
	}
	for _, name := range files {
		jobs <- name
	}
	close(jobs)
	wg.Wait()

	fmt.Printf("Converted %d of %d scenarios.\n", len(files)-failed, len(files))
	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(files))
	}
	return nil
}

func convertFile(inDir, outDir, name string) error {
	data, err := os.ReadFile(filepath.Join(inDir, name))
	if err != nil {
		return err
	}
	state, warnings, err := serial.Deserialize(data)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn().Str("file", name).Msg(w)
	}

	out, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	target := strings.TrimSuffix(name, filepath.Ext(name)) + ".json"
	return os.WriteFile(filepath.Join(outDir, target), out, 0644)
}

// runUpload publishes the scenario's JSON document to the configured
// scenario library.
func runUpload(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("upload requires a scenario file and an optional tag")
	}
	baseURL := config.GetString("api.url")
	if baseURL == "" {
		return fmt.Errorf("api.url is not configured")
	}

	if err := loadScenarioFile(args[0]); err != nil {
		return err
	}
	state, err := svc.Snapshot()
	if err != nil {
		return err
	}
	doc, err := svc.ScenarioJSON()
	if err != nil {
		return err
	}

	tag := ""
	if len(args) == 2 {
		tag = args[1]
	}

	client := api.New(baseURL, config.GetString("api.key"))
	if err := client.Healthcheck(); err != nil {
		return err
	}

	params := state.GlobalParameters
	meta := api.UploadMetadata{
		ScenarioName: params.SimulationName,
		Duration:     params.End - params.Start,
		Tag:          tag,
	}
	filename := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + ".json"
	if err := client.Upload(filename, strings.NewReader(string(doc)), meta); err != nil {
		return err
	}
	fmt.Printf("Uploaded scenario %q.\n", params.SimulationName)
	return nil
}
