package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/the-user-created/FERS/internal/config"
	"github.com/the-user-created/FERS/internal/engine"
	"github.com/the-user-created/FERS/internal/influx"
	"github.com/the-user-created/FERS/internal/kml"
	"github.com/the-user-created/FERS/internal/preview"
	"github.com/the-user-created/FERS/internal/store"
)

// metricsManager connects to InfluxDB if metrics are enabled. Returns nil
// otherwise; callers must nil-check.
func metricsManager() *influx.Manager {
	if !config.GetBool("influx.enabled") {
		return nil
	}
	m := influx.NewManager(logger, filepath.Join(config.GetString("logsDir"), "influx_backup.log.gz"))
	if err := m.Connect(); err != nil {
		logger.Warn().Err(err).Msg("InfluxDB unavailable, metrics disabled")
		return nil
	}
	return m
}

func runImport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("import requires exactly one XML file argument")
	}

	metrics := metricsManager()
	start := time.Now()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	warnings, err := svc.ImportXML(data)
	if metrics != nil {
		point := influx.ConversionPoint("deserialize", time.Since(start), len(warnings), err == nil)
		_ = metrics.WritePoint(context.Background(), influx.BucketConversions, point)
		defer metrics.Close()
	}
	if err != nil {
		return err
	}
	printWarnings(warnings)

	out, err := svc.ScenarioJSON()
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runExport(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("export requires a scenario file and an optional output path")
	}
	if err := loadScenarioFile(args[0]); err != nil {
		return err
	}

	metrics := metricsManager()
	start := time.Now()

	var warnings []string
	var err error
	if len(args) == 2 {
		warnings, err = svc.ExportXMLFile(args[1])
	} else {
		var doc string
		doc, warnings, err = svc.ScenarioXML()
		if err == nil {
			fmt.Println(doc)
		}
	}
	if metrics != nil {
		point := influx.ConversionPoint("serialize", time.Since(start), len(warnings), err == nil)
		_ = metrics.WritePoint(context.Background(), influx.BucketConversions, point)
		defer metrics.Close()
	}
	if err != nil {
		return err
	}
	printWarnings(warnings)

	if len(args) == 2 {
		fmt.Printf("Wrote %s\n", args[1])
	}
	return nil
}

func runValidate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("validate requires exactly one scenario file argument")
	}
	if err := loadScenarioFile(args[0]); err != nil {
		return err
	}
	if err := svc.Validate(); err != nil {
		return err
	}
	fmt.Println("Scenario is valid.")
	return nil
}

func runPreview(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("preview requires a scenario file, a platform name and an optional sample count")
	}
	if err := loadScenarioFile(args[0]); err != nil {
		return err
	}

	samples := 100
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid sample count %q", args[2])
		}
		samples = n
	}

	state, err := svc.Snapshot()
	if err != nil {
		return err
	}
	for _, platform := range state.Platforms {
		if platform.Name != args[1] {
			continue
		}
		points, err := preview.SampleMotion(platform.MotionPath, samples)
		if err != nil {
			return err
		}
		track, err := preview.TrackGeoJSON(originFromConfig(), points)
		if err != nil {
			return err
		}
		fmt.Println(string(track))
		return nil
	}
	return fmt.Errorf("no platform named %q in scenario", args[1])
}

func runKML(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("kml requires a scenario file and an optional output path")
	}
	if err := loadScenarioFile(args[0]); err != nil {
		return err
	}

	state, err := svc.Snapshot()
	if err != nil {
		return err
	}
	doc, err := kml.Export(state, originFromConfig())
	if err != nil {
		return err
	}

	if len(args) == 2 {
		if err := os.WriteFile(args[1], doc, 0644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", args[1])
		return nil
	}
	fmt.Println(string(doc))
	return nil
}

func runStore(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("store requires a subcommand: save, load, list or delete")
	}

	cfg := config.GetStoreConfig()
	backend, err := store.NewBackend(cfg, originFromConfig(), logger)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return err
	}
	defer backend.Close()

	metrics := metricsManager()
	if metrics != nil {
		defer metrics.Close()
	}
	record := func(op string, start time.Time, err error) {
		if metrics == nil {
			return
		}
		point := influx.StorePoint(op, cfg.Type, time.Since(start), err == nil)
		_ = metrics.WritePoint(context.Background(), influx.BucketStore, point)
	}

	switch strings.ToLower(args[0]) {
	case "save":
		if len(args) != 3 {
			return fmt.Errorf("store save requires a name and a scenario file")
		}
		if err := loadScenarioFile(args[2]); err != nil {
			return err
		}
		state, err := svc.Snapshot()
		if err != nil {
			return err
		}
		start := time.Now()
		err = backend.Save(args[1], state)
		record("save", start, err)
		if err != nil {
			return err
		}
		fmt.Printf("Saved scenario %q.\n", args[1])
		return nil

	case "load":
		if len(args) != 2 {
			return fmt.Errorf("store load requires a name")
		}
		start := time.Now()
		state, err := backend.Load(args[1])
		record("load", start, err)
		if err != nil {
			return err
		}
		if err := svc.ReplaceState(state); err != nil {
			return err
		}
		out, err := svc.ScenarioJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil

	case "list":
		start := time.Now()
		entries, err := backend.List()
		record("list", start, err)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No stored scenarios.")
			return nil
		}
		for _, entry := range entries {
			fmt.Printf("%-40s %s\n", entry.Name, entry.UpdatedAt.Format(time.RFC3339))
		}
		return nil

	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("store delete requires a name")
		}
		start := time.Now()
		err := backend.Delete(args[1])
		record("delete", start, err)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted scenario %q.\n", args[1])
		return nil

	default:
		return fmt.Errorf("unknown store subcommand %q", args[0])
	}
}

func runEngine(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("run requires exactly one scenario file argument")
	}
	if err := loadScenarioFile(args[0]); err != nil {
		return err
	}
	state, err := svc.Snapshot()
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	runner := engine.NewRunner(logger)

	metrics := metricsManager()
	result, err := runner.Run(context.Background(), name, state)
	if metrics != nil {
		if result != nil {
			point := influx.EngineRunPoint(name, result.Duration, result.ExitCode)
			_ = metrics.WritePoint(context.Background(), influx.BucketEngineRuns, point)
		}
		metrics.Close()
	}
	if err != nil {
		return err
	}

	printWarnings(result.Warnings)
	fmt.Print(result.Output)
	if result.ExitCode != 0 {
		return fmt.Errorf("engine exited with code %d", result.ExitCode)
	}
	fmt.Printf("Simulation outputs in %s\n", result.OutputDir)
	return nil
}
