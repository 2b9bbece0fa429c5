package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/the-user-created/FERS/internal/config"
	"github.com/the-user-created/FERS/internal/geo"
	"github.com/the-user-created/FERS/internal/logging"
	intOtel "github.com/the-user-created/FERS/internal/otel"
	"github.com/the-user-created/FERS/internal/service"
)

// Version can be set at build time via ldflags
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"
)

var (
	logger zerolog.Logger
	svc    *service.Service
)

func usage() {
	fmt.Println("fers-scenario - FERS scenario transcoder and toolbox")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  fers-scenario import <scenario.fersxml>           convert XML to JSON on stdout")
	fmt.Println("  fers-scenario export <scenario.json> [out.fersxml] convert JSON to XML")
	fmt.Println("  fers-scenario validate <scenario.json|.fersxml>   check scenario invariants")
	fmt.Println("  fers-scenario preview <scenario file> <platform> [samples]")
	fmt.Println("                                                    platform track as GeoJSON")
	fmt.Println("  fers-scenario kml <scenario file> [out.kml]       export platforms as KML")
	fmt.Println("  fers-scenario store save <name> <scenario file>   save to the scenario store")
	fmt.Println("  fers-scenario store load <name>                   print stored scenario JSON")
	fmt.Println("  fers-scenario store list                          list stored scenarios")
	fmt.Println("  fers-scenario store delete <name>                 delete a stored scenario")
	fmt.Println("  fers-scenario batch <in dir> <out dir> [workers]  convert a directory of XML scenarios")
	fmt.Println("  fers-scenario upload <scenario file> [tag]        publish to the scenario library")
	fmt.Println("  fers-scenario run <scenario file>                 run the simulation engine")
	fmt.Println("  fers-scenario version                             print version")
}

func main() {
	sessionStart := time.Now()

	configErr := config.Load(".")

	logsDir := config.GetString("logsDir")
	_ = os.MkdirAll(logsDir, 0755)
	logPath := logging.LogFilePath(logsDir, "fers-scenario", sessionStart)
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	graylogAddr := ""
	if config.GetBool("graylog.enabled") {
		graylogAddr = config.GetString("graylog.address")
	}
	logger = logging.Setup(config.GetString("logLevel"), logFile, graylogAddr)
	if configErr != nil {
		logger.Warn().Err(configErr).Msg("No config file found, using defaults")
	}

	otelProvider, otelErr := setupOtel(logsDir)
	if otelErr != nil {
		logger.Warn().Err(otelErr).Msg("OTel setup failed, metrics disabled")
	} else {
		defer otelProvider.Shutdown(context.Background())
	}

	svc = service.New(logger)

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	switch strings.ToLower(args[0]) {
	case "import":
		err = runImport(args[1:])
	case "export":
		err = runExport(args[1:])
	case "validate":
		err = runValidate(args[1:])
	case "preview":
		err = runPreview(args[1:])
	case "kml":
		err = runKML(args[1:])
	case "store":
		err = runStore(args[1:])
	case "batch":
		err = runBatch(args[1:])
	case "upload":
		err = runUpload(args[1:])
	case "run":
		err = runEngine(args[1:])
	case "version":
		fmt.Printf("fers-scenario %s (built %s)\n", Version, BuildDate)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Printf("Unknown command %q.\n\n", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupOtel installs the global meter provider when metrics are enabled.
// Exports go to a JSON file under the logs directory.
func setupOtel(logsDir string) (*intOtel.Provider, error) {
	cfg := intOtel.Config{
		Enabled:        config.GetBool("otel.enabled"),
		ServiceName:    config.GetString("otel.serviceName"),
		ExportInterval: time.Duration(config.GetInt("otel.exportIntervalSeconds")) * time.Second,
	}
	if cfg.Enabled {
		metricFile, err := os.OpenFile(
			filepath.Join(logsDir, "fers-scenario.metrics.json"),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		cfg.MetricWriter = metricFile
	}
	return intOtel.New(cfg)
}

// loadScenarioFile loads either a JSON or XML scenario into the service,
// deciding by file extension.
func loadScenarioFile(path string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return svc.UpdateFromJSON(data)
	}

	warnings, err := svc.LoadXMLFile(path)
	if err != nil {
		return err
	}
	printWarnings(warnings)
	return nil
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}

func originFromConfig() geo.Origin {
	cfg := config.GetOriginConfig()
	return geo.Origin{
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		Altitude:  cfg.Altitude,
	}
}
