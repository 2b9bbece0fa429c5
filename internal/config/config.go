package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// StoreConfig selects and configures the scenario storage backend.
type StoreConfig struct {
	Type       string       `json:"type" mapstructure:"type"`
	SqlitePath string       `json:"sqlitePath" mapstructure:"sqlitePath"`
	Memory     MemoryConfig `json:"memory" mapstructure:"memory"`
}

// OriginConfig anchors the scenario's local coordinate frame on the globe.
type OriginConfig struct {
	Latitude  float64 `json:"latitude" mapstructure:"latitude"`
	Longitude float64 `json:"longitude" mapstructure:"longitude"`
	Altitude  float64 `json:"altitude" mapstructure:"altitude"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("store.type", "memory")
	viper.SetDefault("store.memory.outputDir", "./scenarios")
	viper.SetDefault("store.memory.compressOutput", false)
	viper.SetDefault("store.sqlitePath", "./fers-scenarios.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "fers")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "fers-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "fers-scenario")
	viper.SetDefault("otel.exportIntervalSeconds", 30)

	viper.SetDefault("api.url", "")
	viper.SetDefault("api.key", "")

	viper.SetDefault("origin.latitude", -33.9577)
	viper.SetDefault("origin.longitude", 18.4612)
	viper.SetDefault("origin.altitude", 0.0)

	viper.SetDefault("engine.binary", "fers")
	viper.SetDefault("engine.outputDir", "./results")

	viper.SetConfigName("fers-scenario.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float64 config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetStoreConfig returns the storage backend configuration.
func GetStoreConfig() StoreConfig {
	var cfg StoreConfig
	cfg.Type = viper.GetString("store.type")
	cfg.SqlitePath = viper.GetString("store.sqlitePath")
	cfg.Memory.OutputDir = viper.GetString("store.memory.outputDir")
	cfg.Memory.CompressOutput = viper.GetBool("store.memory.compressOutput")
	return cfg
}

// GetOriginConfig returns the geodetic origin of the scenario frame.
func GetOriginConfig() OriginConfig {
	return OriginConfig{
		Latitude:  viper.GetFloat64("origin.latitude"),
		Longitude: viper.GetFloat64("origin.longitude"),
		Altitude:  viper.GetFloat64("origin.altitude"),
	}
}
