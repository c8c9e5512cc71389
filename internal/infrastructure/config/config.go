package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Usage is printed when the tool is started without a device mapping.
const Usage = "Please set NAMES_INPUT and either GRAFANA_ or SMARTHOME_JSONDB_ INPUT and OUTPUT."

// ErrUsage indicates the process was started without required configuration.
// Callers should print Usage and exit with a distinct status.
var ErrUsage = errors.New("config: usage error")

// Environment variables read by the tool.
const (
	EnvNamesInput        = "NAMES_INPUT"
	EnvGrafanaInput      = "GRAFANA_INPUT"
	EnvGrafanaOutput     = "GRAFANA_OUTPUT"
	EnvJSONDBInput       = "SMARTHOME_JSONDB_INPUT"
	EnvJSONDBOutput      = "SMARTHOME_JSONDB_OUTPUT"
	EnvConfigFile        = "SENSORGEN_CONFIG"
	EnvLogLevel          = "SENSORGEN_LOG_LEVEL"
	EnvLogFormat         = "SENSORGEN_LOG_FORMAT"
	EnvJournalPath       = "SENSORGEN_JOURNAL_PATH"
	EnvInfluxDBURL       = "SENSORGEN_INFLUXDB_URL"
	EnvInfluxDBToken     = "SENSORGEN_INFLUXDB_TOKEN"
	EnvMQTTHost          = "SENSORGEN_MQTT_HOST"
	EnvMQTTUsername      = "SENSORGEN_MQTT_USERNAME"
	EnvMQTTPassword      = "SENSORGEN_MQTT_PASSWORD"
	EnvMeasurementPrefix = "SENSORGEN_MEASUREMENT_PREFIX"
)

// Config is the root configuration for sensorgen.
// It is built once at startup from defaults, an optional YAML file and
// the process environment, then passed explicitly to every component.
type Config struct {
	Names    NamesConfig    `yaml:"names"`
	Grafana  GrafanaConfig  `yaml:"grafana"`
	JSONDB   JSONDBConfig   `yaml:"jsondb"`
	Bridge   BridgeConfig   `yaml:"bridge"`
	Journal  JournalConfig  `yaml:"journal"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Logging  LoggingConfig  `yaml:"logging"`

	// DryRun prints the would-be changes instead of writing outputs.
	DryRun bool `yaml:"dry_run"`
}

// NamesConfig locates the device mapping file.
type NamesConfig struct {
	Input string `yaml:"input"`
}

// GrafanaConfig holds the dashboard input and output paths.
// The dashboard target runs only when both are set.
type GrafanaConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// JSONDBConfig holds the openHAB JSON database directories.
// The store targets run only when both are set.
type JSONDBConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// BridgeConfig describes how the BLE bridge names things.
type BridgeConfig struct {
	// MeasurementPrefix prefixes InfluxDB measurements and openHAB item names.
	MeasurementPrefix string `yaml:"measurement_prefix"`

	// GatewayID is the openHAB MQTT broker thing id used in channel UIDs.
	GatewayID string `yaml:"gateway_id"`

	// HomieDevice is the Homie device id the bridge publishes under.
	HomieDevice string `yaml:"homie_device"`
}

// JournalConfig contains generation journal (SQLite) settings.
type JournalConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings used by the inventory.
type InfluxDBConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
}

// MQTTConfig contains MQTT broker settings used by the inventory.
type MQTTConfig struct {
	Enabled bool             `yaml:"enabled"`
	Broker  MQTTBrokerConfig `yaml:"broker"`
	Auth    MQTTAuthConfig   `yaml:"auth"`
	QoS     int              `yaml:"qos"`

	// HomieBase is the Homie root topic, usually "homie".
	HomieBase string `yaml:"homie_base"`

	// Settle is how long retained Homie attributes are collected.
	Settle time.Duration `yaml:"settle"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load builds the configuration.
//
// The loading order is:
//  1. Default values
//  2. YAML file values, when path is not empty
//  3. Environment variables
//
// Parameters:
//   - path: Path to an optional YAML configuration file ("" to skip)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be read or parsed, or validation fails.
//     A missing mapping path is reported as ErrUsage.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with the bridge's factory defaults.
func defaultConfig() *Config {
	return &Config{
		Bridge: BridgeConfig{
			MeasurementPrefix: "MijiaBridge",
			GatewayID:         "19078e8a",
			HomieDevice:       "mijia-bridge-raspi",
		},
		Journal: JournalConfig{
			Path:        "./data/sensorgen.db",
			BusyTimeout: 5,
		},
		InfluxDB: InfluxDBConfig{
			URL:    "http://localhost:8086",
			Bucket: "openhab",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "sensorgen",
			},
			QoS:       1,
			HomieBase: "homie",
			Settle:    3 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Setting a service URL, host or journal path also enables that service.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvNamesInput); v != "" {
		cfg.Names.Input = v
	}
	if v := os.Getenv(EnvGrafanaInput); v != "" {
		cfg.Grafana.Input = v
	}
	if v := os.Getenv(EnvGrafanaOutput); v != "" {
		cfg.Grafana.Output = v
	}
	if v := os.Getenv(EnvJSONDBInput); v != "" {
		cfg.JSONDB.Input = v
	}
	if v := os.Getenv(EnvJSONDBOutput); v != "" {
		cfg.JSONDB.Output = v
	}
	if v := os.Getenv(EnvMeasurementPrefix); v != "" {
		cfg.Bridge.MeasurementPrefix = v
	}

	// Logging
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}

	// Journal
	if v := os.Getenv(EnvJournalPath); v != "" {
		cfg.Journal.Path = v
		cfg.Journal.Enabled = true
	}

	// InfluxDB
	if v := os.Getenv(EnvInfluxDBURL); v != "" {
		cfg.InfluxDB.URL = v
		cfg.InfluxDB.Enabled = true
	}
	if v := os.Getenv(EnvInfluxDBToken); v != "" {
		cfg.InfluxDB.Token = v
	}

	// MQTT
	if v := os.Getenv(EnvMQTTHost); v != "" {
		cfg.MQTT.Broker.Host = v
		cfg.MQTT.Enabled = true
	}
	if v := os.Getenv(EnvMQTTUsername); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv(EnvMQTTPassword); v != "" {
		cfg.MQTT.Auth.Password = v
	}
}

// Validate checks the configuration.
//
// Returns:
//   - error: ErrUsage (wrapped) when the mapping path is missing, otherwise
//     a description of every other problem found, or nil if valid
func (c *Config) Validate() error {
	if c.Names.Input == "" {
		return fmt.Errorf("%w: %s is not set", ErrUsage, EnvNamesInput)
	}

	var errs []string

	if c.Bridge.MeasurementPrefix == "" {
		errs = append(errs, "bridge.measurement_prefix is required")
	} else if strings.Contains(c.Bridge.MeasurementPrefix, "_") {
		errs = append(errs, "bridge.measurement_prefix must not contain '_'")
	}
	if c.Bridge.GatewayID == "" {
		errs = append(errs, "bridge.gateway_id is required")
	}
	if c.Bridge.HomieDevice == "" {
		errs = append(errs, "bridge.homie_device is required")
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		errs = append(errs, "journal.path is required when the journal is enabled")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	if c.MQTT.Enabled {
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
			errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GrafanaEnabled reports whether both dashboard paths are configured.
func (c *Config) GrafanaEnabled() bool {
	return c.Grafana.Input != "" && c.Grafana.Output != ""
}

// JSONDBEnabled reports whether both JSON database directories are configured.
func (c *Config) JSONDBEnabled() bool {
	return c.JSONDB.Input != "" && c.JSONDB.Output != ""
}
