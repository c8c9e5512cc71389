package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable the loader reads so the host
// environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvNamesInput, EnvGrafanaInput, EnvGrafanaOutput, EnvJSONDBInput, EnvJSONDBOutput,
		EnvLogLevel, EnvLogFormat, EnvJournalPath, EnvInfluxDBURL, EnvInfluxDBToken,
		EnvMQTTHost, EnvMQTTUsername, EnvMQTTPassword, EnvMeasurementPrefix,
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_EnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvNamesInput, "/etc/sensors/names.conf")
	t.Setenv(EnvGrafanaInput, "/in/dash.json")
	t.Setenv(EnvGrafanaOutput, "/out/dash.json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Names.Input != "/etc/sensors/names.conf" {
		t.Errorf("Names.Input = %q, want %q", cfg.Names.Input, "/etc/sensors/names.conf")
	}
	if !cfg.GrafanaEnabled() {
		t.Error("GrafanaEnabled() = false, want true")
	}
	if cfg.JSONDBEnabled() {
		t.Error("JSONDBEnabled() = true, want false")
	}
	if cfg.Bridge.MeasurementPrefix != "MijiaBridge" {
		t.Errorf("Bridge.MeasurementPrefix = %q, want default", cfg.Bridge.MeasurementPrefix)
	}
}

func TestLoad_MissingNames(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	if err == nil {
		t.Fatal("Load() expected usage error, got nil")
	}
	if !errors.Is(err, ErrUsage) {
		t.Errorf("Load() error = %v, want ErrUsage", err)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	content := `
names:
  input: "/srv/names.conf"
jsondb:
  input: "/var/lib/openhab2/jsondb"
  output: "/tmp/jsondb"
bridge:
  gateway_id: "abcdef01"
mqtt:
  settle: 5s
logging:
  level: debug
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sensorgen.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.JSONDBEnabled() {
		t.Error("JSONDBEnabled() = false, want true")
	}
	if cfg.Bridge.GatewayID != "abcdef01" {
		t.Errorf("Bridge.GatewayID = %q, want %q", cfg.Bridge.GatewayID, "abcdef01")
	}
	if cfg.Bridge.HomieDevice != "mijia-bridge-raspi" {
		t.Errorf("Bridge.HomieDevice = %q, want default", cfg.Bridge.HomieDevice)
	}
	if cfg.MQTT.Settle != 5*time.Second {
		t.Errorf("MQTT.Settle = %v, want 5s", cfg.MQTT.Settle)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	content := `
names:
  input: "/from/file"
`
	configPath := filepath.Join(t.TempDir(), "sensorgen.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv(EnvNamesInput, "/from/env")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Names.Input != "/from/env" {
		t.Errorf("Names.Input = %q, want %q", cfg.Names.Input, "/from/env")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load("/nonexistent/path/sensorgen.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "sensorgen.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Names.Input = "/names.conf"
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		wantUsage bool
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:      "missing names input",
			mutate:    func(c *Config) { c.Names.Input = "" },
			wantErr:   true,
			wantUsage: true,
		},
		{
			name:    "prefix with underscore",
			mutate:  func(c *Config) { c.Bridge.MeasurementPrefix = "Mijia_Bridge" },
			wantErr: true,
		},
		{
			name:    "empty gateway id",
			mutate:  func(c *Config) { c.Bridge.GatewayID = "" },
			wantErr: true,
		},
		{
			name: "journal enabled without path",
			mutate: func(c *Config) {
				c.Journal.Enabled = true
				c.Journal.Path = ""
			},
			wantErr: true,
		},
		{
			name: "influxdb enabled without bucket",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.Bucket = ""
			},
			wantErr: true,
		},
		{
			name: "mqtt invalid qos",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.QoS = 3
			},
			wantErr: true,
		},
		{
			name: "mqtt qos ignored when disabled",
			mutate: func(c *Config) {
				c.MQTT.QoS = 3
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, ErrUsage) != tt.wantUsage {
				t.Errorf("errors.Is(err, ErrUsage) = %v, want %v", errors.Is(err, ErrUsage), tt.wantUsage)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	cfg := defaultConfig()

	t.Setenv(EnvJSONDBInput, "/var/lib/openhab2/jsondb")
	t.Setenv(EnvJSONDBOutput, "/tmp/out")
	t.Setenv(EnvJournalPath, "/tmp/journal.db")
	t.Setenv(EnvInfluxDBURL, "http://influx:8086")
	t.Setenv(EnvInfluxDBToken, "secret-token")
	t.Setenv(EnvMQTTHost, "mqtt.example.com")
	t.Setenv(EnvMQTTUsername, "testuser")
	t.Setenv(EnvMQTTPassword, "testpass")
	t.Setenv(EnvLogFormat, "json")

	applyEnvOverrides(cfg)

	if cfg.JSONDB.Input != "/var/lib/openhab2/jsondb" {
		t.Errorf("JSONDB.Input = %q", cfg.JSONDB.Input)
	}
	if cfg.JSONDB.Output != "/tmp/out" {
		t.Errorf("JSONDB.Output = %q", cfg.JSONDB.Output)
	}
	if !cfg.Journal.Enabled || cfg.Journal.Path != "/tmp/journal.db" {
		t.Errorf("Journal = %+v, want enabled at /tmp/journal.db", cfg.Journal)
	}
	if !cfg.InfluxDB.Enabled || cfg.InfluxDB.URL != "http://influx:8086" {
		t.Errorf("InfluxDB = %+v, want enabled", cfg.InfluxDB)
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT = %+v, want enabled", cfg.MQTT)
	}
	if cfg.MQTT.Auth.Username != "testuser" || cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth = %+v", cfg.MQTT.Auth)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}
