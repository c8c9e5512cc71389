package influxdb_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/nerrad567/sensorgen/internal/infrastructure/config"
	"github.com/nerrad567/sensorgen/internal/infrastructure/influxdb"
)

// testConfig returns a configuration for a local development InfluxDB.
func testConfig() config.InfluxDBConfig {
	cfg := config.InfluxDBConfig{
		Enabled: true,
		URL:     "http://127.0.0.1:8086",
		Token:   "sensorgen-dev-token",
		Org:     "home",
		Bucket:  "openhab",
	}
	if v := os.Getenv("SENSORGEN_TEST_INFLUXDB_URL"); v != "" {
		cfg.URL = v
	}
	return cfg
}

// connectOrSkip connects to the development server or skips the test.
func connectOrSkip(t *testing.T) *influxdb.Client {
	t.Helper()
	client, err := influxdb.Connect(testConfig())
	if err != nil {
		t.Skip("InfluxDB not available, skipping integration test")
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // Test cleanup
	return client
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	_, err := influxdb.Connect(cfg)
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	cfg := testConfig()
	cfg.URL = "http://127.0.0.1:59999"

	_, err := influxdb.Connect(cfg)
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestMeasurements_NilClient(t *testing.T) {
	var client *influxdb.Client
	_, err := client.Measurements(context.Background(), "MijiaBridge_")
	if !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("Measurements() error = %v, want ErrNotConnected", err)
	}
}

func TestMeasurements_AfterClose(t *testing.T) {
	client := connectOrSkip(t)
	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}
	if _, err := client.Measurements(context.Background(), ""); !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("Measurements() error = %v, want ErrNotConnected", err)
	}
}

func TestMeasurements_Integration(t *testing.T) {
	client := connectOrSkip(t)

	names, err := client.Measurements(context.Background(), "MijiaBridge_")
	if err != nil {
		t.Fatalf("Measurements() error = %v", err)
	}
	for _, n := range names {
		if !strings.HasPrefix(n, "MijiaBridge_") {
			t.Errorf("Measurements() returned %q without the prefix", n)
		}
	}
}
