package inventory

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/nerrad567/sensorgen/internal/infrastructure/config"
	"github.com/nerrad567/sensorgen/internal/infrastructure/mqtt"
	"github.com/nerrad567/sensorgen/internal/sensor"
)

// fakeInflux returns a fixed list of measurements.
type fakeInflux struct {
	names  []string
	err    error
	prefix string
}

func (f *fakeInflux) Measurements(_ context.Context, prefix string) ([]string, error) {
	f.prefix = prefix
	return f.names, f.err
}

// fakeBroker replays retained messages synchronously on Subscribe.
type fakeBroker struct {
	messages map[string]string
	filter   string
}

func (f *fakeBroker) Subscribe(topic string, _ byte, handler mqtt.MessageHandler) error {
	f.filter = topic
	for t, payload := range f.messages {
		if err := handler(t, []byte(payload), true); err != nil {
			return err
		}
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Bridge: config.BridgeConfig{
			MeasurementPrefix: "MijiaBridge",
			GatewayID:         "19078e8a",
			HomieDevice:       "mijia-bridge-raspi",
		},
		MQTT: config.MQTTConfig{QoS: 1, HomieBase: "homie"},
	}
}

func TestCollector_Report(t *testing.T) {
	c := NewCollector("MijiaBridge")
	for _, n := range []string{
		"MijiaBridge_A4C138000001_Temperature",
		"MijiaBridge_A4C138000002_Humidity",
		"MijiaBridge_A4C138000002_Temperature",
		"MijiaBridge_bogus",
	} {
		c.AddMeasurement(n)
	}
	c.AddNodeName("A4:C1:38:00:00:03", " Garage ")
	c.AddNodeName("A4C138000002", "Bathroom")

	devices := sensor.Mapping{
		{ID: "A4C138000001", Name: "Office"},
		{ID: "A4C138000009", Name: "Loft"},
	}
	report := c.Report(devices)

	if report.Seen != 3 {
		t.Errorf("Seen = %d, want 3", report.Seen)
	}

	want := []Sighting{
		{ID: "A4C138000002", Name: "Bathroom", Readings: []string{"Humidity", "Temperature"}, Sources: []string{SourceHomie, SourceInfluxDB}},
		{ID: "A4C138000003", Name: "Garage", Readings: []string{}, Sources: []string{SourceHomie}},
	}
	if !reflect.DeepEqual(report.Unmapped, want) {
		t.Errorf("Unmapped = %+v, want %+v", report.Unmapped, want)
	}

	if len(report.Unseen) != 1 || report.Unseen[0].ID != "A4C138000009" {
		t.Errorf("Unseen = %+v, want Loft only", report.Unseen)
	}
}

func TestCollector_AddMeasurement(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"MijiaBridge_A4C138000001_BatteryLevel", true},
		{"MijiaBridge_A4C138000001", false},
		{"MijiaBridge_A4C138000001_Temperature_extra", false},
		{"cpu_load_avg", false},
	}
	c := NewCollector("MijiaBridge")
	for _, tt := range tests {
		if got := c.AddMeasurement(tt.name); got != tt.want {
			t.Errorf("AddMeasurement(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSighting_MappingLine(t *testing.T) {
	tests := []struct {
		s    Sighting
		want string
	}{
		{Sighting{ID: "A4C138000001", Name: "Office"}, "A4C138000001=Office"},
		{Sighting{ID: "A4C138000001"}, "A4C138000001=A4C138000001"},
	}
	for _, tt := range tests {
		if got := tt.s.MappingLine(); got != tt.want {
			t.Errorf("MappingLine() = %q, want %q", got, tt.want)
		}
	}
}

func TestHomieHandler(t *testing.T) {
	c := NewCollector("MijiaBridge")
	h := c.HomieHandler(mqtt.Topics{Base: "homie"})

	messages := map[string]string{
		"homie/mijia-bridge-raspi/A4C138000001/$name":       "Office",
		"homie/mijia-bridge-raspi/A4C138000002/$type":       "sensor",
		"homie/mijia-bridge-raspi/A4C138000003/temperature": "21.5",
		"homie/mijia-bridge-raspi/$name":                    "Bridge",
	}
	for topic, payload := range messages {
		if err := h(topic, []byte(payload), true); err != nil {
			t.Fatalf("handler(%s) error = %v", topic, err)
		}
	}

	report := c.Report(nil)
	if len(report.Unmapped) != 1 {
		t.Fatalf("Unmapped = %+v, want only the named node", report.Unmapped)
	}
	if got := report.Unmapped[0]; got.ID != "A4C138000001" || got.Name != "Office" {
		t.Errorf("Unmapped[0] = %+v", got)
	}
}

func TestCollect(t *testing.T) {
	influx := &fakeInflux{names: []string{
		"MijiaBridge_A4C138000001_Temperature",
		"MijiaBridge_A4C138000002_Temperature",
	}}
	broker := &fakeBroker{messages: map[string]string{
		"homie/mijia-bridge-raspi/A4C138000002/$name": "Kitchen",
	}}
	devices := sensor.Mapping{{ID: "A4C138000001", Name: "Office"}}

	report, err := Collect(context.Background(), testConfig(), Sources{Measurements: influx, Homie: broker}, devices, time.Millisecond)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if influx.prefix != "MijiaBridge_" {
		t.Errorf("measurement prefix = %q, want %q", influx.prefix, "MijiaBridge_")
	}
	if broker.filter != "homie/mijia-bridge-raspi/+/$name" {
		t.Errorf("subscription = %q", broker.filter)
	}
	if len(report.Unmapped) != 1 || report.Unmapped[0].MappingLine() != "A4C138000002=Kitchen" {
		t.Errorf("Unmapped = %+v", report.Unmapped)
	}
	if len(report.Unseen) != 0 {
		t.Errorf("Unseen = %+v, want none", report.Unseen)
	}
}

func TestCollect_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		src     Sources
		ctx     func() context.Context
		wantErr error
	}{
		{
			name:    "no sources",
			wantErr: ErrNoSources,
		},
		{
			name:    "influx failure",
			src:     Sources{Measurements: &fakeInflux{err: boom}},
			wantErr: boom,
		},
		{
			name: "cancelled during settle",
			src:  Sources{Homie: &fakeBroker{}},
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}
			_, err := Collect(ctx, testConfig(), tt.src, nil, time.Minute)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Collect() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
