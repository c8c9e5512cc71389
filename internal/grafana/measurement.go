package grafana

import "strings"

// Reading kinds published by the bridge.
const (
	Temperature  = "Temperature"
	Humidity     = "Humidity"
	BatteryLevel = "BatteryLevel"
)

// measurementParts is the number of '_'-separated fields in a measurement.
const measurementParts = 3

// Measurement is a parsed bridge measurement name.
type Measurement struct {
	Prefix   string
	DeviceID string
	Kind     string
}

// String renders the measurement name.
func (m Measurement) String() string {
	return m.Prefix + "_" + m.DeviceID + "_" + m.Kind
}

// ParseMeasurement splits name into prefix, device and reading.
// It reports false when name does not start with prefix or does not have
// exactly three fields; such targets belong to something else.
func ParseMeasurement(prefix, name string) (Measurement, bool) {
	if !strings.HasPrefix(name, prefix) {
		return Measurement{}, false
	}
	parts := strings.Split(name, "_")
	if len(parts) != measurementParts {
		return Measurement{}, false
	}
	return Measurement{Prefix: parts[0], DeviceID: parts[1], Kind: parts[2]}, true
}
