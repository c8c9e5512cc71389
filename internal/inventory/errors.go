package inventory

import "errors"

// ErrNoSources is returned when neither InfluxDB nor MQTT is enabled.
var ErrNoSources = errors.New("inventory: no live source enabled (set influxdb or mqtt)")
