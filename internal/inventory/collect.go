package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/sensorgen/internal/infrastructure/config"
	"github.com/nerrad567/sensorgen/internal/infrastructure/influxdb"
	"github.com/nerrad567/sensorgen/internal/infrastructure/logging"
	"github.com/nerrad567/sensorgen/internal/infrastructure/mqtt"
	"github.com/nerrad567/sensorgen/internal/sensor"
)

// MeasurementLister lists measurement names. *influxdb.Client satisfies it.
type MeasurementLister interface {
	Measurements(ctx context.Context, prefix string) ([]string, error)
}

// Subscriber delivers MQTT messages. *mqtt.Client satisfies it.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Sources are the live sources to consult. Nil sources are skipped.
type Sources struct {
	Measurements MeasurementLister
	Homie        Subscriber
}

// Collect gathers sightings from sources and compares them with devices.
//
// The Homie source is read for settle: retained node names arrive right
// after subscribing, and the wait also catches bridges that republish.
//
// Parameters:
//   - ctx: Context for cancellation; cancelling ends the settle wait early
//   - cfg: Configuration (bridge naming, Homie base, QoS)
//   - src: Sources to consult
//   - devices: The current mapping
//   - settle: How long to listen on MQTT
//
// Returns:
//   - Report: The comparison
//   - error: ErrNoSources, or a source error
func Collect(ctx context.Context, cfg *config.Config, src Sources, devices sensor.Mapping, settle time.Duration) (Report, error) {
	if src.Measurements == nil && src.Homie == nil {
		return Report{}, ErrNoSources
	}

	c := NewCollector(cfg.Bridge.MeasurementPrefix)

	if src.Measurements != nil {
		names, err := src.Measurements.Measurements(ctx, cfg.Bridge.MeasurementPrefix+"_")
		if err != nil {
			return Report{}, fmt.Errorf("listing measurements: %w", err)
		}
		for _, n := range names {
			c.AddMeasurement(n)
		}
	}

	if src.Homie != nil {
		topics := mqtt.Topics{Base: cfg.MQTT.HomieBase}
		filter := topics.NodeNames(cfg.Bridge.HomieDevice)
		if err := src.Homie.Subscribe(filter, byte(cfg.MQTT.QoS), c.HomieHandler(topics)); err != nil {
			return Report{}, fmt.Errorf("subscribing to %s: %w", filter, err)
		}

		timer := time.NewTimer(settle)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Report{}, ctx.Err()
		case <-timer.C:
		}
	}

	return c.Report(devices), nil
}

// Connect opens the sources enabled in cfg.
// The returned close function releases whatever was opened.
func Connect(cfg *config.Config, logger *logging.Logger) (Sources, func(), error) {
	var src Sources
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	influx, err := influxdb.Connect(cfg.InfluxDB)
	switch {
	case err == nil:
		src.Measurements = influx
		closers = append(closers, func() { influx.Close() }) //nolint:errcheck // Read-only client
		logger.Info("inventory source connected", "source", SourceInfluxDB, "bucket", cfg.InfluxDB.Bucket)
	case errors.Is(err, influxdb.ErrDisabled):
	default:
		return Sources{}, nil, err
	}

	broker, err := mqtt.Connect(cfg.MQTT)
	switch {
	case err == nil:
		broker.SetLogger(logger)
		src.Homie = broker
		closers = append(closers, func() { broker.Close() }) //nolint:errcheck // Best effort disconnect
		logger.Info("inventory source connected", "source", SourceHomie, "broker", cfg.MQTT.Broker.Host)
	case errors.Is(err, mqtt.ErrDisabled):
	default:
		closeAll()
		return Sources{}, nil, err
	}

	return src, closeAll, nil
}
