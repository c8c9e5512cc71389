package grafana

import (
	"github.com/nerrad567/sensorgen/internal/jsondoc"
	"github.com/nerrad567/sensorgen/internal/sensor"
)

// Addition records one target appended to a panel.
type Addition struct {
	Panel    int
	DeviceID string
	Kind     string
	Name     string
}

// seriesKey identifies a device's series of one reading kind.
type seriesKey struct {
	deviceID string
	kind     string
}

// Mutate appends missing sensor targets to single-reading panels.
//
// The dashboard is changed in place. Existing targets are never removed or
// reordered, and a dashboard without a "panels" array is returned unchanged.
//
// Parameters:
//   - dash: The dashboard document
//   - prefix: Measurement prefix, e.g. "MijiaBridge"
//   - devices: Devices to make sure are plotted
//
// Returns:
//   - []Addition: One entry per appended target, in append order
func Mutate(dash *jsondoc.Object, prefix string, devices sensor.Mapping) []Addition {
	panels, ok := dash.Array("panels")
	if !ok {
		return nil
	}

	panelKinds := make([]map[string]bool, len(panels))
	seen := make(map[seriesKey]bool)

	for i, p := range panels {
		panelKinds[i] = make(map[string]bool)
		panel, ok := p.(*jsondoc.Object)
		if !ok {
			continue
		}
		targets, _ := panel.Array("targets")
		for _, t := range targets {
			m, ok := targetMeasurement(t, prefix)
			if !ok {
				continue
			}
			panelKinds[i][m.Kind] = true
			seen[seriesKey{m.DeviceID, m.Kind}] = true
		}
	}

	var additions []Addition
	for i, p := range panels {
		if len(panelKinds[i]) != 1 {
			continue
		}
		panel := p.(*jsondoc.Object)

		var kind string
		for k := range panelKinds[i] {
			kind = k
		}

		targets, _ := panel.Array("targets")
		before := len(targets)
		for _, d := range devices {
			if seen[seriesKey{d.ID, kind}] {
				continue
			}
			m := Measurement{Prefix: prefix, DeviceID: d.ID, Kind: kind}
			targets = append(targets, NewTarget(m, d.Name))
			additions = append(additions, Addition{Panel: i, DeviceID: d.ID, Kind: kind, Name: d.Name})
		}
		if len(targets) > before {
			panel.Set("targets", targets)
		}
	}

	return additions
}

// targetMeasurement extracts the bridge measurement from a target, if any.
func targetMeasurement(t any, prefix string) (Measurement, bool) {
	target, ok := t.(*jsondoc.Object)
	if !ok {
		return Measurement{}, false
	}
	name, ok := target.String("measurement")
	if !ok {
		return Measurement{}, false
	}
	return ParseMeasurement(prefix, name)
}

// NewTarget builds the InfluxQL target plotting the mean of m per
// $__interval, with gaps left unfilled and the series aliased to alias.
func NewTarget(m Measurement, alias string) *jsondoc.Object {
	return jsondoc.NewObject().
		With("alias", alias).
		With("groupBy", []any{
			jsondoc.NewObject().With("params", jsondoc.Strings("$__interval")).With("type", "time"),
			jsondoc.NewObject().With("params", jsondoc.Strings("none")).With("type", "fill"),
		}).
		With("measurement", m.String()).
		With("orderByTime", "ASC").
		With("policy", "default").
		With("resultFormat", "time_series").
		With("select", []any{
			[]any{
				jsondoc.NewObject().With("params", jsondoc.Strings("value")).With("type", "field"),
				jsondoc.NewObject().With("params", []any{}).With("type", "mean"),
			},
		}).
		With("tags", []any{})
}
