package inventory

import (
	"sort"
	"strings"
	"sync"

	"github.com/nerrad567/sensorgen/internal/grafana"
	"github.com/nerrad567/sensorgen/internal/infrastructure/mqtt"
	"github.com/nerrad567/sensorgen/internal/sensor"
)

// Source names recorded on sightings.
const (
	SourceInfluxDB = "influxdb"
	SourceHomie    = "homie"
)

// Sighting is a sensor observed on a live source.
type Sighting struct {
	ID string

	// Name is the Homie node name, empty when only InfluxDB saw the sensor.
	Name string

	// Readings are the reading kinds found in InfluxDB, sorted.
	Readings []string

	// Sources lists where the sensor was seen, sorted.
	Sources []string
}

// MappingLine renders the sighting as an id=name mapping line.
// Sensors without a known name use their id as the name.
func (s Sighting) MappingLine() string {
	name := s.Name
	if name == "" {
		name = s.ID
	}
	return s.ID + "=" + name
}

// Report compares live sightings with the mapping.
type Report struct {
	// Unmapped are sensors seen live but absent from the mapping, by id.
	Unmapped []Sighting

	// Unseen are mapped devices no source reported, in mapping order.
	Unseen sensor.Mapping

	// Seen is the number of distinct sensors observed.
	Seen int
}

// Collector accumulates sightings. It is safe for concurrent use, so MQTT
// handlers running on paho goroutines can feed it directly.
type Collector struct {
	prefix string

	mu       sync.Mutex
	sighting map[string]*sightingState
}

type sightingState struct {
	name     string
	readings map[string]bool
	sources  map[string]bool
}

// NewCollector creates a Collector for measurements named with prefix.
func NewCollector(prefix string) *Collector {
	return &Collector{
		prefix:   prefix,
		sighting: make(map[string]*sightingState),
	}
}

// state returns the entry for id, creating it. Callers hold c.mu.
func (c *Collector) state(id string) *sightingState {
	s, ok := c.sighting[id]
	if !ok {
		s = &sightingState{readings: make(map[string]bool), sources: make(map[string]bool)}
		c.sighting[id] = s
	}
	return s
}

// AddMeasurement records an InfluxDB measurement name.
// Names that are not bridge measurements are ignored and reported false.
func (c *Collector) AddMeasurement(name string) bool {
	m, ok := grafana.ParseMeasurement(c.prefix, name)
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state(m.DeviceID)
	s.readings[m.Kind] = true
	s.sources[SourceInfluxDB] = true
	return true
}

// AddNodeName records a Homie node name for a sensor id.
// An empty name still marks the sensor as seen.
func (c *Collector) AddNodeName(id, name string) {
	id = sensor.NormalizeID(id)
	if id == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state(id)
	if name = strings.TrimSpace(name); name != "" {
		s.name = name
	}
	s.sources[SourceHomie] = true
}

// HomieHandler returns an MQTT handler feeding $name messages to c.
func (c *Collector) HomieHandler(topics mqtt.Topics) mqtt.MessageHandler {
	return func(topic string, payload []byte, _ bool) error {
		attr, ok := topics.ParseNodeAttribute(topic)
		if !ok || attr.Attribute != mqtt.AttrName {
			return nil
		}
		c.AddNodeName(attr.Node, string(payload))
		return nil
	}
}

// Report compares the sightings so far with devices.
func (c *Collector) Report(devices sensor.Mapping) Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := Report{Seen: len(c.sighting)}

	mapped := make(map[string]bool, len(devices))
	for _, d := range devices {
		mapped[d.ID] = true
		if _, ok := c.sighting[d.ID]; !ok {
			report.Unseen = append(report.Unseen, d)
		}
	}

	for id, s := range c.sighting {
		if mapped[id] {
			continue
		}
		report.Unmapped = append(report.Unmapped, Sighting{
			ID:       id,
			Name:     s.name,
			Readings: sortedKeys(s.readings),
			Sources:  sortedKeys(s.sources),
		})
	}
	sort.Slice(report.Unmapped, func(i, j int) bool {
		return report.Unmapped[i].ID < report.Unmapped[j].ID
	})

	return report
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
