package generator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/nerrad567/sensorgen/internal/grafana"
	"github.com/nerrad567/sensorgen/internal/infrastructure/config"
	"github.com/nerrad567/sensorgen/internal/infrastructure/logging"
	"github.com/nerrad567/sensorgen/internal/journal"
	"github.com/nerrad567/sensorgen/internal/jsondb"
	"github.com/nerrad567/sensorgen/internal/jsondoc"
	"github.com/nerrad567/sensorgen/internal/sensor"
)

// StoreDashboard names the dashboard target in summaries and the journal.
const StoreDashboard = "dashboard"

// outputDirPermissions is the mode for a created JSON database directory.
const outputDirPermissions = 0755

// Recorder stores journal entries. *journal.SQLiteRepository satisfies it.
type Recorder interface {
	Create(ctx context.Context, e *journal.Entry) error
}

// Summary counts the keys a run inserted per store.
type Summary struct {
	RunID     string
	DryRun    bool
	Dashboard int
	Items     int
	Metadata  int
	Links     int
}

// Total is the number of inserted keys across all stores.
func (s *Summary) Total() int {
	return s.Dashboard + s.Items + s.Metadata + s.Links
}

// Generator applies the device mapping to the configured targets.
type Generator struct {
	cfg      *config.Config
	logger   *logging.Logger
	recorder Recorder
	patchOut io.Writer
}

// New creates a Generator.
//
// Parameters:
//   - cfg: Loaded configuration
//   - logger: Logger for per-addition lines
//   - recorder: Journal to record additions in, or nil
//   - patchOut: Destination for dry-run merge patches
func New(cfg *config.Config, logger *logging.Logger, recorder Recorder, patchOut io.Writer) *Generator {
	return &Generator{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		patchOut: patchOut,
	}
}

// Run performs one generation pass.
//
// Returns:
//   - *Summary: Per-store insert counts (partial when an error is returned)
//   - error: Mapping, I/O or conflict errors; a *jsondb.ConflictError leaves
//     the item store output unwritten
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: journal.NewRunID(), DryRun: g.cfg.DryRun}

	devices, err := sensor.Load(g.cfg.Names.Input)
	if err != nil {
		return summary, err
	}
	g.logger.Debug("mapping loaded", "path", g.cfg.Names.Input, "devices", len(devices))

	if g.cfg.GrafanaEnabled() {
		n, err := g.runDashboard(ctx, summary.RunID, devices)
		summary.Dashboard = n
		if err != nil {
			return summary, fmt.Errorf("dashboard: %w", err)
		}
	} else {
		g.logger.Info("dashboard target skipped", "reason", "input or output path not set")
	}

	if g.cfg.JSONDBEnabled() {
		if err := g.runJSONDB(ctx, summary, devices); err != nil {
			return summary, fmt.Errorf("jsondb: %w", err)
		}
	} else {
		g.logger.Info("jsondb target skipped", "reason", "input or output directory not set")
	}

	return summary, nil
}

// runDashboard loads, mutates and writes the dashboard.
func (g *Generator) runDashboard(ctx context.Context, runID string, devices sensor.Mapping) (int, error) {
	doc, raw, err := jsondoc.LoadFile(g.cfg.Grafana.Input)
	if err != nil {
		return 0, err
	}

	additions := grafana.Mutate(doc, g.cfg.Bridge.MeasurementPrefix, devices)
	for _, a := range additions {
		g.logger.Change("adding dashboard target",
			"device", a.DeviceID,
			"reading", a.Kind,
			"name", a.Name,
			"panel", a.Panel,
		)
	}

	if err := g.write(g.cfg.Grafana.Output, raw, doc); err != nil {
		return 0, err
	}

	entries := make([]journal.Entry, 0, len(additions))
	for _, a := range additions {
		m := grafana.Measurement{Prefix: g.cfg.Bridge.MeasurementPrefix, DeviceID: a.DeviceID, Kind: a.Kind}
		entries = append(entries, journal.Entry{
			Store:      StoreDashboard,
			Key:        fmt.Sprintf("panels[%d]/%s", a.Panel, m),
			DeviceID:   a.DeviceID,
			DeviceName: a.Name,
		})
	}
	if err := g.record(ctx, runID, entries); err != nil {
		return len(additions), err
	}

	return len(additions), nil
}

// store is one JSON database file and the mutator that fills it.
type store struct {
	name   string
	file   string
	mutate func(*jsondoc.Object, jsondb.Naming, sensor.Mapping) ([]jsondb.Addition, error)
}

var stores = []store{
	{name: jsondb.StoreItems, file: jsondb.ItemStoreFile, mutate: jsondb.MutateItems},
	{
		name: jsondb.StoreMetadata,
		file: jsondb.MetadataStoreFile,
		mutate: func(doc *jsondoc.Object, n jsondb.Naming, d sensor.Mapping) ([]jsondb.Addition, error) {
			return jsondb.MutateMetadata(doc, n, d), nil
		},
	},
	{
		name: jsondb.StoreLinks,
		file: jsondb.LinkStoreFile,
		mutate: func(doc *jsondoc.Object, n jsondb.Naming, d sensor.Mapping) ([]jsondb.Addition, error) {
			return jsondb.MutateLinks(doc, n, d), nil
		},
	},
}

// runJSONDB processes the three store files in order.
func (g *Generator) runJSONDB(ctx context.Context, summary *Summary, devices sensor.Mapping) error {
	if !g.cfg.DryRun {
		if _, err := os.Stat(g.cfg.JSONDB.Output); os.IsNotExist(err) {
			if err := os.MkdirAll(g.cfg.JSONDB.Output, outputDirPermissions); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			g.logger.Info("created jsondb output directory", "path", g.cfg.JSONDB.Output)
		}
	}

	naming := jsondb.Naming{
		Prefix:      g.cfg.Bridge.MeasurementPrefix,
		GatewayID:   g.cfg.Bridge.GatewayID,
		HomieDevice: g.cfg.Bridge.HomieDevice,
	}

	for _, s := range stores {
		n, err := g.runStore(ctx, summary.RunID, s, naming, devices)
		switch s.name {
		case jsondb.StoreItems:
			summary.Items = n
		case jsondb.StoreMetadata:
			summary.Metadata = n
		case jsondb.StoreLinks:
			summary.Links = n
		}
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// runStore loads, mutates and writes one store file.
func (g *Generator) runStore(ctx context.Context, runID string, s store, naming jsondb.Naming, devices sensor.Mapping) (int, error) {
	doc, raw, err := jsondoc.LoadFile(filepath.Join(g.cfg.JSONDB.Input, s.file))
	if err != nil {
		return 0, err
	}

	additions, err := s.mutate(doc, naming, devices)
	if err != nil {
		return 0, err
	}

	entries := make([]journal.Entry, 0, len(additions))
	for _, a := range additions {
		g.logger.Change("adding "+storeNoun(a.Store), "key", a.Key, "device", a.DeviceID, "name", a.Name)
		entries = append(entries, journal.Entry{
			Store:      a.Store,
			Key:        a.Key,
			DeviceID:   a.DeviceID,
			DeviceName: a.Name,
		})
	}

	if err := g.write(filepath.Join(g.cfg.JSONDB.Output, s.file), raw, doc); err != nil {
		return 0, err
	}
	if err := g.record(ctx, runID, entries); err != nil {
		return len(additions), err
	}
	return len(additions), nil
}

// storeNoun is the singular used in log messages.
func storeNoun(store string) string {
	switch store {
	case jsondb.StoreItems:
		return "item"
	case jsondb.StoreLinks:
		return "link"
	default:
		return store
	}
}

// write saves doc to path, or prints the merge patch from raw in dry-run mode.
func (g *Generator) write(path string, raw []byte, doc *jsondoc.Object) error {
	if !g.cfg.DryRun {
		return jsondoc.SaveFile(path, doc)
	}

	encoded, err := jsondoc.Encode(doc)
	if err != nil {
		return err
	}
	patch, err := jsonpatch.CreateMergePatch(raw, encoded)
	if err != nil {
		return fmt.Errorf("computing merge patch for %s: %w", path, err)
	}
	if _, err := fmt.Fprintf(g.patchOut, "%s: %s\n", path, patch); err != nil {
		return fmt.Errorf("writing merge patch: %w", err)
	}
	return nil
}

// record journals entries after their output was written.
func (g *Generator) record(ctx context.Context, runID string, entries []journal.Entry) error {
	if g.recorder == nil || g.cfg.DryRun {
		return nil
	}
	for i := range entries {
		entries[i].RunID = runID
		if err := g.recorder.Create(ctx, &entries[i]); err != nil {
			return fmt.Errorf("recording %s %q: %w", entries[i].Store, entries[i].Key, err)
		}
	}
	return nil
}
