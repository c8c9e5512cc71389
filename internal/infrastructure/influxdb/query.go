package influxdb

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// measurementsQuery builds the Flux query listing every measurement in bucket.
func measurementsQuery(bucket string) string {
	return fmt.Sprintf("import \"influxdata/influxdb/schema\"\n\nschema.measurements(bucket: %s)\n",
		strconv.Quote(bucket))
}

// Measurements lists the measurements in the configured bucket that start
// with prefix, sorted by name.
//
// Parameters:
//   - ctx: Context for cancellation; a 30 second timeout is applied
//   - prefix: Name prefix to keep ("" keeps all)
//
// Returns:
//   - []string: Matching measurement names
//   - error: ErrNotConnected, or ErrQueryFailed (wrapped) on query errors
func (c *Client) Measurements(ctx context.Context, prefix string) ([]string, error) {
	if c == nil || !c.IsConnected() {
		return nil, ErrNotConnected
	}

	queryCtx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	result, err := c.queryAPI.Query(queryCtx, measurementsQuery(c.cfg.Bucket))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer result.Close() //nolint:errcheck // Read-only result

	var names []string
	for result.Next() {
		name, ok := result.Record().Value().(string)
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		names = append(names, name)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	sort.Strings(names)
	return names, nil
}
