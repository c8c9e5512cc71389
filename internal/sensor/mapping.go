package sensor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Device is one named sensor.
type Device struct {
	// ID is the hardware address with colons removed.
	ID string

	// Name is the free-text display name.
	Name string
}

// Mapping is the ordered list of named sensors.
type Mapping []Device

// NormalizeID strips colons and surrounding whitespace from a hardware address.
func NormalizeID(addr string) string {
	return strings.ReplaceAll(strings.TrimSpace(addr), ":", "")
}

// Lookup returns the name for id.
func (m Mapping) Lookup(id string) (string, bool) {
	for _, d := range m {
		if d.ID == id {
			return d.Name, true
		}
	}
	return "", false
}

// IDs returns the device identifiers in mapping order.
func (m Mapping) IDs() []string {
	ids := make([]string, 0, len(m))
	for _, d := range m {
		ids = append(ids, d.ID)
	}
	return ids
}

// Parse reads a mapping from r.
//
// Parameters:
//   - r: Mapping text, one identifier=name pair per line
//
// Returns:
//   - Mapping: Devices in file order
//   - error: ErrMalformedMapping or ErrEmptyIdentifier (wrapped with the
//     line number), or the read error
func Parse(r io.Reader) (Mapping, error) {
	var m Mapping
	index := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedMapping, lineNo, line)
		}

		id := NormalizeID(parts[0])
		if id == "" {
			return nil, fmt.Errorf("%w: line %d", ErrEmptyIdentifier, lineNo)
		}
		name := strings.TrimSpace(parts[1])

		if i, ok := index[id]; ok {
			m[i].Name = name
			continue
		}
		index[id] = len(m)
		m = append(m, Device{ID: id, Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading mapping: %w", err)
	}

	return m, nil
}

// Load reads the mapping file at path.
func Load(path string) (Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mapping: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
