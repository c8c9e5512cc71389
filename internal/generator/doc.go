// Package generator runs one sensorgen pass.
//
// A run loads the device mapping, then brings each configured target up to
// date:
//
//   - the Grafana dashboard, when both its input and output paths are set
//   - the openHAB JSON database (items, metadata, links, in that order),
//     when both its input and output directories are set
//
// Every inserted key is logged and, when a journal is attached, recorded.
// In dry-run mode nothing is written; a JSON merge patch per output is
// printed instead.
package generator
