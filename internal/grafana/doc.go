// Package grafana adds sensor series to an InfluxDB-backed Grafana dashboard.
//
// Each bridge series is an InfluxQL target whose measurement is named
// "<prefix>_<deviceID>_<reading>", for example
// "MijiaBridge_A4C138001122_Temperature". A panel that plots exactly one
// kind of reading is extended with a target for every mapped device that has
// no series of that reading anywhere on the dashboard. Panels that mix
// readings, or plot none, are left alone.
package grafana
