// Package jsondoc is an order-preserving JSON document model.
//
// Grafana dashboards and the openHAB JSON database are hand-edited and
// diffed by people, so a rewrite must keep every key where it was. Objects
// are held as *Object (keys in document order), arrays as []any, numbers as
// json.Number with their original spelling, and strings, booleans and null
// as their Go values.
//
// Documents are parsed with json-iterator's streaming Iterator and written
// with its Stream, then laid out with tidwall/pretty: two-space indentation,
// one member per line, a trailing newline, and no HTML escaping.
package jsondoc
