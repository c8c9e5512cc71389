// Package jsondb adds bridge sensors to the openHAB (Eclipse SmartHome)
// JSON database.
//
// The database is a directory of flat JSON objects keyed by entity name.
// Three stores are touched, each by its own mutator:
//
//   - items:    a Group item per sensor plus Number items for temperature,
//     humidity and battery level
//   - metadata: Google Assistant ("ga") thermostat markers
//   - links:    item to Homie MQTT channel links
//
// Mutators only insert missing keys. The item mutator also checks that an
// existing channel item matches what it would have written and fails with a
// *ConflictError otherwise; metadata and links are insert-only.
package jsondb
