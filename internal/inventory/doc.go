// Package inventory finds bridge sensors that are reporting but missing
// from the device mapping, and mapped sensors that never report.
//
// Two live sources are consulted, each optional:
//
//   - InfluxDB: measurement names in the bridge's bucket
//     (MijiaBridge_<id>_<reading>)
//   - MQTT: retained Homie node names (homie/<bridge>/<id>/$name)
//
// Unmapped sensors are reported as id=name lines that can be pasted into
// the mapping file; Homie supplies the name when it is known.
package inventory
