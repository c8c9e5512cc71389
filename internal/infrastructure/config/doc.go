// Package config builds the sensorgen configuration.
//
// This package manages:
//   - Default values for the BLE bridge naming scheme
//   - An optional YAML file (SENSORGEN_CONFIG or --config)
//   - Environment variables, which always win over the file
//   - Validation, including the usage error for a missing mapping file
//
// The environment is the primary surface. The original variables are kept:
//
//	NAMES_INPUT               device mapping file (required)
//	GRAFANA_INPUT/OUTPUT      dashboard JSON in/out
//	SMARTHOME_JSONDB_INPUT    openHAB jsondb input directory
//	SMARTHOME_JSONDB_OUTPUT   openHAB jsondb output directory (created if missing)
//
// Usage:
//
//	cfg, err := config.Load(os.Getenv(config.EnvConfigFile))
//	if errors.Is(err, config.ErrUsage) {
//	    fmt.Fprintln(os.Stderr, config.Usage)
//	    os.Exit(2)
//	}
package config
