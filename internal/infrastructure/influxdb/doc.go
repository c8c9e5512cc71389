// Package influxdb provides read access to the InfluxDB v2 bucket the
// bridge writes sensor readings into.
//
// The inventory command uses it to list the bridge's measurements
// (MijiaBridge_<id>_<reading>) through the Flux schema package, which
// reveals sensors that are reporting but missing from the mapping file.
//
// Usage:
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	names, err := client.Measurements(ctx, "MijiaBridge_")
package influxdb
