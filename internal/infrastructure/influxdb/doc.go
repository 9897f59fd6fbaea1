// Package influxdb records building sustainability scores in InfluxDB.
//
// Every saved, updated or deleted building becomes one point in the
// sustainability_score measurement, tagged by region, housing type, event
// and owner. Dashboards use it to chart how scores move over time.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // score metrics are optional
//	}
//	defer client.Close()
//
//	client.WriteScore(influxdb.ScorePoint{BuildingID: id, Score: 72, Event: "saved"})
//
// # Error Handling
//
// Writes are batched and non-blocking. Batch failures are delivered to the
// callback registered with SetOnError. Connection and health check errors
// are returned directly.
package influxdb
