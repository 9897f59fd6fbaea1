// Package mqtt publishes EcoBuild building events to an MQTT broker.
//
// This package manages:
//   - Connection to a broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Topics
//
//	ecobuild/core/system/status                 retained online/offline status
//	ecobuild/core/building/{id}/{event}         saved, updated, deleted
//
// The server never subscribes; other systems (dashboards, archivers) consume
// the building topics.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.BuildingEvent("bld-123", "saved")
//	err = client.PublishJSON(topic, evt)
package mqtt
