// Package events fans building lifecycle events out to the optional sinks:
// the MQTT broker, the InfluxDB score measurement and connected WebSocket
// clients.
//
// Sinks are best effort. A failing sink is logged and never fails the
// request that produced the event.
package events
