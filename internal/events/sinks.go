package events

import (
	"context"

	"github.com/nerrad567/ecobuild-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/mqtt"
)

// JSONPublisher is the part of the MQTT client the sink needs.
type JSONPublisher interface {
	PublishJSON(topic string, v any) error
}

// MQTTSink publishes events to ecobuild/core/building/{id}/{action}.
type MQTTSink struct {
	pub JSONPublisher
}

// NewMQTTSink wraps an MQTT client. A nil client yields a nil sink, which
// Multi.Add ignores.
func NewMQTTSink(pub JSONPublisher) Publisher {
	if pub == nil {
		return nil
	}
	return &MQTTSink{pub: pub}
}

// Publish sends ev as JSON.
func (s *MQTTSink) Publish(_ context.Context, ev Event) error {
	return s.pub.PublishJSON(mqtt.Topics{}.BuildingEvent(ev.BuildingID, ev.Type.Action()), ev)
}

// ScoreWriter is the part of the InfluxDB client the sink needs.
type ScoreWriter interface {
	WriteScore(p influxdb.ScorePoint)
}

// InfluxSink records each event's score as a sustainability_score point.
type InfluxSink struct {
	w ScoreWriter
}

// NewInfluxSink wraps an InfluxDB client. A nil client yields a nil sink.
func NewInfluxSink(w ScoreWriter) Publisher {
	if w == nil {
		return nil
	}
	return &InfluxSink{w: w}
}

// Publish queues the score point. Write failures are asynchronous and
// reported through the client's error callback.
func (s *InfluxSink) Publish(_ context.Context, ev Event) error {
	s.w.WriteScore(influxdb.ScorePoint{
		BuildingID:  ev.BuildingID,
		UserID:      ev.UserID,
		Region:      ev.Region,
		HousingType: ev.HousingType,
		Event:       ev.Type.Action(),
		Score:       ev.Score,
		Time:        ev.Timestamp,
	})
	return nil
}
