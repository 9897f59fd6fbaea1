package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementScore is the measurement every scored building is written to.
const MeasurementScore = "sustainability_score"

// ScorePoint is one recorded sustainability score.
//
// Region, HousingType, Event and UserID are tags (low cardinality, used for
// grouping in dashboards); Score and BuildingID are fields.
type ScorePoint struct {
	BuildingID  string
	UserID      string
	Region      string
	HousingType string
	Event       string
	Score       int
	Time        time.Time
}

// WriteScore queues a score for the next batch.
//
// The write is non-blocking and silently skipped while disconnected; failures
// surface through the SetOnError callback.
//
// Example:
//
//	client.WriteScore(influxdb.ScorePoint{
//	    BuildingID: "bld-1", Region: "East", Event: "saved", Score: 72,
//	})
func (c *Client) WriteScore(p ScorePoint) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(scorePoint(p))
}

// scorePoint converts p into a line protocol point. Empty tags are omitted
// and a zero time is replaced with now.
func scorePoint(p ScorePoint) *write.Point {
	tags := make(map[string]string, 4) //nolint:mnd // four tag keys
	for key, value := range map[string]string{
		"region":       p.Region,
		"housing_type": p.HousingType,
		"event":        p.Event,
		"user_id":      p.UserID,
	} {
		if value != "" {
			tags[key] = value
		}
	}

	ts := p.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	return write.NewPoint(
		MeasurementScore,
		tags,
		map[string]interface{}{
			"score":       p.Score,
			"building_id": p.BuildingID,
		},
		ts,
	)
}
