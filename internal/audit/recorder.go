package audit

import (
	"context"

	"github.com/nerrad567/ecobuild-core/internal/events"
)

// EntityBuilding is the entity type of every building entry.
const EntityBuilding = "building"

// Recorder is an events.Publisher that writes each building event to the
// audit trail.
type Recorder struct {
	repo   Repository
	source string
}

// NewRecorder creates a recorder over repo. A nil repository yields a nil
// publisher, which events.Multi.Add ignores.
func NewRecorder(repo Repository, source string) events.Publisher {
	if repo == nil {
		return nil
	}
	if source == "" {
		source = "api"
	}
	return &Recorder{repo: repo, source: source}
}

// Publish stores ev as an entry.
func (r *Recorder) Publish(ctx context.Context, ev events.Event) error {
	details := map[string]any{"score": ev.Score}
	if ev.Region != "" {
		details["region"] = ev.Region
	}
	if ev.HousingType != "" {
		details["housingType"] = ev.HousingType
	}

	return r.repo.Create(ctx, &Entry{
		Action:     ev.Type.Action(),
		EntityType: EntityBuilding,
		EntityID:   ev.BuildingID,
		UserID:     ev.UserID,
		Source:     r.source,
		Details:    details,
		CreatedAt:  ev.Timestamp,
	})
}
