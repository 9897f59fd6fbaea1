package results

import (
	"context"

	"github.com/google/uuid"

	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/logging"
	"github.com/nerrad567/ecobuild-core/internal/session"
)

// SaveFailedMessage is reported when the store could not be reached. The
// analysis itself is still shown.
const SaveFailedMessage = "Failed to save building. Your analysis is shown but was not stored."

// Store persists analysed buildings on behalf of a signed-in user.
type Store interface {
	SaveBuildingAnalysis(ctx context.Context, s session.Session, data building.BuildingData, result building.AnalysisResult) (*building.SavedBuilding, error)
	UpdateBuilding(ctx context.Context, s session.Session, id string, data building.BuildingData, result building.AnalysisResult) (*building.SavedBuilding, error)
}

// Outcome reports what happened to a persistence attempt.
type Outcome struct {
	// ID is the stored building's ID, or a local placeholder when degraded.
	ID string `json:"id,omitempty"`

	// Persisted is true when the store accepted the record.
	Persisted bool `json:"persisted"`

	// Skipped is true when there was no session to save under.
	Skipped bool `json:"skipped,omitempty"`

	// Degraded is true when the store failed and a placeholder ID was used.
	Degraded bool   `json:"degraded,omitempty"`
	Message  string `json:"message,omitempty"`

	Building *building.SavedBuilding `json:"building,omitempty"`
}

// Persister saves analysis results, falling back to a placeholder ID when
// the store is unavailable so the result can still be displayed.
type Persister struct {
	store  Store
	logger *logging.Logger
	newID  func() string
}

// NewPersister creates a Persister over store.
func NewPersister(store Store, logger *logging.Logger) *Persister {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Persister{
		store:  store,
		logger: logger.With("component", "results"),
		newID:  PlaceholderID,
	}
}

// PlaceholderID returns a locally generated ID for a result that was not stored.
func PlaceholderID() string {
	return "local-" + uuid.NewString()
}

// Save stores a new analysis for the session's user. A nil session skips
// persistence.
func (p *Persister) Save(ctx context.Context, s *session.Session, data building.BuildingData, result building.AnalysisResult) Outcome {
	if s == nil {
		return Outcome{Skipped: true}
	}

	saved, err := p.store.SaveBuildingAnalysis(ctx, *s, data, result)
	if err != nil {
		return p.degrade("save", s, err)
	}
	return Outcome{ID: saved.ID, Persisted: true, Building: saved}
}

// Update replaces a stored analysis in the edit flow. A nil session skips
// persistence.
func (p *Persister) Update(ctx context.Context, s *session.Session, id string, data building.BuildingData, result building.AnalysisResult) Outcome {
	if s == nil {
		return Outcome{Skipped: true}
	}

	saved, err := p.store.UpdateBuilding(ctx, *s, id, data, result)
	if err != nil {
		return p.degrade("update", s, err)
	}
	return Outcome{ID: saved.ID, Persisted: true, Building: saved}
}

func (p *Persister) degrade(op string, s *session.Session, err error) Outcome {
	id := p.newID()
	p.logger.Warn("building persistence failed, continuing with placeholder",
		"op", op,
		"user_id", s.UserID,
		"placeholder_id", id,
		"error", err,
	)
	return Outcome{ID: id, Degraded: true, Message: SaveFailedMessage}
}
