package api

import (
	"context"
	"fmt"

	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/events"
	"github.com/nerrad567/ecobuild-core/internal/session"
)

// buildingService applies ownership rules on top of the repository and
// publishes an event for every change. It is the results.Store the wizard
// persists through, so HTTP CRUD and wizard submissions behave the same.
type buildingService struct {
	repo   building.Repository
	events events.Publisher
}

func newBuildingService(repo building.Repository, pub events.Publisher) *buildingService {
	return &buildingService{repo: repo, events: pub}
}

// SaveBuildingAnalysis creates a building owned by the session's user.
func (b *buildingService) SaveBuildingAnalysis(ctx context.Context, s session.Session, data building.BuildingData, result building.AnalysisResult) (*building.SavedBuilding, error) {
	saved := &building.SavedBuilding{
		UserID:         s.UserID,
		BuildingData:   data.Clone(),
		AnalysisResult: result,
	}
	if err := b.repo.Create(ctx, saved); err != nil {
		return nil, fmt.Errorf("saving building: %w", err)
	}
	b.publish(ctx, events.TypeBuildingSaved, saved)
	return saved, nil
}

// UpdateBuilding replaces the data and analysis of a building the session's
// user owns. Buildings of other users are reported as not found.
func (b *buildingService) UpdateBuilding(ctx context.Context, s session.Session, id string, data building.BuildingData, result building.AnalysisResult) (*building.SavedBuilding, error) {
	existing, err := b.get(ctx, s.UserID, id)
	if err != nil {
		return nil, err
	}
	existing.BuildingData = data.Clone()
	existing.AnalysisResult = result
	if err := b.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("updating building: %w", err)
	}
	b.publish(ctx, events.TypeBuildingUpdated, existing)
	return existing, nil
}

// get returns building id if userID owns it.
func (b *buildingService) get(ctx context.Context, userID, id string) (*building.SavedBuilding, error) {
	saved, err := b.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if saved.UserID != userID {
		return nil, building.ErrBuildingNotFound
	}
	return saved, nil
}

func (b *buildingService) list(ctx context.Context, userID string) ([]building.SavedBuilding, error) {
	return b.repo.ListByUser(ctx, userID)
}

// delete removes building id if userID owns it.
func (b *buildingService) delete(ctx context.Context, userID, id string) error {
	existing, err := b.get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := b.repo.Delete(ctx, id); err != nil {
		return err
	}
	b.publish(ctx, events.TypeBuildingDeleted, existing)
	return nil
}

func (b *buildingService) publish(ctx context.Context, t events.Type, saved *building.SavedBuilding) {
	if b.events == nil {
		return
	}
	//nolint:errcheck // sinks log their own failures
	b.events.Publish(context.WithoutCancel(ctx), events.FromBuilding(t, saved))
}
