package building

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "usr-1")
	repo := NewSQLiteRepository(db.DB)
	ctx := context.Background()

	b := &SavedBuilding{UserID: "usr-1", BuildingData: sampleData(), AnalysisResult: sampleResult(72)}
	require.NoError(t, repo.Create(ctx, b))
	assert.NotEmpty(t, b.ID)
	assert.False(t, b.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", got.UserID)
	assert.Equal(t, sampleData(), got.BuildingData)
	assert.Equal(t, 72, got.AnalysisResult.SustainabilityScore)
	assert.Len(t, got.AnalysisResult.Recommendations, 4)
	assert.True(t, got.CreatedAt.Equal(b.CreatedAt))
}

func TestSQLiteRepository_CreateUnknownOwner(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t).DB)

	err := repo.Create(context.Background(), &SavedBuilding{UserID: "usr-missing", BuildingData: sampleData()})
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

func TestSQLiteRepository_GetMissing(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t).DB)

	_, err := repo.GetByID(context.Background(), "bld-nope")
	assert.ErrorIs(t, err, ErrBuildingNotFound)
}

func TestSQLiteRepository_ListByUser(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "usr-1")
	seedUser(t, db, "usr-2")
	repo := NewSQLiteRepository(db.DB)
	ctx := context.Background()

	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	first := &SavedBuilding{UserID: "usr-1", BuildingData: sampleData(), AnalysisResult: sampleResult(40)}
	second := &SavedBuilding{UserID: "usr-1", BuildingData: sampleData(), AnalysisResult: sampleResult(80)}
	other := &SavedBuilding{UserID: "usr-2", BuildingData: sampleData(), AnalysisResult: sampleResult(10)}
	for _, b := range []*SavedBuilding{first, second, other} {
		require.NoError(t, repo.Create(ctx, b))
	}

	list, err := repo.ListByUser(ctx, "usr-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)

	empty, err := repo.ListByUser(ctx, "usr-3")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSQLiteRepository_UpdateReplacesDocuments(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "usr-1")
	repo := NewSQLiteRepository(db.DB)
	ctx := context.Background()

	b := &SavedBuilding{UserID: "usr-1", BuildingData: sampleData(), AnalysisResult: sampleResult(50)}
	require.NoError(t, repo.Create(ctx, b))
	created := b.CreatedAt

	edited := sampleData()
	edited.WaterFixtures = WaterRainwaterHarvesting
	edited.EnergyEfficiency = nil
	b.BuildingData = edited
	b.AnalysisResult = AnalysisResult{SustainabilityScore: 88, Summary: "Much better."}
	require.NoError(t, repo.Update(ctx, b))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, WaterRainwaterHarvesting, got.BuildingData.WaterFixtures)
	assert.Empty(t, got.BuildingData.EnergyEfficiency)
	assert.Equal(t, 88, got.AnalysisResult.SustainabilityScore)
	assert.Equal(t, []string{}, got.AnalysisResult.Recommendations[CategoryWater])
	assert.True(t, got.CreatedAt.Equal(created))
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	missing := &SavedBuilding{ID: "bld-nope", BuildingData: sampleData()}
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrBuildingNotFound)
}

func TestSQLiteRepository_Delete(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "usr-1")
	repo := NewSQLiteRepository(db.DB)
	ctx := context.Background()

	b := &SavedBuilding{UserID: "usr-1", BuildingData: sampleData(), AnalysisResult: sampleResult(60)}
	require.NoError(t, repo.Create(ctx, b))

	require.NoError(t, repo.Delete(ctx, b.ID))
	_, err := repo.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBuildingNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), ErrBuildingNotFound)
}
