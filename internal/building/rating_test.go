package building

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingFor(t *testing.T) {
	tests := []struct {
		score int
		want  Rating
	}{
		{0, RatingLow},
		{39, RatingLow},
		{40, RatingMedium},
		{72, RatingMedium},
		{74, RatingMedium},
		{75, RatingHigh},
		{100, RatingHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RatingFor(tt.score), "score %d", tt.score)
	}
}

func TestComputeStats(t *testing.T) {
	mk := func(score int, region Region) SavedBuilding {
		d := sampleData()
		d.LocationRegion = region
		return SavedBuilding{BuildingData: d, AnalysisResult: AnalysisResult{SustainabilityScore: score}}
	}

	got, err := ComputeStats([]SavedBuilding{
		mk(20, RegionEast),
		mk(60, RegionEast),
		mk(80, RegionWest),
		mk(100, ""),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, got.Count)
	assert.InDelta(t, 65.0, got.Mean, 1e-9)
	assert.InDelta(t, 70.0, got.Median, 1e-9)
	assert.InDelta(t, 20.0, got.Min, 1e-9)
	assert.InDelta(t, 100.0, got.Max, 1e-9)
	assert.Greater(t, got.StandardDeviation, 0.0)
	assert.Equal(t, map[Rating]int{RatingLow: 1, RatingMedium: 1, RatingHigh: 2}, got.Bands)
	assert.InDelta(t, 40.0, got.ByRegion[RegionEast], 1e-9)
	assert.InDelta(t, 80.0, got.ByRegion[RegionWest], 1e-9)
	assert.Len(t, got.ByRegion, 2)
}

func TestComputeStats_Empty(t *testing.T) {
	got, err := ComputeStats(nil)
	assert.ErrorIs(t, err, ErrNoScores)
	assert.Zero(t, got.Count)
}
