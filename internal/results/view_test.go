package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/ecobuild-core/internal/building"
)

func TestSuccess_FourGroupsInFixedOrder(t *testing.T) {
	v := Success(building.AnalysisResult{
		SustainabilityScore: 72,
		Summary:             "  Good baseline.  ",
		Recommendations: map[building.Category][]string{
			building.CategorySiteWaste: {"Sort waste", "Compost"},
			building.CategoryEnergy:    {"Add solar", "Insulate"},
			building.CategoryWater:     {"Low-flow taps", "Harvest rain"},
			building.CategoryMaterials: {"Local timber", "Recycled steel"},
		},
	})

	assert.Equal(t, StateSuccess, v.State)
	assert.Equal(t, 72, v.Score)
	assert.Equal(t, building.RatingMedium, v.Rating)
	assert.Equal(t, "Good baseline.", v.Summary)
	require.Len(t, v.Groups, 4)
	for i, c := range building.AllCategories() {
		assert.Equal(t, c, v.Groups[i].Category)
		assert.Len(t, v.Groups[i].Items, 2)
	}
}

func TestSuccess_MissingCategoriesAreEmpty(t *testing.T) {
	v := Success(building.AnalysisResult{
		SustainabilityScore: 90,
		Summary:             "Excellent.",
		Recommendations: map[building.Category][]string{
			building.CategoryEnergy: {"Keep it up"},
		},
	})

	require.Len(t, v.Groups, 4)
	assert.Equal(t, []string{"Keep it up"}, v.Groups[0].Items)
	for _, g := range v.Groups[1:] {
		assert.NotNil(t, g.Items)
		assert.Empty(t, g.Items)
	}
	assert.Equal(t, building.RatingHigh, v.Rating)
}

func TestStates(t *testing.T) {
	assert.Equal(t, StateIdle, Idle().State)

	l := Loading()
	assert.Equal(t, StateLoading, l.State)
	assert.Equal(t, LoadingMessage, l.Message)

	f := Failed("Failed to get sustainability analysis. Please check your API key and try again.")
	assert.Equal(t, StateError, f.State)
	assert.Equal(t, "Failed to get sustainability analysis. Please check your API key and try again.", f.Message)
	assert.Empty(t, f.Groups)
}
