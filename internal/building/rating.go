package building

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Rating is the coarse band a score falls into.
type Rating string

// Rating bands.
const (
	RatingLow    Rating = "low"
	RatingMedium Rating = "medium"
	RatingHigh   Rating = "high"
)

// Band thresholds: scores below 40 are low, 40-74 medium, 75 and up high.
const (
	mediumThreshold = 40
	highThreshold   = 75
)

// RatingFor returns the band for a 0-100 score.
func RatingFor(score int) Rating {
	switch {
	case score < mediumThreshold:
		return RatingLow
	case score < highThreshold:
		return RatingMedium
	default:
		return RatingHigh
	}
}

// ScoreStats summarises a user's building scores.
type ScoreStats struct {
	Count             int                `json:"count"`
	Mean              float64            `json:"mean"`
	Median            float64            `json:"median"`
	Min               float64            `json:"min"`
	Max               float64            `json:"max"`
	StandardDeviation float64            `json:"stdDev"`
	Bands             map[Rating]int     `json:"bands"`
	ByRegion          map[Region]float64 `json:"byRegion,omitempty"`
}

// ComputeStats summarises the scores of the given buildings.
//
// Returns:
//   - ScoreStats: count, central tendency, spread, band counts and mean score per region
//   - error: ErrNoScores when buildings is empty
func ComputeStats(buildings []SavedBuilding) (ScoreStats, error) {
	if len(buildings) == 0 {
		return ScoreStats{Bands: map[Rating]int{}}, ErrNoScores
	}

	scores := make(stats.Float64Data, 0, len(buildings))
	bands := map[Rating]int{RatingLow: 0, RatingMedium: 0, RatingHigh: 0}
	perRegion := make(map[Region]stats.Float64Data)
	for _, b := range buildings {
		score := b.AnalysisResult.SustainabilityScore
		scores = append(scores, float64(score))
		bands[RatingFor(score)]++
		if region := b.BuildingData.LocationRegion; region != "" {
			perRegion[region] = append(perRegion[region], float64(score))
		}
	}

	out := ScoreStats{Count: len(scores), Bands: bands}
	var err error
	if out.Mean, err = scores.Mean(); err != nil {
		return out, fmt.Errorf("computing mean: %w", err)
	}
	if out.Median, err = scores.Median(); err != nil {
		return out, fmt.Errorf("computing median: %w", err)
	}
	if out.Min, err = scores.Min(); err != nil {
		return out, fmt.Errorf("computing min: %w", err)
	}
	if out.Max, err = scores.Max(); err != nil {
		return out, fmt.Errorf("computing max: %w", err)
	}
	if out.StandardDeviation, err = scores.StandardDeviation(); err != nil {
		return out, fmt.Errorf("computing standard deviation: %w", err)
	}

	if len(perRegion) > 0 {
		out.ByRegion = make(map[Region]float64, len(perRegion))
		for region, data := range perRegion {
			mean, err := data.Mean()
			if err != nil {
				return out, fmt.Errorf("computing mean for %s: %w", region, err)
			}
			out.ByRegion[region] = mean
		}
	}

	return out, nil
}
