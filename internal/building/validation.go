package building

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Validation limits.
const (
	MinRooms     = 1
	MaxRooms     = 10000
	MaxElevators = 200

	// MaxEnvelopeUValue is an upper bound in W/m²K; real envelopes sit well below it.
	MaxEnvelopeUValue = 10.0

	MinScore = 0
	MaxScore = 100

	maxProjectNameLength = 200
	maxOrientationLength = 100
	maxFeaturesLength    = 4000
)

// Validate checks that every set field holds a catalogue value and that the
// numeric fields are in range. Empty single-choice fields are accepted.
//
// Returns:
//   - error: wraps ErrInvalidBuilding listing every problem, or nil
func (d BuildingData) Validate() error {
	var problems []string

	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(utf8.RuneCountInString(d.ProjectName) <= maxProjectNameLength,
		"projectName exceeds %d characters", maxProjectNameLength)
	check(d.LocationRegion == "" || d.LocationRegion.IsValid(),
		"locationRegion %q is not a known region", d.LocationRegion)
	check(d.HousingType == "" || d.HousingType.IsValid(),
		"housingType %q is not a known housing type", d.HousingType)
	check(d.Floors == "" || d.Floors.IsValid(), "floors %q is not a known range", d.Floors)
	check(d.RoomsMin >= MinRooms && d.RoomsMin <= MaxRooms,
		"roomsMin must be between %d and %d", MinRooms, MaxRooms)
	check(d.RoomsMax >= d.RoomsMin && d.RoomsMax <= MaxRooms,
		"roomsMax must be between roomsMin and %d", MaxRooms)
	check(d.Elevators >= 0 && d.Elevators <= MaxElevators,
		"elevators must be between 0 and %d", MaxElevators)
	check(d.SpacePerRoom == "" || d.SpacePerRoom.IsValid(),
		"spacePerRoom %q is not a known bucket", d.SpacePerRoom)
	check(d.ArchitecturalStyle == "" || d.ArchitecturalStyle.IsValid(),
		"architecturalStyle %q is not a known style", d.ArchitecturalStyle)
	check(d.MaterialType == "" || d.MaterialType.IsValid(),
		"materialType %q is not a known material", d.MaterialType)
	check(d.WaterFixtures == "" || d.WaterFixtures.IsValid(),
		"waterFixtures %q is not a known fixture class", d.WaterFixtures)

	seenWaste := make(map[WasteOption]bool, len(d.WasteReduction))
	for _, w := range d.WasteReduction {
		check(w.IsValid(), "wasteReduction option %q is not known", w)
		check(!seenWaste[w], "wasteReduction option %q is repeated", w)
		seenWaste[w] = true
	}
	seenEnergy := make(map[EnergyOption]bool, len(d.EnergyEfficiency))
	for _, e := range d.EnergyEfficiency {
		check(e.IsValid(), "energyEfficiency option %q is not known", e)
		check(!seenEnergy[e], "energyEfficiency option %q is repeated", e)
		seenEnergy[e] = true
	}

	u := d.ResourceEfficiency.EnvelopeUValue
	check(!math.IsNaN(u) && !math.IsInf(u, 0) && u >= 0 && u <= MaxEnvelopeUValue,
		"resourceEfficiency.envelopeUValue must be a number between 0 and %g", MaxEnvelopeUValue)
	check(utf8.RuneCountInString(d.ResourceEfficiency.BuildingOrientation) <= maxOrientationLength,
		"resourceEfficiency.buildingOrientation exceeds %d characters", maxOrientationLength)
	check(utf8.RuneCountInString(d.AdditionalFeatures) <= maxFeaturesLength,
		"additionalFeatures exceeds %d characters", maxFeaturesLength)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidBuilding, strings.Join(problems, "; "))
	}
	return nil
}

// Normalised returns a copy whose Recommendations holds exactly the four
// categories. Missing categories become empty lists, unknown keys are
// dropped and blank entries are removed.
func (r AnalysisResult) Normalised() AnalysisResult {
	out := AnalysisResult{
		SustainabilityScore: r.SustainabilityScore,
		Summary:             strings.TrimSpace(r.Summary),
		Recommendations:     make(map[Category][]string, len(AllCategories())),
	}
	for _, c := range AllCategories() {
		items := make([]string, 0, len(r.Recommendations[c]))
		for _, item := range r.Recommendations[c] {
			if s := strings.TrimSpace(item); s != "" {
				items = append(items, s)
			}
		}
		out.Recommendations[c] = items
	}
	return out
}

// Validate checks the score range and that a summary is present.
func (r AnalysisResult) Validate() error {
	if r.SustainabilityScore < MinScore || r.SustainabilityScore > MaxScore {
		return fmt.Errorf("%w: sustainabilityScore %d outside %d-%d",
			ErrInvalidAnalysis, r.SustainabilityScore, MinScore, MaxScore)
	}
	if strings.TrimSpace(r.Summary) == "" {
		return fmt.Errorf("%w: summary is empty", ErrInvalidAnalysis)
	}
	return nil
}
