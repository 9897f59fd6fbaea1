package analysis

import (
	"fmt"
	"strings"

	"github.com/nerrad567/ecobuild-core/internal/building"
)

const sustainabilityTemplate = `Act as an expert in sustainable architecture and green building design (LEED certified professional).
Analyze the following building proposal for its environmental sustainability.

Building Details:
- Project Name: %s
- Location Region: %s
- Housing Type: %s
- Number of Floors: %s
- Rooms: %d to %d
- Elevators: %d
- Space per Room (sq ft): %s
- Architectural Style: %s
- Primary Material: %s
- Waste Reduction Measures: %s
- Energy Efficiency Measures: %s
- Thermal Mass: %s
- Building Orientation: %s
- Envelope U-Value (W/m²K): %g
- Water Fixtures: %s
- Additional Features/Notes: %s

Based on these details, perform the following tasks:
1. Generate a sustainability score from 0 to 100. A score of 0 indicates a building with no sustainable features, while 100 represents a carbon-neutral, fully regenerative building.
2. Provide a brief, insightful summary (2-3 sentences) of the building's current sustainability profile.
3. Provide specific, actionable suggestions for improvement, grouped under the keys 'Energy Efficiency', 'Water Conservation', 'Sustainable Materials' and 'Site & Waste Management'. Provide at least 2 recommendations per category.

Your entire response MUST be a single, valid JSON object with the keys "sustainabilityScore", "summary" and "recommendations" that adheres to the provided schema. Do not include any text, explanation, or markdown formatting before or after the JSON object.`

const locationTemplate = `Act as an expert in sustainable architecture and regional planning.
Describe the %s region for someone planning a new building there.

Provide:
1. "weatherSummary": a short description of the typical climate and weather.
2. "sustainabilityMeasures": a list of sustainability measures that suit this climate.
3. "transportationNotes": notes on public transport and access.

Your entire response MUST be a single, valid JSON object that adheres to the provided schema. Do not include any text or markdown formatting before or after the JSON object.`

const chatTemplate = `You are a helpful assistant specialising in sustainable architecture and green building design.
Answer the following question concisely. Markdown formatting is allowed.

Question: %s`

// SustainabilityPrompt renders the scoring prompt for data. Every field of
// the description is included; unset values read "Not specified".
func SustainabilityPrompt(data building.BuildingData) string {
	thermal := "No"
	if data.ResourceEfficiency.ThermalMass {
		thermal = "Yes"
	}
	return fmt.Sprintf(sustainabilityTemplate,
		orUnspecified(data.ProjectName),
		orUnspecified(string(data.LocationRegion)),
		orUnspecified(string(data.HousingType)),
		orUnspecified(string(data.Floors)),
		data.RoomsMin, data.RoomsMax,
		data.Elevators,
		orUnspecified(string(data.SpacePerRoom)),
		orUnspecified(string(data.ArchitecturalStyle)),
		orUnspecified(string(data.MaterialType)),
		joinOrNone(data.WasteReduction),
		joinOrNone(data.EnergyEfficiency),
		thermal,
		orUnspecified(data.ResourceEfficiency.BuildingOrientation),
		data.ResourceEfficiency.EnvelopeUValue,
		orUnspecified(string(data.WaterFixtures)),
		orUnspecified(data.AdditionalFeatures),
	)
}

// LocationPrompt renders the location prompt for region.
func LocationPrompt(region building.Region) string {
	return fmt.Sprintf(locationTemplate, region)
}

// ChatPrompt renders a free-form question.
func ChatPrompt(question string) string {
	return fmt.Sprintf(chatTemplate, question)
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}

func joinOrNone[T ~string](items []T) string {
	if len(items) == 0 {
		return "None"
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(it)
	}
	return strings.Join(parts, ", ")
}
