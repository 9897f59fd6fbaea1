package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/ecobuild-core/internal/building"
)

type stubGenerator struct {
	text    string
	err     error
	prompts []string
	schemas []*Schema
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, schema *Schema) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.schemas = append(s.schemas, schema)
	return s.text, s.err
}

const fullResult = `{
  "sustainabilityScore": 72,
  "summary": "Solid baseline with room to improve.",
  "recommendations": {
    "Energy Efficiency": ["a", "b"],
    "Water Conservation": ["c", "d"],
    "Sustainable Materials": ["e", "f"],
    "Site & Waste Management": ["g", "h"]
  }
}`

func sampleData() building.BuildingData {
	return building.BuildingData{
		ProjectName:        "Harbour View",
		LocationRegion:     building.RegionEast,
		HousingType:        building.HousingStudioApartment,
		Floors:             building.Floors6To10,
		RoomsMin:           1,
		RoomsMax:           6,
		Elevators:          2,
		SpacePerRoom:       building.Space300To500,
		ArchitecturalStyle: building.StyleModern,
		MaterialType:       building.MaterialCrossLaminate,
		EnergyEfficiency:   []building.EnergyOption{building.EnergySolarPanels, building.EnergyHeatPumps},
		ResourceEfficiency: building.ResourceEfficiency{ThermalMass: true, BuildingOrientation: "South-facing", EnvelopeUValue: 0.25},
		WaterFixtures:      building.WaterLowFlow,
		AdditionalFeatures: "Bike storage",
	}
}

func TestAnalyzeSustainability_Success(t *testing.T) {
	gen := &stubGenerator{text: fullResult}
	svc := NewService(gen, nil)

	got, err := svc.AnalyzeSustainability(context.Background(), sampleData())
	require.NoError(t, err)

	assert.Equal(t, 72, got.SustainabilityScore)
	assert.Len(t, got.Recommendations, 4)
	for _, c := range building.AllCategories() {
		assert.Len(t, got.Recommendations[c], 2, "category %s", c)
	}

	require.Len(t, gen.prompts, 1, "exactly one request")
	prompt := gen.prompts[0]
	for _, want := range []string{
		"LEED", "Harbour View", "East", "Studio Apartment", "6-10", "Rooms: 1 to 6",
		"Elevators: 2", "300-500", "Cross-Laminated Timber", "Solar Panels, Heat Pumps",
		"Thermal Mass: Yes", "South-facing", "0.25", "Low-Flow", "Bike storage",
		"Waste Reduction Measures: None", "0 to 100",
	} {
		assert.Contains(t, prompt, want)
	}
	assert.Equal(t, SustainabilitySchema(), gen.schemas[0])
}

func TestAnalyzeSustainability_FailuresCollapse(t *testing.T) {
	tests := []struct {
		name string
		gen  *stubGenerator
	}{
		{"transport", &stubGenerator{err: errors.New("connection refused")}},
		{"free text", &stubGenerator{text: "I think this building is great!"}},
		{"array", &stubGenerator{text: `[1,2,3]`}},
		{"missing summary", &stubGenerator{text: `{"sustainabilityScore": 50, "recommendations": {}}`}},
		{"score not number", &stubGenerator{text: `{"sustainabilityScore": "high", "summary": "x", "recommendations": {}}`}},
		{"score out of range", &stubGenerator{text: `{"sustainabilityScore": 140, "summary": "x", "recommendations": {}}`}},
		{"recommendations wrong type", &stubGenerator{text: `{"sustainabilityScore": 50, "summary": "x", "recommendations": ["a"]}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.gen, nil).AnalyzeSustainability(context.Background(), sampleData())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAnalysisFailed)
			assert.Equal(t, SustainabilityFailedMessage, err.Error())

			var f *Failure
			require.ErrorAs(t, err, &f)
			assert.Error(t, f.Cause())
		})
	}
}

func TestParseAnalysisResult_NormalisesCategories(t *testing.T) {
	got, err := ParseAnalysisResult("```json\n" + `{
		"sustainabilityScore": 64.6,
		"summary": "  Decent.  ",
		"recommendations": {"Energy Efficiency": ["a", " "], "Parking": ["p"]}
	}` + "\n```")
	require.NoError(t, err)

	assert.Equal(t, 65, got.SustainabilityScore)
	assert.Equal(t, "Decent.", got.Summary)
	assert.Equal(t, []string{"a"}, got.Recommendations[building.CategoryEnergy])
	assert.Empty(t, got.Recommendations[building.CategoryWater])
	assert.NotNil(t, got.Recommendations[building.CategoryWater])
	assert.Len(t, got.Recommendations, 4)
}

func TestAnalyzeLocation(t *testing.T) {
	gen := &stubGenerator{text: `{"weatherSummary":"Humid summers","sustainabilityMeasures":["Shade","Cross ventilation"],"transportationNotes":"Good bus links"}`}
	svc := NewService(gen, nil)

	got, err := svc.AnalyzeLocation(context.Background(), building.RegionPuertoRico)
	require.NoError(t, err)
	assert.Equal(t, "Humid summers", got.WeatherSummary)
	assert.Equal(t, []string{"Shade", "Cross ventilation"}, got.SustainabilityMeasures)
	assert.Contains(t, gen.prompts[0], "Puerto Rico")
	assert.Equal(t, LocationSchema(), gen.schemas[0])
}

func TestAnalyzeLocation_Errors(t *testing.T) {
	gen := &stubGenerator{}
	svc := NewService(gen, nil)

	_, err := svc.AnalyzeLocation(context.Background(), "")
	assert.ErrorIs(t, err, ErrRegionRequired)
	_, err = svc.AnalyzeLocation(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrRegionRequired)
	assert.Empty(t, gen.prompts, "no request for an invalid region")

	gen.text = `{"weatherSummary":"x"}`
	_, err = svc.AnalyzeLocation(context.Background(), building.RegionNorth)
	assert.ErrorIs(t, err, ErrLocationFailed)
	assert.Equal(t, LocationFailedMessage, err.Error())
}

func TestAsk(t *testing.T) {
	gen := &stubGenerator{text: "Use **cross-laminated timber**."}
	svc := NewService(gen, nil)

	got, err := svc.Ask(context.Background(), "  What is CLT?  ")
	require.NoError(t, err)
	assert.Equal(t, "Use **cross-laminated timber**.", got)
	assert.True(t, strings.HasSuffix(gen.prompts[0], "Question: What is CLT?"))
	assert.Nil(t, gen.schemas[0])

	_, err = svc.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrPromptRequired)

	gen.err = errors.New("down")
	_, err = svc.Ask(context.Background(), "Why?")
	assert.ErrorIs(t, err, ErrChatFailed)
}

func TestCleanJSONContent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanJSONContent(tt.in))
	}
}
