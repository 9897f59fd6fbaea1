package analysis

import "github.com/nerrad567/ecobuild-core/internal/building"

// Schema is the subset of the OpenAPI schema object the Generative Language
// API accepts as responseSchema.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Schema type names.
const (
	TypeObject  = "OBJECT"
	TypeArray   = "ARRAY"
	TypeString  = "STRING"
	TypeNumber  = "NUMBER"
	TypeInteger = "INTEGER"
)

func stringList(description string) *Schema {
	return &Schema{Type: TypeArray, Description: description, Items: &Schema{Type: TypeString}}
}

// SustainabilitySchema describes an AnalysisResult.
func SustainabilitySchema() *Schema {
	recs := &Schema{Type: TypeObject, Properties: map[string]*Schema{}}
	for _, c := range building.AllCategories() {
		name := string(c)
		recs.Properties[name] = stringList("At least two recommendations for " + name + ".")
		recs.Required = append(recs.Required, name)
	}

	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"sustainabilityScore": {
				Type:        TypeInteger,
				Description: "The sustainability score from 0 to 100.",
			},
			"summary": {
				Type:        TypeString,
				Description: "A brief summary of the sustainability analysis.",
			},
			"recommendations": recs,
		},
		Required: []string{"sustainabilityScore", "summary", "recommendations"},
	}
}

// LocationSchema describes a LocationAnalysis.
func LocationSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"weatherSummary": {
				Type:        TypeString,
				Description: "Typical climate and weather of the region.",
			},
			"sustainabilityMeasures": stringList("Sustainability measures suited to the region."),
			"transportationNotes": {
				Type:        TypeString,
				Description: "Public transport and access considerations.",
			},
		},
		Required: []string{"weatherSummary", "sustainabilityMeasures", "transportationNotes"},
	}
}
