package building

import (
	"fmt"
	"slices"
	"time"
)

// Region is the broad geographic area a building is planned for.
type Region string

// Regions offered by the wizard.
const (
	RegionCentral    Region = "Central"
	RegionEast       Region = "East"
	RegionWest       Region = "West"
	RegionSouth      Region = "South"
	RegionNorth      Region = "North"
	RegionPuertoRico Region = "Puerto Rico"
)

// HousingType is the intended use of the building.
type HousingType string

// Housing types offered by the wizard.
const (
	HousingLuxuryApartment   HousingType = "Luxury Apartment"
	HousingStudioApartment   HousingType = "Studio Apartment"
	HousingEducationalCenter HousingType = "Educational Center"
	HousingCommunityCenter   HousingType = "Community Center"
)

// FloorRange is a bucketed floor count.
type FloorRange string

// Floor buckets.
const (
	Floors1To5   FloorRange = "1-5"
	Floors6To10  FloorRange = "6-10"
	Floors10To15 FloorRange = "10-15"
	Floors16To20 FloorRange = "16-20"
)

// SpaceBucket is a bucketed floor area per room, in square feet.
type SpaceBucket string

// Space-per-room buckets.
const (
	SpaceUnder300  SpaceBucket = "Under 300"
	Space300To500  SpaceBucket = "300-500"
	Space500To800  SpaceBucket = "500-800"
	Space800To1200 SpaceBucket = "800-1200"
	SpaceOver1200  SpaceBucket = "Over 1200"
)

// ArchitecturalStyle is the design language of the building.
type ArchitecturalStyle string

// Architectural styles.
const (
	StyleModern        ArchitecturalStyle = "Modern"
	StyleContemporary  ArchitecturalStyle = "Contemporary"
	StyleTraditional   ArchitecturalStyle = "Traditional"
	StyleMinimalist    ArchitecturalStyle = "Minimalist"
	StyleIndustrial    ArchitecturalStyle = "Industrial"
	StyleMediterranean ArchitecturalStyle = "Mediterranean"
)

// MaterialType is the primary structural material.
type MaterialType string

// Structural materials.
const (
	MaterialWoodFrame     MaterialType = "Wood Frame"
	MaterialSteelFrame    MaterialType = "Steel Frame"
	MaterialConcrete      MaterialType = "Reinforced Concrete"
	MaterialMasonry       MaterialType = "Masonry"
	MaterialCrossLaminate MaterialType = "Cross-Laminated Timber"
)

// WasteOption is one selectable waste reduction measure.
type WasteOption string

// Waste reduction measures.
const (
	WasteConstructionRecycling WasteOption = "Construction Waste Recycling"
	WasteComposting            WasteOption = "Composting Facilities"
	WasteRecyclingStations     WasteOption = "Recycling Stations"
	WasteModularConstruction   WasteOption = "Modular Construction"
)

// EnergyOption is one selectable energy efficiency measure.
type EnergyOption string

// Energy efficiency measures.
const (
	EnergySolarPanels      EnergyOption = "Solar Panels"
	EnergyLEDLighting      EnergyOption = "LED Lighting"
	EnergySmartThermostats EnergyOption = "Smart Thermostats"
	EnergyHeatPumps        EnergyOption = "Heat Pumps"
	EnergyGreenRoof        EnergyOption = "Green Roof"
)

// WaterFixtures is the class of water fixtures installed.
type WaterFixtures string

// Water fixture classes.
const (
	WaterStandard            WaterFixtures = "Standard"
	WaterLowFlow             WaterFixtures = "Low-Flow"
	WaterRainwaterHarvesting WaterFixtures = "Rainwater Harvesting"
)

// Category is one of the four fixed recommendation groups.
type Category string

// Recommendation categories, in display order.
const (
	CategoryEnergy    Category = "Energy Efficiency"
	CategoryWater     Category = "Water Conservation"
	CategoryMaterials Category = "Sustainable Materials"
	CategorySiteWaste Category = "Site & Waste Management"
)

// ResourceEfficiency groups the envelope and passive design inputs.
type ResourceEfficiency struct {
	ThermalMass         bool    `json:"thermalMass" yaml:"thermalMass"`
	BuildingOrientation string  `json:"buildingOrientation" yaml:"buildingOrientation"`
	EnvelopeUValue      float64 `json:"envelopeUValue" yaml:"envelopeUValue"`
}

// BuildingData is the description of a proposed building collected by the wizard.
//
// Single-choice fields may be empty while the wizard is in progress; when set
// they must be one of the catalogue labels. Multi-select fields behave as
// ordered sets.
type BuildingData struct {
	ProjectName        string             `json:"projectName,omitempty" yaml:"projectName"`
	LocationRegion     Region             `json:"locationRegion" yaml:"locationRegion"`
	HousingType        HousingType        `json:"housingType" yaml:"housingType"`
	Floors             FloorRange         `json:"floors" yaml:"floors"`
	RoomsMin           int                `json:"roomsMin" yaml:"roomsMin"`
	RoomsMax           int                `json:"roomsMax" yaml:"roomsMax"`
	Elevators          int                `json:"elevators" yaml:"elevators"`
	SpacePerRoom       SpaceBucket        `json:"spacePerRoom" yaml:"spacePerRoom"`
	ArchitecturalStyle ArchitecturalStyle `json:"architecturalStyle" yaml:"architecturalStyle"`
	MaterialType       MaterialType       `json:"materialType" yaml:"materialType"`
	WasteReduction     []WasteOption      `json:"wasteReduction" yaml:"wasteReduction"`
	EnergyEfficiency   []EnergyOption     `json:"energyEfficiency" yaml:"energyEfficiency"`
	ResourceEfficiency ResourceEfficiency `json:"resourceEfficiency" yaml:"resourceEfficiency"`
	WaterFixtures      WaterFixtures      `json:"waterFixtures" yaml:"waterFixtures"`
	AdditionalFeatures string             `json:"additionalFeatures" yaml:"additionalFeatures"`
}

// Clone returns a deep copy so callers can keep a snapshot of a draft.
func (d BuildingData) Clone() BuildingData {
	out := d
	out.WasteReduction = slices.Clone(d.WasteReduction)
	out.EnergyEfficiency = slices.Clone(d.EnergyEfficiency)
	return out
}

// DisplayName is the project name, or a description built from the housing
// type and region when no name was given.
func (d BuildingData) DisplayName() string {
	if d.ProjectName != "" {
		return d.ProjectName
	}
	switch {
	case d.HousingType != "" && d.LocationRegion != "":
		return fmt.Sprintf("%s in %s", d.HousingType, d.LocationRegion)
	case d.HousingType != "":
		return string(d.HousingType)
	case d.LocationRegion != "":
		return fmt.Sprintf("Building in %s", d.LocationRegion)
	default:
		return "Untitled building"
	}
}

// LocationAnalysis is the regional context returned for a location.
type LocationAnalysis struct {
	WeatherSummary         string   `json:"weatherSummary"`
	SustainabilityMeasures []string `json:"sustainabilityMeasures"`
	TransportationNotes    string   `json:"transportationNotes"`
}

// AnalysisResult is the sustainability assessment of one BuildingData.
type AnalysisResult struct {
	SustainabilityScore int                   `json:"sustainabilityScore"`
	Summary             string                `json:"summary"`
	Recommendations     map[Category][]string `json:"recommendations"`
}

// SavedBuilding is a persisted BuildingData with its last analysis.
type SavedBuilding struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	BuildingData   BuildingData   `json:"buildingData"`
	AnalysisResult AnalysisResult `json:"analysisResult"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// UserBuilding is the flattened record accepted and returned by the
// per-user building list route.
type UserBuilding struct {
	Name                  string                `json:"name"`
	SustainabilityScore   int                   `json:"sustainabilityScore"`
	SustainabilitySummary string                `json:"sustainabilitySummary"`
	Recommendations       map[Category][]string `json:"recommendations"`
}

// Flatten renders a SavedBuilding in the UserBuilding shape.
func (b SavedBuilding) Flatten() UserBuilding {
	return UserBuilding{
		Name:                  b.BuildingData.DisplayName(),
		SustainabilityScore:   b.AnalysisResult.SustainabilityScore,
		SustainabilitySummary: b.AnalysisResult.Summary,
		Recommendations:       b.AnalysisResult.Normalised().Recommendations,
	}
}
