package building

import "slices"

// AllRegions returns every selectable region in display order.
func AllRegions() []Region {
	return []Region{RegionCentral, RegionEast, RegionWest, RegionSouth, RegionNorth, RegionPuertoRico}
}

// AllHousingTypes returns every selectable housing type in display order.
func AllHousingTypes() []HousingType {
	return []HousingType{
		HousingLuxuryApartment, HousingStudioApartment,
		HousingEducationalCenter, HousingCommunityCenter,
	}
}

// AllFloorRanges returns every floor bucket in ascending order.
func AllFloorRanges() []FloorRange {
	return []FloorRange{Floors1To5, Floors6To10, Floors10To15, Floors16To20}
}

// AllSpaceBuckets returns every space-per-room bucket in ascending order.
func AllSpaceBuckets() []SpaceBucket {
	return []SpaceBucket{SpaceUnder300, Space300To500, Space500To800, Space800To1200, SpaceOver1200}
}

// AllArchitecturalStyles returns every selectable style.
func AllArchitecturalStyles() []ArchitecturalStyle {
	return []ArchitecturalStyle{
		StyleModern, StyleContemporary, StyleTraditional,
		StyleMinimalist, StyleIndustrial, StyleMediterranean,
	}
}

// AllMaterialTypes returns every selectable structural material.
func AllMaterialTypes() []MaterialType {
	return []MaterialType{
		MaterialWoodFrame, MaterialSteelFrame, MaterialConcrete,
		MaterialMasonry, MaterialCrossLaminate,
	}
}

// AllWasteOptions returns every waste reduction measure.
func AllWasteOptions() []WasteOption {
	return []WasteOption{
		WasteConstructionRecycling, WasteComposting,
		WasteRecyclingStations, WasteModularConstruction,
	}
}

// AllEnergyOptions returns every energy efficiency measure.
func AllEnergyOptions() []EnergyOption {
	return []EnergyOption{
		EnergySolarPanels, EnergyLEDLighting, EnergySmartThermostats,
		EnergyHeatPumps, EnergyGreenRoof,
	}
}

// AllWaterFixtures returns every water fixture class.
func AllWaterFixtures() []WaterFixtures {
	return []WaterFixtures{WaterStandard, WaterLowFlow, WaterRainwaterHarvesting}
}

// AllCategories returns the four recommendation categories in display order.
func AllCategories() []Category {
	return []Category{CategoryEnergy, CategoryWater, CategoryMaterials, CategorySiteWaste}
}

// IsValid reports whether r is a known region.
func (r Region) IsValid() bool { return slices.Contains(AllRegions(), r) }

// IsValid reports whether h is a known housing type.
func (h HousingType) IsValid() bool { return slices.Contains(AllHousingTypes(), h) }

// IsValid reports whether f is a known floor bucket.
func (f FloorRange) IsValid() bool { return slices.Contains(AllFloorRanges(), f) }

// IsValid reports whether s is a known space bucket.
func (s SpaceBucket) IsValid() bool { return slices.Contains(AllSpaceBuckets(), s) }

// IsValid reports whether s is a known architectural style.
func (s ArchitecturalStyle) IsValid() bool { return slices.Contains(AllArchitecturalStyles(), s) }

// IsValid reports whether m is a known material.
func (m MaterialType) IsValid() bool { return slices.Contains(AllMaterialTypes(), m) }

// IsValid reports whether w is a known waste measure.
func (w WasteOption) IsValid() bool { return slices.Contains(AllWasteOptions(), w) }

// IsValid reports whether e is a known energy measure.
func (e EnergyOption) IsValid() bool { return slices.Contains(AllEnergyOptions(), e) }

// IsValid reports whether w is a known fixture class.
func (w WaterFixtures) IsValid() bool { return slices.Contains(AllWaterFixtures(), w) }

// IsValid reports whether c is one of the four categories.
func (c Category) IsValid() bool { return slices.Contains(AllCategories(), c) }

// Catalogue lists the options for every choice field, for clients that
// render the wizard themselves.
type Catalogue struct {
	Regions            []Region             `json:"locationRegion"`
	HousingTypes       []HousingType        `json:"housingType"`
	Floors             []FloorRange         `json:"floors"`
	SpacePerRoom       []SpaceBucket        `json:"spacePerRoom"`
	ArchitecturalStyle []ArchitecturalStyle `json:"architecturalStyle"`
	MaterialType       []MaterialType       `json:"materialType"`
	WasteReduction     []WasteOption        `json:"wasteReduction"`
	EnergyEfficiency   []EnergyOption       `json:"energyEfficiency"`
	WaterFixtures      []WaterFixtures      `json:"waterFixtures"`
	Categories         []Category           `json:"categories"`
}

// Options returns the full option catalogue.
func Options() Catalogue {
	return Catalogue{
		Regions:            AllRegions(),
		HousingTypes:       AllHousingTypes(),
		Floors:             AllFloorRanges(),
		SpacePerRoom:       AllSpaceBuckets(),
		ArchitecturalStyle: AllArchitecturalStyles(),
		MaterialType:       AllMaterialTypes(),
		WasteReduction:     AllWasteOptions(),
		EnergyEfficiency:   AllEnergyOptions(),
		WaterFixtures:      AllWaterFixtures(),
		Categories:         AllCategories(),
	}
}
