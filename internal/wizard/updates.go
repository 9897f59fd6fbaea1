package wizard

import (
	"fmt"
	"math"
	"slices"

	"github.com/nerrad567/ecobuild-core/internal/building"
)

// FieldUpdate is one edit to a Draft. Each field of the form has exactly one
// command type; Apply dispatches on it.
type FieldUpdate interface {
	// Field is the form field name the update targets.
	Field() string

	apply(d *building.BuildingData) error
}

// SetProjectName sets the optional project name.
type SetProjectName struct{ Value string }

// SetRegion selects the location region. Empty clears it.
type SetRegion struct{ Value building.Region }

// SetHousingType selects the housing type. Empty clears it.
type SetHousingType struct{ Value building.HousingType }

// SetFloors selects the floor bucket.
type SetFloors struct{ Value building.FloorRange }

// SetRoomsMin sets the minimum room count, raising RoomsMax if needed.
type SetRoomsMin struct{ Value int }

// SetRoomsMax sets the maximum room count, clamped to at least RoomsMin.
type SetRoomsMax struct{ Value int }

// SetElevators sets the elevator count.
type SetElevators struct{ Value int }

// SetSpacePerRoom selects the space-per-room bucket.
type SetSpacePerRoom struct{ Value building.SpaceBucket }

// SetArchitecturalStyle selects the architectural style.
type SetArchitecturalStyle struct{ Value building.ArchitecturalStyle }

// SetMaterialType selects the structural material.
type SetMaterialType struct{ Value building.MaterialType }

// ToggleWasteReduction adds the option if absent and removes it if present.
type ToggleWasteReduction struct{ Option building.WasteOption }

// ToggleEnergyEfficiency adds the option if absent and removes it if present.
type ToggleEnergyEfficiency struct{ Option building.EnergyOption }

// SetThermalMass sets resourceEfficiency.thermalMass.
type SetThermalMass struct{ Value bool }

// SetBuildingOrientation sets resourceEfficiency.buildingOrientation.
type SetBuildingOrientation struct{ Value string }

// SetEnvelopeUValue sets resourceEfficiency.envelopeUValue.
type SetEnvelopeUValue struct{ Value float64 }

// SetWaterFixtures selects the water fixture class.
type SetWaterFixtures struct{ Value building.WaterFixtures }

// SetAdditionalFeatures sets the free-text notes.
type SetAdditionalFeatures struct{ Value string }

// Field names as submitted by the form.
const (
	FieldProjectName         = "projectName"
	FieldLocationRegion      = "locationRegion"
	FieldHousingType         = "housingType"
	FieldFloors              = "floors"
	FieldRoomsMin            = "roomsMin"
	FieldRoomsMax            = "roomsMax"
	FieldElevators           = "elevators"
	FieldSpacePerRoom        = "spacePerRoom"
	FieldArchitecturalStyle  = "architecturalStyle"
	FieldMaterialType        = "materialType"
	FieldWasteReduction      = "wasteReduction"
	FieldEnergyEfficiency    = "energyEfficiency"
	FieldThermalMass         = "resourceEfficiency.thermalMass"
	FieldBuildingOrientation = "resourceEfficiency.buildingOrientation"
	FieldEnvelopeUValue      = "resourceEfficiency.envelopeUValue"
	FieldWaterFixtures       = "waterFixtures"
	FieldAdditionalFeatures  = "additionalFeatures"
)

func (SetProjectName) Field() string { return FieldProjectName }
func (SetRegion) Field() string { return FieldLocationRegion }
func (SetHousingType) Field() string { return FieldHousingType }
func (SetFloors) Field() string { return FieldFloors }
func (SetRoomsMin) Field() string { return FieldRoomsMin }
func (SetRoomsMax) Field() string { return FieldRoomsMax }
func (SetElevators) Field() string { return FieldElevators }
func (SetSpacePerRoom) Field() string { return FieldSpacePerRoom }
func (SetArchitecturalStyle) Field() string { return FieldArchitecturalStyle }
func (SetMaterialType) Field() string { return FieldMaterialType }
func (ToggleWasteReduction) Field() string { return FieldWasteReduction }
func (ToggleEnergyEfficiency) Field() string { return FieldEnergyEfficiency }
func (SetThermalMass) Field() string { return FieldThermalMass }
func (SetBuildingOrientation) Field() string { return FieldBuildingOrientation }
func (SetEnvelopeUValue) Field() string { return FieldEnvelopeUValue }
func (SetWaterFixtures) Field() string { return FieldWaterFixtures }
func (SetAdditionalFeatures) Field() string { return FieldAdditionalFeatures }

func invalid(field string, value any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalidValue, field, value)
}

func (u SetProjectName) apply(d *building.BuildingData) error {
	d.ProjectName = u.Value
	return nil
}

func (u SetRegion) apply(d *building.BuildingData) error {
	if u.Value != "" && !u.Value.IsValid() {
		return invalid(u.Field(), u.Value)
	}
	d.LocationRegion = u.Value
	return nil
}

func (u SetHousingType) apply(d *building.BuildingData) error {
	if u.Value != "" && !u.Value.IsValid() {
		return invalid(u.Field(), u.Value)
	}
	d.HousingType = u.Value
	return nil
}

func (u SetFloors) apply(d *building.BuildingData) error {
	if !u.Value.IsValid() {
		return invalid(u.Field(), u.Value)
	}
	d.Floors = u.Value
	return nil
}

func (u SetRoomsMin) apply(d *building.BuildingData) error {
	if u.Value < building.MinRooms || u.Value > building.MaxRooms {
		return invalid(u.Field(), u.Value)
	}
	d.RoomsMin = u.Value
	if d.RoomsMax < d.RoomsMin {
		d.RoomsMax = d.RoomsMin
	}
	return nil
}

func (u SetRoomsMax) apply(d *building.BuildingData) error {
	if u.Value < building.MinRooms || u.Value > building.MaxRooms {
		return invalid(u.Field(), u.Value)
	}
	d.RoomsMax = max(u.Value, d.RoomsMin)
	return nil
}

func (u SetElevators) apply(d *building.BuildingData) error {
	if u.Value < 0 || u.Value > building.MaxElevators {
		return invalid(u.Field(), u.Value)
	}
	d.Elevators = u.Value
	return nil
}

func (u SetSpacePerRoom) apply(d *building.BuildingData) error {
	if !u.Value.IsValid() {
		return invalid(u.Field(), u.Value)
	}
	d.SpacePerRoom = u.Value
	return nil
}

func (u SetArchitecturalStyle) apply(d *building.BuildingData) error {
	if !u.Value.IsValid() {
		return invalid(u.Field(), u.Value)
	}
	d.ArchitecturalStyle = u.Value
	return nil
}

func (u SetMaterialType) apply(d *building.BuildingData) error {
	if !u.Value.IsValid() {
		return invalid(u.Field(), u.Value)
	}
	d.MaterialType = u.Value
	return nil
}

func (u ToggleWasteReduction) apply(d *building.BuildingData) error {
	if !u.Option.IsValid() {
		return invalid(u.Field(), u.Option)
	}
	d.WasteReduction = toggle(d.WasteReduction, u.Option)
	return nil
}

func (u ToggleEnergyEfficiency) apply(d *building.BuildingData) error {
	if !u.Option.IsValid() {
		return invalid(u.Field(), u.Option)
	}
	d.EnergyEfficiency = toggle(d.EnergyEfficiency, u.Option)
	return nil
}

func (u SetThermalMass) apply(d *building.BuildingData) error {
	d.ResourceEfficiency.ThermalMass = u.Value
	return nil
}

func (u SetBuildingOrientation) apply(d *building.BuildingData) error {
	d.ResourceEfficiency.BuildingOrientation = u.Value
	return nil
}

func (u SetEnvelopeUValue) apply(d *building.BuildingData) error {
	if math.IsNaN(u.Value) || math.IsInf(u.Value, 0) || u.Value < 0 || u.Value > building.MaxEnvelopeUValue {
		return invalid(u.Field(), u.Value)
	}
	d.ResourceEfficiency.EnvelopeUValue = u.Value
	return nil
}

func (u SetWaterFixtures) apply(d *building.BuildingData) error {
	if !u.Value.IsValid() {
		return invalid(u.Field(), u.Value)
	}
	d.WaterFixtures = u.Value
	return nil
}

func (u SetAdditionalFeatures) apply(d *building.BuildingData) error {
	d.AdditionalFeatures = u.Value
	return nil
}

// toggle removes v from set if present, otherwise appends it. The input
// slice is never modified in place.
func toggle[T comparable](set []T, v T) []T {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}
