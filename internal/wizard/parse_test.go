package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/ecobuild-core/internal/building"
)

func TestParseFieldUpdate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  FieldUpdate
	}{
		{"projectName", "  Harbour View ", SetProjectName{Value: "Harbour View"}},
		{"locationRegion", "Puerto Rico", SetRegion{Value: building.RegionPuertoRico}},
		{"housingType", "Studio Apartment", SetHousingType{Value: building.HousingStudioApartment}},
		{"floors", "6-10", SetFloors{Value: building.Floors6To10}},
		{"roomsMin", " 4 ", SetRoomsMin{Value: 4}},
		{"roomsMax", "12", SetRoomsMax{Value: 12}},
		{"elevators", "0", SetElevators{Value: 0}},
		{"spacePerRoom", "Over 1200", SetSpacePerRoom{Value: building.SpaceOver1200}},
		{"architecturalStyle", "Industrial", SetArchitecturalStyle{Value: building.StyleIndustrial}},
		{"materialType", "Masonry", SetMaterialType{Value: building.MaterialMasonry}},
		{"wasteReduction", "Recycling Stations", ToggleWasteReduction{Option: building.WasteRecyclingStations}},
		{"energyEfficiency", "LED Lighting", ToggleEnergyEfficiency{Option: building.EnergyLEDLighting}},
		{"resourceEfficiency.thermalMass", "on", SetThermalMass{Value: true}},
		{"resourceEfficiency.thermalMass", "false", SetThermalMass{Value: false}},
		{"resourceEfficiency.buildingOrientation", "North", SetBuildingOrientation{Value: "North"}},
		{"resourceEfficiency.envelopeUValue", "0.18", SetEnvelopeUValue{Value: 0.18}},
		{"waterFixtures", "Low-Flow", SetWaterFixtures{Value: building.WaterLowFlow}},
		{"additionalFeatures", "Bike storage", SetAdditionalFeatures{Value: "Bike storage"}},
	}
	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			got, err := ParseFieldUpdate(tt.name, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, got.Field())
		})
	}
}

func TestParseFieldUpdate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  error
	}{
		{"purpose", "Residential", ErrUnknownField},
		{"resourceEfficiency", "{}", ErrUnknownField},
		{"roomsMin", "", ErrInvalidValue},
		{"roomsMin", "3 rooms", ErrInvalidValue},
		{"elevators", "1.5", ErrInvalidValue},
		{"resourceEfficiency.envelopeUValue", "NaN", ErrInvalidValue},
		{"resourceEfficiency.envelopeUValue", "Inf", ErrInvalidValue},
		{"resourceEfficiency.envelopeUValue", "abc", ErrInvalidValue},
		{"resourceEfficiency.thermalMass", "maybe", ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			_, err := ParseFieldUpdate(tt.name, tt.value)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseFieldUpdate_SelectMembershipCheckedOnApply(t *testing.T) {
	u, err := ParseFieldUpdate("materialType", "Adobe")
	require.NoError(t, err)
	assert.ErrorIs(t, NewDraft().Apply(u), ErrInvalidValue)
}
