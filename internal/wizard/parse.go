package wizard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nerrad567/ecobuild-core/internal/building"
)

// ParseFieldUpdate converts a raw form submission into a typed update.
//
// Numeric fields must parse completely (no trailing text) and be finite.
// Checkbox fields accept true/false, on/off and 1/0. Select-like fields must
// match one of the catalogue labels exactly; membership is checked when the
// update is applied.
//
// Parameters:
//   - name: Form field name, resourceEfficiency fields use dotted paths
//   - value: Raw input value
//
// Returns:
//   - FieldUpdate: The command to pass to Draft.Apply
//   - error: ErrUnknownField or ErrInvalidValue
func ParseFieldUpdate(name, value string) (FieldUpdate, error) {
	switch name {
	case FieldProjectName:
		return SetProjectName{Value: strings.TrimSpace(value)}, nil
	case FieldLocationRegion:
		return SetRegion{Value: building.Region(value)}, nil
	case FieldHousingType:
		return SetHousingType{Value: building.HousingType(value)}, nil
	case FieldFloors:
		return SetFloors{Value: building.FloorRange(value)}, nil
	case FieldRoomsMin:
		n, err := parseInt(name, value)
		return SetRoomsMin{Value: n}, err
	case FieldRoomsMax:
		n, err := parseInt(name, value)
		return SetRoomsMax{Value: n}, err
	case FieldElevators:
		n, err := parseInt(name, value)
		return SetElevators{Value: n}, err
	case FieldSpacePerRoom:
		return SetSpacePerRoom{Value: building.SpaceBucket(value)}, nil
	case FieldArchitecturalStyle:
		return SetArchitecturalStyle{Value: building.ArchitecturalStyle(value)}, nil
	case FieldMaterialType:
		return SetMaterialType{Value: building.MaterialType(value)}, nil
	case FieldWasteReduction:
		return ToggleWasteReduction{Option: building.WasteOption(value)}, nil
	case FieldEnergyEfficiency:
		return ToggleEnergyEfficiency{Option: building.EnergyOption(value)}, nil
	case FieldThermalMass:
		b, err := parseCheckbox(name, value)
		return SetThermalMass{Value: b}, err
	case FieldBuildingOrientation:
		return SetBuildingOrientation{Value: strings.TrimSpace(value)}, nil
	case FieldEnvelopeUValue:
		f, err := parseFloat(name, value)
		return SetEnvelopeUValue{Value: f}, err
	case FieldWaterFixtures:
		return SetWaterFixtures{Value: building.WaterFixtures(value)}, nil
	case FieldAdditionalFeatures:
		return SetAdditionalFeatures{Value: value}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

func parseInt(field, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidValue, field)
	}
	return n, nil
}

func parseFloat(field, value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidValue, field)
	}
	return f, nil
}

func parseCheckbox(field, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1", "checked":
		return true, nil
	case "false", "off", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s must be a checkbox value", ErrInvalidValue, field)
}
