package wizard

import "github.com/nerrad567/ecobuild-core/internal/building"

// Draft holds the BuildingData of one wizard session. It is not safe for
// concurrent use; callers that share a Draft must serialise access.
type Draft struct {
	data building.BuildingData
}

// NewDraft returns a draft with the form's initial values: the first option
// of every required select, one room, and no region or housing type chosen.
func NewDraft() *Draft {
	return &Draft{data: building.BuildingData{
		Floors:             building.Floors1To5,
		RoomsMin:           building.MinRooms,
		RoomsMax:           building.MinRooms,
		SpacePerRoom:       building.SpaceUnder300,
		ArchitecturalStyle: building.StyleModern,
		MaterialType:       building.MaterialWoodFrame,
		WasteReduction:     []building.WasteOption{},
		EnergyEfficiency:   []building.EnergyOption{},
		WaterFixtures:      building.WaterStandard,
	}}
}

// DraftFrom starts a draft from existing data, as when editing a saved
// building. The room bounds are repaired so RoomsMax >= RoomsMin >= 1.
func DraftFrom(data building.BuildingData) *Draft {
	d := data.Clone()
	if d.RoomsMin < building.MinRooms {
		d.RoomsMin = building.MinRooms
	}
	if d.RoomsMax < d.RoomsMin {
		d.RoomsMax = d.RoomsMin
	}
	if d.WasteReduction == nil {
		d.WasteReduction = []building.WasteOption{}
	}
	if d.EnergyEfficiency == nil {
		d.EnergyEfficiency = []building.EnergyOption{}
	}
	return &Draft{data: d}
}

// Apply performs one field update. On error the draft is unchanged.
func (d *Draft) Apply(u FieldUpdate) error {
	next := d.data.Clone()
	if err := u.apply(&next); err != nil {
		return err
	}
	d.data = next
	return nil
}

// Data returns a snapshot of the draft.
func (d *Draft) Data() building.BuildingData {
	return d.data.Clone()
}

// RoomsMaxMin is the lowest value the roomsMax input accepts.
func (d *Draft) RoomsMaxMin() int {
	return d.data.RoomsMin
}
