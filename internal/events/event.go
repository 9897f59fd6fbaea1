package events

import (
	"strings"
	"time"

	"github.com/nerrad567/ecobuild-core/internal/building"
)

// Type identifies what happened to a building.
type Type string

// Building lifecycle events.
const (
	TypeBuildingSaved   Type = "building.saved"
	TypeBuildingUpdated Type = "building.updated"
	TypeBuildingDeleted Type = "building.deleted"
)

// Action is the short form of t used in MQTT topics and metric tags,
// e.g. "saved" for building.saved.
func (t Type) Action() string {
	return strings.TrimPrefix(string(t), "building.")
}

// Event describes a change to one saved building.
type Event struct {
	Type        Type      `json:"type"`
	BuildingID  string    `json:"buildingId"`
	UserID      string    `json:"userId"`
	Score       int       `json:"sustainabilityScore"`
	Region      string    `json:"locationRegion,omitempty"`
	HousingType string    `json:"housingType,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// FromBuilding builds an event of type t for b, stamped with the current time.
func FromBuilding(t Type, b *building.SavedBuilding) Event {
	return Event{
		Type:        t,
		BuildingID:  b.ID,
		UserID:      b.UserID,
		Score:       b.AnalysisResult.SustainabilityScore,
		Region:      string(b.BuildingData.LocationRegion),
		HousingType: string(b.BuildingData.HousingType),
		Timestamp:   time.Now().UTC(),
	}
}
