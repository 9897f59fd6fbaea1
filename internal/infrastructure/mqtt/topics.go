package mqtt

import "fmt"

// Topic prefixes.
const (
	// TopicPrefixCore is the base for everything the server publishes.
	TopicPrefixCore = "ecobuild/core"
)

// Topics provides builders for EcoBuild MQTT topics.
//
//	topic := mqtt.Topics{}.BuildingEvent("bld-123", "saved")
//	// Returns: "ecobuild/core/building/bld-123/saved"
type Topics struct{}

// SystemStatus returns the retained online/offline status topic.
//
// Example: ecobuild/core/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixCore + "/system/status"
}

// BuildingEvent returns the topic for a lifecycle event of one building.
//
// Example: ecobuild/core/building/bld-123/saved
func (Topics) BuildingEvent(buildingID, event string) string {
	return fmt.Sprintf("%s/building/%s/%s", TopicPrefixCore, buildingID, event)
}

// AllBuildingEvents returns a wildcard subscription for every building event.
//
// Example: ecobuild/core/building/+/+
func (Topics) AllBuildingEvents() string {
	return TopicPrefixCore + "/building/+/+"
}
