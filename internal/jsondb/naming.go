package jsondb

import "strings"

// Record classes written by openHAB 2's JSON storage.
const (
	persistedItemClass = "org.eclipse.smarthome.core.items.ManagedItemProvider$PersistedItem"
	metadataClass      = "org.eclipse.smarthome.core.items.Metadata"
	linkClass          = "org.eclipse.smarthome.core.thing.link.ItemChannelLink"
)

// Channel binding constants.
const (
	channelBinding  = "mqtt"
	homieThingType  = "homie300"
	metadataNS      = "ga"
	linkProfile     = "system:default"
	groupItemType   = "Group"
	channelItemType = "Number"
)

// channel is one reading exposed by a sensor.
type channel struct {
	// suffix is appended to the item name.
	suffix string

	// label is appended to the device name for the item label.
	label string

	// property is the Homie property id on the bridge.
	property string
}

var channels = []channel{
	{suffix: "Temperature", label: "temperature", property: "temperature"},
	{suffix: "Humidity", label: "humidity", property: "humidity"},
	{suffix: "BatteryLevel", label: "battery level", property: "battery"},
}

// Naming holds the bridge identifiers that shape generated keys.
type Naming struct {
	// Prefix names the root group and prefixes every item, e.g. "MijiaBridge".
	Prefix string

	// GatewayID is the openHAB MQTT broker thing id, e.g. "19078e8a".
	GatewayID string

	// HomieDevice is the bridge's Homie device id, e.g. "mijia-bridge-raspi".
	HomieDevice string
}

// GroupItem is the name of the group item for a device.
func (n Naming) GroupItem(deviceID string) string {
	return n.Prefix + "_" + deviceID
}

// ChannelItem is the name of a device's item for one reading.
func (n Naming) ChannelItem(deviceID, suffix string) string {
	return n.GroupItem(deviceID) + "_" + suffix
}

// channelSegments returns the channel UID segments for a device property.
func (n Naming) channelSegments(deviceID, property string) []string {
	return []string{channelBinding, homieThingType, n.GatewayID, n.HomieDevice, deviceID + "#" + property}
}

// ChannelUID renders the channel UID for a device property, e.g.
// "mqtt:homie300:19078e8a:mijia-bridge-raspi:A4C138001122#temperature".
func (n Naming) ChannelUID(deviceID, property string) string {
	return strings.Join(n.channelSegments(deviceID, property), ":")
}

// File names of the JSON database stores, relative to the jsondb
// input and output directories.
const (
	ItemStoreFile     = "org.eclipse.smarthome.core.items.Item.json"
	MetadataStoreFile = "org.eclipse.smarthome.core.items.Metadata.json"
	LinkStoreFile     = "org.eclipse.smarthome.core.thing.link.ItemChannelLink.json"
)
