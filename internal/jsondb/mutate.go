package jsondb

import (
	"github.com/r3labs/diff"

	"github.com/nerrad567/sensorgen/internal/jsondoc"
	"github.com/nerrad567/sensorgen/internal/sensor"
)

// Store names used in additions, logs and the journal.
const (
	StoreItems    = "items"
	StoreMetadata = "metadata"
	StoreLinks    = "links"
)

// Addition records one key inserted into a store.
type Addition struct {
	Store    string
	Key      string
	DeviceID string
	Name     string
}

// MutateItems ensures every device has its group item and one Number item
// per reading.
//
// Parameters:
//   - doc: The Item store document, changed in place
//   - n: Bridge naming
//   - devices: Devices to add
//
// Returns:
//   - []Addition: Inserted keys in insertion order
//   - error: *ConflictError when an existing channel item differs from the
//     generated one; the document must then not be written
func MutateItems(doc *jsondoc.Object, n Naming, devices sensor.Mapping) ([]Addition, error) {
	var additions []Addition

	for _, d := range devices {
		group := n.GroupItem(d.ID)
		if !doc.Has(group) {
			doc.Set(group, persistedItem(groupItemType, n.Prefix, d.Name+" sensor"))
			additions = append(additions, Addition{Store: StoreItems, Key: group, DeviceID: d.ID, Name: d.Name})
		}

		for _, c := range channels {
			key := n.ChannelItem(d.ID, c.suffix)
			want := persistedItem(channelItemType, group, d.Name+" "+c.label)

			existing, ok := doc.Get(key)
			if !ok {
				doc.Set(key, want)
				additions = append(additions, Addition{Store: StoreItems, Key: key, DeviceID: d.ID, Name: d.Name})
				continue
			}
			if !jsondoc.Equal(existing, want) {
				return additions, newConflict(StoreItems, key, existing, want)
			}
		}
	}

	return additions, nil
}

// MutateMetadata ensures every device's group, temperature and humidity
// items carry their Google Assistant thermostat markers. Existing keys are
// left as they are.
func MutateMetadata(doc *jsondoc.Object, n Naming, devices sensor.Mapping) []Addition {
	var additions []Addition

	for _, d := range devices {
		markers := []struct {
			item  string
			value string
		}{
			{item: n.GroupItem(d.ID), value: "Thermostat"},
			{item: n.ChannelItem(d.ID, "Temperature"), value: "thermostatTemperatureAmbient"},
			{item: n.ChannelItem(d.ID, "Humidity"), value: "thermostatHumidityAmbient"},
		}

		for _, m := range markers {
			key := metadataNS + ":" + m.item
			if doc.Has(key) {
				continue
			}
			doc.Set(key, metadata(m.item, m.value))
			additions = append(additions, Addition{Store: StoreMetadata, Key: key, DeviceID: d.ID, Name: d.Name})
		}
	}

	return additions
}

// MutateLinks ensures every device reading is linked to its Homie channel.
// Existing keys are left as they are.
func MutateLinks(doc *jsondoc.Object, n Naming, devices sensor.Mapping) []Addition {
	var additions []Addition

	for _, d := range devices {
		for _, c := range channels {
			item := n.ChannelItem(d.ID, c.suffix)
			key := item + " -> " + n.ChannelUID(d.ID, c.property)
			if doc.Has(key) {
				continue
			}
			doc.Set(key, link(item, n.channelSegments(d.ID, c.property)))
			additions = append(additions, Addition{Store: StoreLinks, Key: key, DeviceID: d.ID, Name: d.Name})
		}
	}

	return additions
}

// persistedItem builds a ManagedItemProvider record.
func persistedItem(itemType, group, label string) *jsondoc.Object {
	return jsondoc.NewObject().
		With("class", persistedItemClass).
		With("value", jsondoc.NewObject().
			With("groupNames", jsondoc.Strings(group)).
			With("itemType", itemType).
			With("tags", []any{}).
			With("label", label))
}

// metadata builds a Metadata record in the ga namespace.
func metadata(item, value string) *jsondoc.Object {
	return jsondoc.NewObject().
		With("class", metadataClass).
		With("value", jsondoc.NewObject().
			With("key", jsondoc.NewObject().With("segments", jsondoc.Strings(metadataNS, item))).
			With("value", value).
			With("configuration", jsondoc.NewObject()))
}

// link builds an ItemChannelLink record.
func link(item string, segments []string) *jsondoc.Object {
	return jsondoc.NewObject().
		With("class", linkClass).
		With("value", jsondoc.NewObject().
			With("channelUID", jsondoc.NewObject().With("segments", jsondoc.Strings(segments...))).
			With("configuration", jsondoc.NewObject().
				With("properties", jsondoc.NewObject().With("profile", linkProfile))).
			With("itemName", item))
}

// newConflict describes how the stored record differs from the generated one.
func newConflict(store, key string, existing, want any) *ConflictError {
	changes, err := diff.Diff(jsondoc.Plain(existing), jsondoc.Plain(want))
	if err != nil {
		changes = nil
	}
	return &ConflictError{Store: store, Key: key, Changes: changes}
}
