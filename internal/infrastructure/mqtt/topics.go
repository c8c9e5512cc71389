package mqtt

import "strings"

// Homie 3 attribute names used by sensorgen.
const (
	// AttrName is the human-readable name attribute of a device or node.
	AttrName = "$name"
)

// Topics builds Homie 3 topics below a base topic, usually "homie".
//
//	topics := mqtt.Topics{Base: "homie"}
//	topics.NodeNames("mijia-bridge-raspi")
//	// Returns: "homie/mijia-bridge-raspi/+/$name"
type Topics struct {
	Base string
}

// NodeNames returns the filter matching every node's $name of a device.
// An empty device matches every device.
func (t Topics) NodeNames(device string) string {
	if device == "" {
		device = "+"
	}
	return t.Base + "/" + device + "/+/" + AttrName
}

// NodeAttribute is a parsed homie/<device>/<node>/<attribute> topic.
type NodeAttribute struct {
	Device    string
	Node      string
	Attribute string
}

// ParseNodeAttribute splits a node attribute topic below t.Base.
//
// Returns:
//   - NodeAttribute: The parsed parts
//   - bool: false if the topic is not a node attribute (wrong base, wrong
//     depth, or a property value rather than a $ attribute)
func (t Topics) ParseNodeAttribute(topic string) (NodeAttribute, bool) {
	rest, ok := strings.CutPrefix(topic, t.Base+"/")
	if !ok {
		return NodeAttribute{}, false
	}

	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return NodeAttribute{}, false
	}
	if !strings.HasPrefix(parts[2], "$") || strings.HasPrefix(parts[1], "$") {
		return NodeAttribute{}, false
	}

	return NodeAttribute{Device: parts[0], Node: parts[1], Attribute: parts[2]}, true
}
