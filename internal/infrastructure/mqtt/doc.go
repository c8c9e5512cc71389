// Package mqtt provides a read-only MQTT client for discovering sensors
// the BLE bridge announces over Homie 3.
//
// The bridge publishes one Homie node per sensor, with the sensor's
// hardware address (colons removed) as node id and a retained $name
// attribute:
//
//	homie/mijia-bridge-raspi/A4C138AABBCC/$name = "Living room"
//
// Subscribing to Topics.NodeNames makes the broker replay every retained
// name, which the inventory collects for a short settle window.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topics := mqtt.Topics{Base: cfg.MQTT.HomieBase}
//	err = client.Subscribe(topics.NodeNames(cfg.Bridge.HomieDevice), 1,
//	    func(topic string, payload []byte, retained bool) error {
//	        attr, ok := topics.ParseNodeAttribute(topic)
//	        ...
//	    })
package mqtt
