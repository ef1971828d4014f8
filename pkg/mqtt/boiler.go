package mqtt

import (
	"fmt"
	"strconv"
)

// BoilerForwarder relays per-valve open signals to the central boiler hub
// over MQTT. It implements boiler.Aggregator.
type BoilerForwarder struct {
	client *Client
	topic  string
}

// NewBoilerForwarder publishes signals under the given hub topic prefix,
// eg "boiler-hub/valve".
func (c *Client) NewBoilerForwarder(hubPrefix string) *BoilerForwarder {
	return &BoilerForwarder{client: c, topic: hubPrefix}
}

func (b *BoilerForwarder) ReceiveSignal(id uint16, percentOpen uint8) {
	topic := fmt.Sprintf("%s/%d/percent", b.topic, id)
	b.client.Publish(topic, strconv.Itoa(int(percentOpen)))
}
