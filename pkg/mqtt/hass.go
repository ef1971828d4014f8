package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	HassSensorGeneric HassSensorType = iota
	HassSensorIlluminance
	HassSensorTemperature
	HassSensorHumidity
	HassSensorPercent
)

type HassSensorType int

type HassSensor struct {
	component         string
	configTopic       string
	Name              string     `json:"name"`
	UniqueID          string     `json:"unique_id"`
	Device            HassDevice `json:"device,omitempty"`
	DeviceClass       string     `json:"device_class,omitempty"`
	StateTopic        string     `json:"state_topic"`
	UnitOfMeasurement string     `json:"unit_of_measurement,omitempty"`
	Icon              string     `json:"icon,omitempty"`
}

type HassDevice struct {
	Name        string   `json:"name,omitempty"`
	Identifiers []string `json:"identifiers,omitempty"`
	Model       string   `json:"model,omitempty"`
}

func (c *Client) HomeAssistant() error {
	c.HassAnnounceAll()
	topic := "homeassistant/status"
	return c.Subscribe(topic, func(client paho.Client, msg paho.Message) {
		payload := string(msg.Payload())
		slog.Info("homeassistant status watcher", "status", payload)
		if payload == "online" {
			c.HassAnnounceAll()
		}
	})
}

func (c *Client) HassAnnounceAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	slog.Info("announcing homeassistant sensors")
	for _, s := range c.hassSensors {
		c.HassAnnounceSensor(s)
	}
}

func (c *Client) NewHassSensor(name string, sensorType HassSensorType) HassSensor {
	var deviceClass string
	var unit string
	switch sensorType {
	case HassSensorIlluminance:
		deviceClass = "illuminance"
		unit = "#"
	case HassSensorTemperature:
		deviceClass = "temperature"
		unit = "°C"
	case HassSensorHumidity:
		deviceClass = "humidity"
		unit = "%"
	case HassSensorPercent:
		unit = "%"
	}
	return HassSensor{
		component: "sensor",
		Name:      name,
		Device: HassDevice{
			Name:  cases.Title(language.English).String(c.clientID),
			Model: "toasty-boy",
		},
		StateTopic:        c.topicPrefix + "/sensor/" + name,
		DeviceClass:       deviceClass,
		UnitOfMeasurement: unit,
	}
}

// NewHassBinarySensor builds an ON/OFF sensor; deviceClass may be empty.
func (c *Client) NewHassBinarySensor(name, deviceClass string) HassSensor {
	s := c.NewHassSensor(name, HassSensorGeneric)
	s.component = "binary_sensor"
	s.DeviceClass = deviceClass
	s.StateTopic = c.topicPrefix + "/binary_sensor/" + name
	return s
}

func (c *Client) RegisterHassSensor(s HassSensor) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.UniqueID == "" {
		s.UniqueID = slugify(s.Device.Name + "_" + s.Name)
	}
	if len(s.Device.Identifiers) == 0 {
		s.Device.Identifiers = []string{slugify(s.Device.Name)}
	}
	s.configTopic = "homeassistant/" + s.component + "/" + s.UniqueID + "/config"
	c.hassSensors[s.UniqueID] = s
	return s.UniqueID
}

func (c *Client) HassAnnounceSensor(s HassSensor) {
	payload, err := json.Marshal(s)
	if err != nil {
		slog.Error("json marshal error", "error", err, "module", "mqtt", "sensor", s)
		return
	}
	c.Publish(s.configTopic, string(payload))
}

func (c *Client) HassPublishSensor(uniqueID, state string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.hassSensors[uniqueID]
	if !ok {
		return fmt.Errorf("sensor not found: %s", uniqueID)
	}
	c.Publish(s.StateTopic, state)
	return nil
}

func (c *Client) HassPublishBinary(uniqueID string, on bool) error {
	state := "OFF"
	if on {
		state = "ON"
	}
	return c.HassPublishSensor(uniqueID, state)
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}
