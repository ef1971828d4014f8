// Package mqtt publishes valve telemetry and accepts mode commands over
// an MQTT broker, announcing everything to Home Assistant via its
// discovery protocol.
package mqtt

import (
	"crypto/md5"
	"log/slog"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/mikesmitty/toasty-boy/pkg/radvalve"
	"github.com/mikesmitty/toasty-boy/pkg/sensor"
	"github.com/mikesmitty/toasty-boy/pkg/stats"
)

type Client struct {
	client         paho.Client
	clientID       string
	topicPrefix    string
	qos            byte
	retained       bool
	sampleRate     int
	sampleInterval time.Duration
	hassSensors    map[string]HassSensor
	mu             sync.Mutex
}

func NewClient(broker *url.URL, sampleRate int, sampleInterval time.Duration) *Client {
	c := &Client{}

	var urls []*url.URL
	urls = append(urls, broker)

	hostname, _ := os.Hostname()
	hostname = strings.Split(hostname, ".")[0]
	clientID := hostname
	if clientID == "" {
		now := time.Now().UnixNano()
		sum := md5.New().Sum([]byte(strconv.FormatInt(now, 10)))
		clientID = string(sum)
	}

	c.qos = 1
	c.topicPrefix = "toasty-boy/" + hostname
	c.clientID = clientID
	c.hassSensors = make(map[string]HassSensor)
	c.sampleRate = sampleRate
	c.sampleInterval = sampleInterval

	slog.Info("connecting to mqtt", "url", broker, "clientid", clientID)
	c.client = paho.NewClient(&paho.ClientOptions{
		Servers:        urls,
		ClientID:       clientID,
		ConnectRetry:   true,
		ConnectTimeout: 30 * time.Second,
	})

	return c
}

func (c *Client) Connect() error {
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		slog.Error("mqtt connection failed", "error", token.Error())
		return token.Error()
	}
	return nil
}

func (c *Client) Subscribe(topic string, handler paho.MessageHandler) error {
	if token := c.client.Subscribe(topic, c.qos, handler); token.Wait() && token.Error() != nil {
		slog.Error("mqtt subscription failed", "error", token.Error())
		return token.Error()
	}
	return nil
}

// GetPublisher returns a runner that forwards sensor readings and
// controller status to Home Assistant sensors. Readings are rate limited
// and smoothed for display; status is published on every control tick so
// the valve trace stays faithful.
func (c *Client) GetPublisher(readingChan <-chan sensor.Reading, statusChan <-chan radvalve.Status, lightChan <-chan uint64) func() error {
	roomTemp := c.RegisterHassSensor(c.NewHassSensor("Room Temperature", HassSensorTemperature))
	roomHumidity := c.RegisterHassSensor(c.NewHassSensor("Room Humidity", HassSensorHumidity))
	tempTrend := c.RegisterHassSensor(c.NewHassSensor("Temperature Trend", HassSensorTemperature))
	irLight := c.RegisterHassSensor(c.NewHassSensor("Infrared Light", HassSensorIlluminance))
	valvePC := c.RegisterHassSensor(c.NewHassSensor("Valve Open", HassSensorPercent))
	targetTemp := c.RegisterHassSensor(c.NewHassSensor("Target Temperature", HassSensorTemperature))
	smoothedTemp := c.RegisterHassSensor(c.NewHassSensor("Control Temperature", HassSensorTemperature))
	cumulativeMove := c.RegisterHassSensor(c.NewHassSensor("Cumulative Valve Movement", HassSensorPercent))
	callingForHeat := c.RegisterHassSensor(c.NewHassBinarySensor("Calling For Heat", "heat"))
	filtering := c.RegisterHassSensor(c.NewHassBinarySensor("Temperature Filtering", ""))

	readingSample := NewSample(c.sampleRate)
	lightSample := NewSample(c.sampleRate)
	displayTemp := stats.NewWindow(c.sampleRate)
	trend := stats.NewTrend(10)

	return func() error {
		for {
			select {
			case r := <-readingChan:
				smoothed := displayTemp.Add(r.Celsius)
				trend.Add(r.Celsius)
				if !readingSample.Ready() {
					continue
				}
				slog.Debug("mqtt publishing", "field", "reading", "value", r.Celsius)
				c.HassPublishSensor(roomTemp, strconv.FormatFloat(smoothed, 'f', 2, 64))
				if !math.IsNaN(r.Humidity) {
					c.HassPublishSensor(roomHumidity, strconv.FormatFloat(r.Humidity, 'f', 1, 64))
				}
				c.HassPublishSensor(tempTrend, strconv.FormatFloat(trend.PerHour(c.sampleInterval), 'f', 2, 64))
			case st := <-statusChan:
				slog.Debug("mqtt publishing", "field", "status", "value", st)
				c.HassPublishSensor(valvePC, strconv.Itoa(int(st.PercentOpen)))
				c.HassPublishSensor(targetTemp, strconv.Itoa(st.TargetTempC))
				c.HassPublishSensor(smoothedTemp, strconv.FormatFloat(st.SmoothedTempC16.Celsius(), 'f', 2, 64))
				c.HassPublishSensor(cumulativeMove, strconv.FormatUint(uint64(st.CumulativeMovementPC), 10))
				c.HassPublishBinary(callingForHeat, st.CallingForHeat)
				c.HassPublishBinary(filtering, st.Filtering)
			case l := <-lightChan:
				if !lightSample.Ready() {
					continue
				}
				c.HassPublishSensor(irLight, strconv.FormatUint(l, 10))
			}
		}
	}
}

func (c *Client) Publish(topic string, msg string) {
	t := c.client.Publish(topic, c.qos, c.retained, msg)
	go func() {
		_ = t.WaitTimeout(5 * time.Second)
		if t.Error() != nil {
			slog.Error("mqtt message publish failed", "error", t.Error())
		}
	}()
}
