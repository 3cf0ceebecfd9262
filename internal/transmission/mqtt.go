package transmission

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jkaberg/kidde-hass/internal/mqtt"
	"github.com/jkaberg/kidde-hass/internal/sensors"
)

// MQTTTransmitter publishes sensor state and Home Assistant discovery
// configs via MQTT.
type MQTTTransmitter struct {
	client          *mqtt.Client
	src             sensors.Source
	discoveryPrefix string
	logger          *logrus.Logger
	published       map[string]bool // tracks published discovery configs
}

// HADiscoveryConfig represents Home Assistant MQTT discovery configuration.
type HADiscoveryConfig struct {
	Name                string   `json:"name"`
	UniqueID            string   `json:"unique_id"`
	StateTopic          string   `json:"state_topic"`
	ValueTemplate       string   `json:"value_template,omitempty"`
	DeviceClass         string   `json:"device_class,omitempty"`
	StateClass          string   `json:"state_class,omitempty"`
	UnitOfMeasurement   string   `json:"unit_of_measurement,omitempty"`
	Icon                string   `json:"icon,omitempty"`
	EntityCategory      string   `json:"entity_category,omitempty"`
	EnabledByDefault    bool     `json:"enabled_by_default"`
	SuggestedPrecision  int      `json:"suggested_display_precision,omitempty"`
	Options             []string `json:"options,omitempty"`
	JSONAttributesTopic string   `json:"json_attributes_topic,omitempty"`
	AvailabilityTopic   string   `json:"availability_topic"`
	Device              HADevice `json:"device"`
}

// HADevice represents the device information for Home Assistant.
type HADevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
	SerialNumber string   `json:"serial_number,omitempty"`
}

// NewMQTTTransmitter creates a new MQTT transmitter.
func NewMQTTTransmitter(client *mqtt.Client, src sensors.Source, discoveryPrefix string, logger *logrus.Logger) *MQTTTransmitter {
	return &MQTTTransmitter{
		client:          client,
		src:             src,
		discoveryPrefix: discoveryPrefix,
		logger:          logger,
		published:       make(map[string]bool),
	}
}

// Transmit publishes discovery configs (once per sensor) followed by the
// current state of every device and the bridge availability.
func (t *MQTTTransmitter) Transmit(list []sensors.Sensor) error {
	if !t.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	for _, s := range list {
		if err := t.publishDiscovery(s); err != nil {
			t.logger.WithError(err).WithField("key", s.Description().Key).Error("Failed to publish discovery config")
			// continue with the remaining sensors
		}
	}

	if err := t.publishState(list); err != nil {
		return fmt.Errorf("failed to publish sensor state: %w", err)
	}

	if err := t.client.Publish(mqtt.AvailabilityTopic(), []byte("online"), true); err != nil {
		return fmt.Errorf("failed to publish availability: %w", err)
	}

	t.logger.Debug("Data transmitted successfully")
	return nil
}

// IsConnected checks if the MQTT client is connected.
func (t *MQTTTransmitter) IsConnected() bool {
	return t.client.IsConnected()
}

// DiscoveryConfig builds the discovery topic and payload for one sensor.
// The description is read through the sensor so the life sensor resolves
// its model-dependent name and unit here.
func (t *MQTTTransmitter) DiscoveryConfig(s sensors.Sensor) (string, HADiscoveryConfig) {
	desc := s.Description()
	deviceID := s.DeviceID()
	uniqueID := fmt.Sprintf("kidde_%s_%s", deviceID, desc.Key)

	config := HADiscoveryConfig{
		Name:               desc.Name,
		UniqueID:           uniqueID,
		StateTopic:         mqtt.StateTopic(deviceID),
		ValueTemplate:      fmt.Sprintf("{{ value_json.%s }}", desc.Key),
		DeviceClass:        desc.DeviceClass,
		StateClass:         desc.StateClass,
		UnitOfMeasurement:  s.Unit(),
		Icon:               desc.Icon,
		EnabledByDefault:   desc.EnabledDefault,
		SuggestedPrecision: desc.Precision,
		Options:            desc.Options,
		AvailabilityTopic:  mqtt.AvailabilityTopic(),
		Device:             t.haDevice(deviceID),
	}
	if desc.Diagnostic {
		config.EntityCategory = "diagnostic"
	}
	if s.Attributes() != nil {
		config.JSONAttributesTopic = mqtt.AttributesTopic(deviceID, desc.Key)
	}

	return mqtt.DiscoveryTopic(t.discoveryPrefix, deviceID, desc.Key), config
}

// BuildStatePayloads renders the current value of every sensor into one
// JSON-able map per device, keyed by field. Unknown values become nulls so
// the entities show as unavailable rather than stale.
func (t *MQTTTransmitter) BuildStatePayloads(list []sensors.Sensor) map[string]map[string]any {
	states := make(map[string]map[string]any)
	for _, s := range list {
		state, ok := states[s.DeviceID()]
		if !ok {
			state = make(map[string]any)
			states[s.DeviceID()] = state
		}
		state[s.Description().Key] = renderValue(s.Value())
	}
	return states
}

func (t *MQTTTransmitter) publishDiscovery(s sensors.Sensor) error {
	topic, config := t.DiscoveryConfig(s)
	if t.published[config.UniqueID] {
		return nil
	}

	payload, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal discovery config: %w", err)
	}
	if err := t.client.Publish(topic, payload, true); err != nil {
		return fmt.Errorf("failed to publish discovery config to %s: %w", topic, err)
	}

	t.logger.WithFields(logrus.Fields{
		"sensor_name": config.Name,
		"unique_id":   config.UniqueID,
		"topic":       topic,
	}).Info("Published sensor discovery config")

	t.published[config.UniqueID] = true
	return nil
}

func (t *MQTTTransmitter) publishState(list []sensors.Sensor) error {
	states := t.BuildStatePayloads(list)

	ids := make([]string, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, deviceID := range ids {
		payload, err := json.Marshal(states[deviceID])
		if err != nil {
			return fmt.Errorf("failed to marshal state for device %s: %w", deviceID, err)
		}
		if err := t.client.Publish(mqtt.StateTopic(deviceID), payload, true); err != nil {
			return err
		}
	}

	// Attributes topics carry the qualitative Status of measurement fields.
	for _, s := range list {
		attrs := s.Attributes()
		if attrs == nil {
			continue
		}
		payload, err := json.Marshal(attrs)
		if err != nil {
			return fmt.Errorf("failed to marshal attributes for %s: %w", s.Description().Key, err)
		}
		topic := mqtt.AttributesTopic(s.DeviceID(), s.Description().Key)
		if err := t.client.Publish(topic, payload, true); err != nil {
			return err
		}
	}

	return nil
}

// haDevice builds the Home Assistant device block from the current raw
// data. A device that has vanished from the snapshot still gets a valid
// identifier so already-registered entities stay linked.
func (t *MQTTTransmitter) haDevice(deviceID string) HADevice {
	device := HADevice{
		Identifiers:  []string{fmt.Sprintf("kidde_%s", deviceID)},
		Name:         "Kidde Detector",
		Model:        "Unknown",
		Manufacturer: "Kidde",
	}
	if data, ok := t.src.Device(deviceID); ok {
		device.Name = data.Label()
		device.Model = data.Model()
		device.SerialNumber = data.Serial()
	}
	return device
}

// renderValue converts a sensor value into its MQTT JSON representation.
// Timestamps are serialized RFC3339 for Home Assistant's timestamp device
// class; everything else passes through.
func renderValue(v any) any {
	if ts, ok := v.(time.Time); ok {
		return ts.Format(time.RFC3339)
	}
	return v
}
