package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all configuration options for the kidde-hass bridge.
type Config struct {
	// Kidde cloud account
	KiddeEmail    string `json:"kidde_email"`    // HomeSafe account email
	KiddePassword string `json:"kidde_password"` // HomeSafe account password
	KiddeBaseURL  string `json:"kidde_base_url"` // API base URL override, mostly for testing

	// MQTT Configuration
	MQTTUrl         string `json:"mqtt_url"`         // MQTT URL (supports both WebSocket and standard MQTT)
	DiscoveryPrefix string `json:"discovery_prefix"` // Home Assistant discovery prefix

	// Application Configuration
	BridgeID string `json:"bridge_id"` // Unique identifier for this bridge instance
	Verbose  bool   `json:"verbose"`   // Enable verbose logging

	// Intervals (zero means use the defaults from defaults.go)
	PollInterval time.Duration `json:"poll_interval"` // Cloud API poll cadence
	MQTTInterval time.Duration `json:"mqtt_interval"` // Minimum time between MQTT publishes
	APITimeout   time.Duration `json:"api_timeout"`   // Cloud API request timeout
}

// GetDefaultConfig returns a configuration with sensible defaults.
func GetDefaultConfig() *Config {
	return &Config{
		DiscoveryPrefix: "homeassistant",
		BridgeID:        "kidde",
		Verbose:         false,
		PollInterval:    KiddePollInterval,
		MQTTInterval:    MQTTTransmitInterval,
		APITimeout:      KiddeTimeout,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.KiddeEmail == "" || c.KiddePassword == "" {
		return fmt.Errorf("kidde email and password are required")
	}
	if c.BridgeID == "" {
		return fmt.Errorf("bridge ID is required")
	}

	// MQTT validation - support both WebSocket and standard MQTT protocols
	if c.MQTTUrl != "" {
		if !strings.HasPrefix(c.MQTTUrl, "ws://") &&
			!strings.HasPrefix(c.MQTTUrl, "wss://") &&
			!strings.HasPrefix(c.MQTTUrl, "mqtt://") &&
			!strings.HasPrefix(c.MQTTUrl, "mqtts://") {
			return fmt.Errorf("MQTT URL must use supported protocol (ws://, wss://, mqtt://, or mqtts://)")
		}
	}

	// Set defaults for invalid values
	if c.PollInterval <= 0 {
		c.PollInterval = KiddePollInterval
	}
	if c.MQTTInterval <= 0 {
		c.MQTTInterval = MQTTTransmitInterval
	}
	if c.APITimeout <= 0 {
		c.APITimeout = KiddeTimeout
	}

	return nil
}

// HasMQTT returns true if MQTT is configured.
func (c *Config) HasMQTT() bool {
	return c.MQTTUrl != ""
}
