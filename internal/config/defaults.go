package config

import "time"

// Central place for all application-wide timing constants. Changing a value
// here immediately affects all components that import
// github.com/jkaberg/kidde-hass/internal/config.

const (
	// Polling / transmission intervals
	KiddePollInterval    = 60 * time.Second // Poll the HomeSafe cloud API
	MQTTTransmitInterval = 60 * time.Second // Publish data to MQTT

	// Operation time-outs (to avoid blocking goroutines)
	KiddeTimeout = 30 * time.Second // Cloud API call
	MQTTTimeout  = 5 * time.Second  // MQTT publish
)
