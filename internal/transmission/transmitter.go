package transmission

import "github.com/jkaberg/kidde-hass/internal/sensors"

// Transmitter defines the interface for publishing sensor state downstream.
type Transmitter interface {
	Transmit(list []sensors.Sensor) error
	IsConnected() bool
}
