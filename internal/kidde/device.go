package kidde

import (
	"fmt"
	"time"
)

// DeviceData is the raw per-device field mapping as decoded from the cloud
// API. Values are scalars (string / float64), nested measurement objects
// (map[string]any) or booleans. The mapping is replaced wholesale on every
// refresh and is never mutated by readers.
type DeviceData map[string]any

// Snapshot is one full refresh cycle worth of device data, keyed by device
// identifier.
type Snapshot struct {
	FetchedAt time.Time
	Devices   map[string]DeviceData
}

// Has reports whether the field key is present in the raw data.
func (d DeviceData) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns the field as a string if present and string-typed.
func (d DeviceData) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

// Number returns the field as a float64 if present and numeric. JSON numbers
// decode as float64, so that is the only numeric shape to consider.
func (d DeviceData) Number(key string) (float64, bool) {
	f, ok := d[key].(float64)
	return f, ok
}

// Object returns the field as a nested object if present and object-typed.
func (d DeviceData) Object(key string) (map[string]any, bool) {
	m, ok := d[key].(map[string]any)
	return m, ok
}

// MBModel returns the detector's mb_model code. ok is false when the field
// is absent or not numeric.
func (d DeviceData) MBModel() (int, bool) {
	f, ok := d.Number("mb_model")
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Model returns the human-readable model string, or "Unknown".
func (d DeviceData) Model() string {
	if s, ok := d.String("model"); ok && s != "" {
		return s
	}
	return "Unknown"
}

// Serial returns the device serial number, or "".
func (d DeviceData) Serial() string {
	s, _ := d.String("serial_number")
	return s
}

// Label returns the user-assigned device label, falling back to the model
// string when no label is set.
func (d DeviceData) Label() string {
	if s, ok := d.String("label"); ok && s != "" {
		return s
	}
	return d.Model()
}

// deviceID extracts the identifier from a raw device object. Kidde reports
// ids as JSON numbers.
func deviceID(d DeviceData) (string, bool) {
	if f, ok := d.Number("id"); ok {
		return fmt.Sprintf("%.0f", f), true
	}
	if s, ok := d.String("id"); ok && s != "" {
		return s, true
	}
	return "", false
}
