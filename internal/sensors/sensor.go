package sensors

import (
	"github.com/sirupsen/logrus"

	"github.com/jkaberg/kidde-hass/internal/kidde"
)

// Source provides the current raw data for a device. The coordinator
// implements it; sensors hold no data of their own and re-read the snapshot
// on every call.
type Source interface {
	Device(id string) (kidde.DeviceData, bool)
}

// Sensor is one displayable value of one device. All methods are pure reads
// of the current snapshot: a nil Value means unknown, an empty Unit means no
// unit, and Attributes is nil unless the sensor kind defines extra state.
type Sensor interface {
	DeviceID() string
	Description() Description
	Value() any
	Unit() string
	Attributes() map[string]any
}

type baseSensor struct {
	src      Source
	deviceID string
	desc     Description
	logger   *logrus.Logger
}

func (s *baseSensor) DeviceID() string         { return s.deviceID }
func (s *baseSensor) Description() Description { return s.desc }
func (s *baseSensor) Unit() string             { return s.desc.UnitOfMeasurement }
func (s *baseSensor) Attributes() map[string]any {
	return nil
}

// raw returns the sensor's field from the current snapshot. The second
// return is false when the device or the field has disappeared since
// enumeration.
func (s *baseSensor) raw() (any, bool) {
	data, ok := s.src.Device(s.deviceID)
	if !ok {
		return nil, false
	}
	v, ok := data[s.desc.Key]
	return v, ok
}

// TimestampSensor renders an ISO-8601-ish string field as a UTC time.Time.
type TimestampSensor struct {
	baseSensor
}

func (s *TimestampSensor) Value() any {
	raw, ok := s.raw()
	if !ok || raw == nil {
		return nil
	}
	str, ok := raw.(string)
	if !ok {
		s.logger.WithFields(logrus.Fields{
			"key":       s.desc.Key,
			"device_id": s.deviceID,
		}).Debug("Expected string for timestamp field")
		return nil
	}
	t, ok := ParseTimestamp(str, s.logger)
	if !ok {
		return nil
	}
	return t
}

// SimpleSensor renders a scalar field as-is.
type SimpleSensor struct {
	baseSensor
}

func (s *SimpleSensor) Value() any {
	raw, ok := s.raw()
	if !ok {
		return nil
	}
	return raw
}

// LifeSensor is the "life" field with model-dependent name and unit. The
// value itself is a plain passthrough; only the description varies, so it is
// resolved against the live device data on every read rather than taken
// from the static table.
type LifeSensor struct {
	baseSensor
}

func (s *LifeSensor) Description() Description {
	desc := s.desc
	data, ok := s.src.Device(s.deviceID)
	if !ok {
		return desc
	}
	cfg := LifeConfigFor(data)
	desc.Name = cfg.Name
	desc.UnitOfMeasurement = cfg.Unit
	return desc
}

func (s *LifeSensor) Unit() string {
	return s.Description().UnitOfMeasurement
}

func (s *LifeSensor) Value() any {
	raw, ok := s.raw()
	if !ok {
		return nil
	}
	return raw
}

// MeasurementSensor renders a nested measurement object. The numeric value,
// the display unit and the qualitative status all come out of the object; a
// malformed (non-object) field degrades to unknown value, no unit and a nil
// status, never a failure.
type MeasurementSensor struct {
	baseSensor
}

func (s *MeasurementSensor) object() (map[string]any, bool) {
	raw, ok := s.raw()
	if !ok {
		return nil, false
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		s.logger.WithFields(logrus.Fields{
			"key":       s.desc.Key,
			"device_id": s.deviceID,
		}).Debug("Expected measurement object")
		return nil, false
	}
	return obj, true
}

func (s *MeasurementSensor) Value() any {
	obj, ok := s.object()
	if !ok {
		return nil
	}
	return obj[keyValue]
}

func (s *MeasurementSensor) Unit() string {
	obj, ok := s.object()
	if !ok {
		return ""
	}
	code, _ := obj[keyUnit].(string)
	unit, ok := TranslateUnit(code)
	if !ok {
		s.logger.WithFields(logrus.Fields{
			"key":  s.desc.Key,
			"unit": code,
		}).Debug("Unknown unit code")
		return ""
	}
	return unit
}

// Attributes always carries the Status key, nil-valued when the source
// object is malformed or the status is absent.
func (s *MeasurementSensor) Attributes() map[string]any {
	obj, ok := s.object()
	if !ok {
		return map[string]any{"Status": nil}
	}
	return map[string]any{"Status": obj[keyStatus]}
}
