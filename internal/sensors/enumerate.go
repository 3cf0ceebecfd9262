package sensors

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/jkaberg/kidde-hass/internal/kidde"
)

// Enumerate walks every device in the snapshot and instantiates a sensor
// for each catalog field present in that device's raw data. It runs once at
// setup; later snapshots only change the values the sensors read, not the
// set of sensors.
func Enumerate(src Source, snap *kidde.Snapshot, logger *logrus.Logger) []Sensor {
	ids := make([]string, 0, len(snap.Devices))
	for id := range snap.Devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []Sensor
	for _, id := range ids {
		out = append(out, ForDevice(src, id, snap.Devices[id], logger)...)
	}
	return out
}

// ForDevice instantiates the sensors of a single device. A field yields at
// most one sensor: "life" is handled before the plain scalar pass and
// excluded from it, and the battery voltage variants are suppressed
// entirely on DETECT series models because the API reports meaningless
// zeros for them there.
func ForDevice(src Source, deviceID string, data kidde.DeviceData, logger *logrus.Logger) []Sensor {
	mbModel, hasMBModel := data.MBModel()
	logger.WithFields(logrus.Fields{
		"device_id": deviceID,
		"model":     data.Model(),
		"mb_model":  mbModel,
	}).Debug("Enumerating device")

	detect := hasMBModel && IsDetectSeries(mbModel)

	var out []Sensor
	for _, desc := range TimestampDescriptions {
		if !data.Has(desc.Key) {
			continue
		}
		out = append(out, &TimestampSensor{base(src, deviceID, desc, logger)})
	}

	if data.Has(LifeKey) {
		if desc, ok := lookupSimple(LifeKey); ok {
			out = append(out, &LifeSensor{base(src, deviceID, desc, logger)})
		}
	}

	for _, desc := range SimpleDescriptions {
		if desc.Key == LifeKey {
			continue
		}
		if _, skip := skipSimpleKeys[desc.Key]; skip && detect {
			logger.WithFields(logrus.Fields{
				"key":      desc.Key,
				"mb_model": mbModel,
			}).Debug("Skipping sensor on DETECT series model")
			continue
		}
		if !data.Has(desc.Key) {
			continue
		}
		out = append(out, &SimpleSensor{base(src, deviceID, desc, logger)})
	}

	for _, desc := range MeasurementDescriptions {
		if !data.Has(desc.Key) {
			continue
		}
		out = append(out, &MeasurementSensor{base(src, deviceID, desc, logger)})
	}

	return out
}

func base(src Source, deviceID string, desc Description, logger *logrus.Logger) baseSensor {
	return baseSensor{src: src, deviceID: deviceID, desc: desc, logger: logger}
}

func lookupSimple(key string) (Description, bool) {
	for _, desc := range SimpleDescriptions {
		if desc.Key == key {
			return desc, true
		}
	}
	return Description{}, false
}
