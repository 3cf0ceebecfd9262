package sensors

// Description provides display metadata for a single telemetry field as it
// should appear in Home Assistant. The tables below are fixed at process
// start; the only per-device variation is the "life" sensor, whose name and
// unit depend on the reporting detector model (see life.go).
type Description struct {
	Key               string
	Name              string
	Icon              string
	DeviceClass       string // HA device_class, may be ""
	StateClass        string // "measurement" or ""
	UnitOfMeasurement string
	Precision         int  // suggested display precision, 0 = unset
	Diagnostic        bool // entity_category: diagnostic
	EnabledDefault    bool
	Options           []string // enum options, only for enum device class
}

// Nested measurement object keys, e.g.
// "tvoc": {"value": 605.09, "status": "Moderate", "Unit": "ppb"}.
const (
	keyValue  = "value"
	keyStatus = "status"
	keyUnit   = "Unit"
)

// LifeKey is the end-of-life counter field, the one catalog entry whose
// display metadata depends on the reporting device model.
const LifeKey = "life"

// DetectSeriesModels holds the mb_model codes of the DETECT series
// detectors. These models report their battery voltage fields as constant
// zeros, so those fields are suppressed for them, and their "life" counter
// counts days rather than weeks.
var DetectSeriesModels = map[int]struct{}{
	46: {},
	48: {},
}

// skipSimpleKeys lists the plain sensor keys suppressed on DETECT models.
var skipSimpleKeys = map[string]struct{}{
	"batt_volt":       {},
	"battery_voltage": {},
}

// TimestampDescriptions are fields whose raw value is an ISO-8601-ish UTC
// string (see ParseTimestamp).
var TimestampDescriptions = []Description{
	{
		Key:            "last_seen",
		Name:           "Last Seen",
		Icon:           "mdi:home-clock",
		DeviceClass:    "timestamp",
		EnabledDefault: true,
	},
	{
		Key:            "last_test_time",
		Name:           "Last Test Time",
		Icon:           "mdi:home-clock",
		DeviceClass:    "timestamp",
		EnabledDefault: true,
	},
	{
		Key:            "iaq_last_test_time",
		Name:           "IAQ Last Test Time",
		Icon:           "mdi:home-clock",
		DeviceClass:    "timestamp",
		EnabledDefault: true,
	},
}

// SimpleDescriptions are scalar fields rendered as-is. The "life" entry is
// special-cased during enumeration: it gets a model-aware sensor and is
// skipped by the plain loop.
var SimpleDescriptions = []Description{
	{
		Key:            "overall_iaq_status",
		Name:           "Overall Air Quality",
		Icon:           "mdi:air-filter",
		DeviceClass:    "enum",
		Options:        []string{"Very Bad", "Bad", "Moderate", "Good"},
		EnabledDefault: true,
	},
	{
		Key:            "smoke_level",
		Name:           "Smoke Level",
		Icon:           "mdi:smoke",
		StateClass:     "measurement",
		EnabledDefault: true,
	},
	{
		Key:            "co_level",
		Name:           "CO Level",
		Icon:           "mdi:molecule-co",
		StateClass:     "measurement",
		EnabledDefault: true,
	},
	{
		Key:               "batt_volt",
		Name:              "Battery Voltage",
		Icon:              "mdi:battery",
		DeviceClass:       "voltage",
		StateClass:        "measurement",
		UnitOfMeasurement: "V",
		Precision:         2,
		EnabledDefault:    true,
	},
	{
		Key:               LifeKey,
		Name:              "Weeks to replace",
		Icon:              "mdi:calendar-clock",
		StateClass:        "measurement",
		UnitOfMeasurement: "w",
		EnabledDefault:    true,
	},
	{
		Key:               "ap_rssi",
		Name:              "Signal strength",
		Icon:              "mdi:wifi-strength-3",
		DeviceClass:       "signal_strength",
		StateClass:        "measurement",
		UnitOfMeasurement: "dB",
		Diagnostic:        true,
		EnabledDefault:    false,
	},
	{
		Key:            "ssid",
		Name:           "SSID",
		Icon:           "mdi:wifi",
		Diagnostic:     true,
		EnabledDefault: false,
	},
	{
		Key:            "alarm_interval",
		Name:           "Alarm Interval",
		Icon:           "mdi:alarm-check",
		Diagnostic:     true,
		EnabledDefault: true,
	},
	{
		Key:            "alarm_reset_time",
		Name:           "Alarm Reset Time",
		Icon:           "mdi:alarm-snooze",
		Diagnostic:     true,
		EnabledDefault: true,
	},
	{
		Key:            "battery_level",
		Name:           "Battery Level",
		Icon:           "mdi:battery-high",
		StateClass:     "measurement",
		Diagnostic:     true,
		EnabledDefault: true,
	},
	{
		Key:               "battery_voltage",
		Name:              "Battery Voltage",
		Icon:              "mdi:battery",
		DeviceClass:       "voltage",
		StateClass:        "measurement",
		UnitOfMeasurement: "V",
		Precision:         2,
		Diagnostic:        true,
		EnabledDefault:    true,
	},
	{
		Key:               "checkin_interval",
		Name:              "Checkin Interval",
		Icon:              "mdi:clock-check",
		StateClass:        "measurement",
		UnitOfMeasurement: "h",
		Diagnostic:        true,
		EnabledDefault:    true,
	},
	{
		Key:            "hold_alarm_time",
		Name:           "Alarm Hold Time",
		Icon:           "mdi:alarm-plus",
		Diagnostic:     true,
		EnabledDefault: true,
	},
	{
		Key:            "rapid_temperature_variation_status",
		Name:           "Temperature Variation Status",
		Icon:           "mdi:swap-vertical-variant",
		Diagnostic:     true,
		EnabledDefault: true,
	},
	{
		Key:            "temperature_variation_value",
		Name:           "Temperature Variation",
		Icon:           "mdi:swap-vertical-variant",
		Diagnostic:     true,
		EnabledDefault: true,
	},
	{
		Key:               "temperature",
		Name:              "Temperature",
		Icon:              "mdi:home-thermometer",
		DeviceClass:       "temperature",
		StateClass:        "measurement",
		UnitOfMeasurement: "°F",
		EnabledDefault:    true,
	},
}

// MeasurementDescriptions are fields whose raw value is a nested object
// carrying a numeric value, a qualitative status string and a unit code.
// Their unit of measurement comes from the payload, not from this table.
var MeasurementDescriptions = []Description{
	{
		Key:            "iaq_temperature",
		Name:           "Indoor Temperature",
		DeviceClass:    "temperature",
		StateClass:     "measurement",
		EnabledDefault: true,
	},
	{
		Key:            "humidity",
		Name:           "Humidity",
		DeviceClass:    "humidity",
		StateClass:     "measurement",
		EnabledDefault: true,
	},
	{
		Key:            "hpa",
		Name:           "Air Pressure",
		DeviceClass:    "atmospheric_pressure",
		StateClass:     "measurement",
		EnabledDefault: true,
	},
	{
		Key:            "tvoc",
		Name:           "Total VOC",
		DeviceClass:    "volatile_organic_compounds_parts",
		StateClass:     "measurement",
		EnabledDefault: true,
	},
	{
		Key:            "iaq",
		Name:           "Indoor Air Quality",
		DeviceClass:    "aqi",
		StateClass:     "measurement",
		EnabledDefault: true,
	},
	{
		Key:            "co2",
		Name:           "CO₂ Level",
		DeviceClass:    "carbon_dioxide",
		StateClass:     "measurement",
		EnabledDefault: true,
	},
}

// IsDetectSeries reports whether the given mb_model code belongs to the
// DETECT series.
func IsDetectSeries(mbModel int) bool {
	_, ok := DetectSeriesModels[mbModel]
	return ok
}
