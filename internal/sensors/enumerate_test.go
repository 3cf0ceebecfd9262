package sensors

import (
	"testing"

	"github.com/jkaberg/kidde-hass/internal/kidde"
)

func keysOf(list []Sensor) map[string]int {
	counts := make(map[string]int)
	for _, s := range list {
		counts[s.Description().Key]++
	}
	return counts
}

func TestForDevicePresenceDriven(t *testing.T) {
	data := kidde.DeviceData{
		"model":     "KN-COPE-I",
		"mb_model":  10.0,
		"last_seen": "2024-06-22T16:00:19Z",
		"co_level":  0.0,
		"life":      42.0,
		"humidity":  map[string]any{"value": 48.0, "status": "Good", "Unit": "%rh"},
	}
	src := staticSource{"1": data}

	list := ForDevice(src, "1", data, testLogger())
	counts := keysOf(list)

	expected := []string{"last_seen", "co_level", "life", "humidity"}
	if len(list) != len(expected) {
		t.Fatalf("ForDevice returned %d sensors (%v), want %d", len(list), counts, len(expected))
	}
	for _, key := range expected {
		if counts[key] != 1 {
			t.Errorf("key %q instantiated %d times, want 1", key, counts[key])
		}
	}
}

func TestForDeviceLifeNotDuplicated(t *testing.T) {
	data := kidde.DeviceData{"life": 42.0, "mb_model": 48.0}
	src := staticSource{"1": data}

	list := ForDevice(src, "1", data, testLogger())
	if counts := keysOf(list); counts[LifeKey] != 1 {
		t.Fatalf("life instantiated %d times, want 1", counts[LifeKey])
	}
	if _, ok := list[0].(*LifeSensor); !ok {
		t.Errorf("life sensor has type %T, want *LifeSensor", list[0])
	}
}

func TestForDeviceSkipSet(t *testing.T) {
	testCases := []struct {
		name     string
		mbModel  float64
		expected int // battery voltage sensors expected
	}{
		{"detect smoke only", 46, 0},
		{"detect smoke/co", 48, 0},
		{"other model", 10, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := kidde.DeviceData{
				"mb_model":        tc.mbModel,
				"batt_volt":       0.0,
				"battery_voltage": 0.0,
			}
			src := staticSource{"1": data}

			counts := keysOf(ForDevice(src, "1", data, testLogger()))
			got := counts["batt_volt"] + counts["battery_voltage"]
			if got != tc.expected {
				t.Errorf("mb_model %v: %d voltage sensors, want %d", tc.mbModel, got, tc.expected)
			}
		})
	}
}

func TestForDeviceMissingModelKeepsVoltage(t *testing.T) {
	data := kidde.DeviceData{"batt_volt": 4.3}
	src := staticSource{"1": data}

	counts := keysOf(ForDevice(src, "1", data, testLogger()))
	if counts["batt_volt"] != 1 {
		t.Errorf("batt_volt instantiated %d times, want 1 when mb_model absent", counts["batt_volt"])
	}
}

func TestEnumerateAcrossDevices(t *testing.T) {
	snap := &kidde.Snapshot{
		Devices: map[string]kidde.DeviceData{
			"b": {"last_seen": "2024-06-22T16:00:19Z"},
			"a": {"co_level": 1.0, "smoke_level": 2.0},
		},
	}
	src := staticSource(snap.Devices)

	list := Enumerate(src, snap, testLogger())
	if len(list) != 3 {
		t.Fatalf("Enumerate returned %d sensors, want 3", len(list))
	}
	// Device order is sorted for deterministic discovery publishing.
	if list[0].DeviceID() != "a" || list[2].DeviceID() != "b" {
		t.Errorf("unexpected device order: %s, %s, %s",
			list[0].DeviceID(), list[1].DeviceID(), list[2].DeviceID())
	}
}
