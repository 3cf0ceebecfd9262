package sensors

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestParseTimestamp(t *testing.T) {
	logger := testLogger()

	testCases := []struct {
		name     string
		raw      string
		expected time.Time
		ok       bool
	}{
		{
			name:     "fractional seconds and zone marker",
			raw:      "2024-06-14T03:40:39.667544824Z",
			expected: time.Date(2024, 6, 14, 3, 40, 39, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "whole seconds",
			raw:      "2024-06-22T16:00:19Z",
			expected: time.Date(2024, 6, 22, 16, 0, 19, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "no zone marker",
			raw:      "2024-06-22T16:00:19",
			expected: time.Date(2024, 6, 22, 16, 0, 19, 0, time.UTC),
			ok:       true,
		},
		{
			name: "malformed",
			raw:  "not-a-date",
			ok:   false,
		},
		{
			name: "empty",
			raw:  "",
			ok:   false,
		},
		{
			name: "date only",
			raw:  "2024-06-22",
			ok:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tc.raw, logger)
			if ok != tc.ok {
				t.Fatalf("ParseTimestamp(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
			}
			if !tc.ok {
				return
			}
			if !got.Equal(tc.expected) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tc.raw, got, tc.expected)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseTimestamp(%q) location = %v, want UTC", tc.raw, got.Location())
			}
		})
	}
}

func TestParseTimestampTruncatesToWholeSeconds(t *testing.T) {
	logger := testLogger()

	a, ok := ParseTimestamp("2024-06-14T03:40:39.667544824Z", logger)
	if !ok {
		t.Fatal("expected fractional timestamp to parse")
	}
	b, ok := ParseTimestamp("2024-06-14T03:40:39Z", logger)
	if !ok {
		t.Fatal("expected whole-second timestamp to parse")
	}
	if !a.Equal(b) {
		t.Errorf("expected identical instants, got %v and %v", a, b)
	}
}

func TestTranslateUnit(t *testing.T) {
	testCases := []struct {
		code     string
		expected string
		ok       bool
	}{
		{"C", "°C", true},
		{"c", "°C", true},
		{"F", "°F", true},
		{"%RH", "%", true},
		{"%rh", "%", true},
		{"HPA", "Pa", true},
		{"hpa", "Pa", true},
		{"Hpa", "Pa", true},
		{"PPB", "ppb", true},
		{"ppm", "ppm", true},
		{"V", "V", true},
		{"XYZ", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			got, ok := TranslateUnit(tc.code)
			if ok != tc.ok {
				t.Fatalf("TranslateUnit(%q) ok = %v, want %v", tc.code, ok, tc.ok)
			}
			if got != tc.expected {
				t.Errorf("TranslateUnit(%q) = %q, want %q", tc.code, got, tc.expected)
			}
		})
	}
}
