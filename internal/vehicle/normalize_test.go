package vehicle

import (
	"encoding/json"
	"testing"
)

func TestNumberOrZero(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected interface{}
	}{
		{name: "nil", value: nil, expected: 0},
		{name: "empty", value: "", expected: 0},
		{name: "nil_marker", value: "<nil>", expected: 0},
		{name: "integer_string", value: "42", expected: 42.0},
		{name: "float_string", value: "35.6895", expected: 35.6895},
		{name: "text", value: "abc", expected: 0},
		{name: "nan", value: "NaN", expected: 0},
		{name: "inf", value: "inf", expected: 0},
		{name: "negative_infinity", value: "-Infinity", expected: 0},
		{name: "overflow", value: "1e400", expected: 0},
		{name: "number", value: 7.0, expected: 7.0},
		{name: "bool", value: true, expected: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := NumberOrZero(test.value); got != test.expected {
				t.Errorf("NumberOrZero(%v), got: %v (%T), expected: %v (%T)", test.value, got, got, test.expected, test.expected)
			}
		})
	}
}

func TestVehicleCode(t *testing.T) {
	tests := []struct {
		name     string
		vehicle  string
		expected int
	}{
		{name: "empty", vehicle: "", expected: 0},
		{name: "digits_joined", vehicle: "品川800あ11", expected: 80011},
		{name: "single_group", vehicle: "truck-12", expected: 12},
		{name: "wraps_at_int32", vehicle: "2147483648", expected: 1},
		{name: "long_digits", vehicle: "99999999999999999999", expected: 99999999999999999999 % maxVehicleCode},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := VehicleCode(test.vehicle); got != test.expected {
				t.Errorf("VehicleCode(%q), got: %v, expected: %v", test.vehicle, got, test.expected)
			}
		})
	}
}

func TestVehicleCodeHashFallback(t *testing.T) {
	a := VehicleCode("トラック")
	b := VehicleCode("トラック")
	if a != b {
		t.Errorf("hash fallback must be stable, got: %v and %v", a, b)
	}
	if a <= 0 || a >= maxVehicleCode {
		t.Errorf("hash fallback out of range: %v", a)
	}
	if a == VehicleCode("バス") {
		t.Errorf("different names produced the same code %v", a)
	}
}

func TestFormatDateTime(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{value: "", expected: ""},
		{value: "<nil>", expected: ""},
		{value: "2025/09/29 15:30:45", expected: "25/09/29 15:30:45"},
		{value: "25/09/29 15:30:45", expected: "25/09/29 15:30:45"},
	}

	for _, test := range tests {
		if got := FormatDateTime(test.value); got != test.expected {
			t.Errorf("FormatDateTime(%q), got: %q, expected: %q", test.value, got, test.expected)
		}
	}
}

func TestNormalizerTransform(t *testing.T) {
	tests := []struct {
		name        string
		normalizer  Normalizer
		payload     string
		expectedErr bool
		expected    []map[string]interface{}
	}{
		{
			name:    "converts_fields",
			payload: `[{"VehicleName": "car 1", "Speed": "40.5", "GPSEnable": "<nil>", "DataDateTime": "2025/09/29 10:00:00", "Memo": "x"}]`,
			expected: []map[string]interface{}{
				{"VehicleName": "car 1", "VehicleCD": 1.0, "Speed": 40.5, "GPSEnable": 0.0, "DataDateTime": "25/09/29 10:00:00", "Memo": "x"},
			},
		},
		{
			name:    "unique_codes",
			payload: `[{"VehicleName": "a1"}, {"VehicleName": "b1"}, {"VehicleName": "c2"}]`,
			expected: []map[string]interface{}{
				{"VehicleName": "a1", "VehicleCD": 1.0},
				{"VehicleName": "b1", "VehicleCD": 2.0},
				{"VehicleName": "c2", "VehicleCD": 3.0},
			},
		},
		{
			name:    "non_finite_numbers_become_zero",
			payload: `[{"VehicleName": "a1", "Speed": "NaN", "GPSLatitude": "inf", "GPSLongitude": "-Infinity"}]`,
			expected: []map[string]interface{}{
				{"VehicleName": "a1", "VehicleCD": 1.0, "Speed": 0.0, "GPSLatitude": 0.0, "GPSLongitude": 0.0},
			},
		},
		{
			name:    "empty_datetime_becomes_null",
			payload: `[{"VehicleName": "a5", "DataDateTime": "<nil>"}]`,
			expected: []map[string]interface{}{
				{"VehicleName": "a5", "VehicleCD": 5.0, "DataDateTime": nil},
			},
		},
		{
			name:       "date_filter",
			normalizer: Normalizer{DatePrefix: "25/09/29"},
			payload:    `[{"VehicleName": "a1", "DataDateTime": "25/09/29 08:00"}, {"VehicleName": "a2", "DataDateTime": "25/09/28 08:00"}, 5]`,
			expected: []map[string]interface{}{
				{"VehicleName": "a1", "VehicleCD": 1.0, "DataDateTime": "25/09/29 08:00"},
			},
		},
		{
			name:        "not_an_array",
			payload:     `{"VehicleName": "a1"}`,
			expectedErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := test.normalizer.Transform(Payload(test.payload))
			if (err != nil) != test.expectedErr {
				t.Fatalf("Transform error, got: %v, expected error: %v", err, test.expectedErr)
			}
			if test.expectedErr {
				return
			}
			var got []map[string]interface{}
			if err := json.Unmarshal(out, &got); err != nil {
				t.Fatalf("unmarshal transformed payload: %v", err)
			}
			if len(got) != len(test.expected) {
				t.Fatalf("records, got: %d, expected: %d", len(got), len(test.expected))
			}
			for i := range got {
				for k, v := range test.expected[i] {
					if got[i][k] != v {
						t.Errorf("record %d field %s, got: %v, expected: %v", i, k, got[i][k], v)
					}
				}
				if len(got[i]) != len(test.expected[i]) {
					t.Errorf("record %d, got %d fields, expected %d", i, len(got[i]), len(test.expected[i]))
				}
			}
		})
	}
}
