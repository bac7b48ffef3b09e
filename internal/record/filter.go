// Package record assembles normalized sensor records from inbound ESP32
// payloads: plausibility filtering for the analog temperature probes, the
// decoded methane summary, and the JSON shape shared by the response, the
// payload log, and the remote store.
package record

import (
	"encoding/json"
	"math"
)

// Temperature plausibility bounds in degrees Celsius, inclusive.
const (
	MinPlausibleTemp = 15.0
	MaxPlausibleTemp = 50.0
)

// FilterTemperature returns the probe value unchanged if it is present and
// within the plausible range, and NaN otherwise. NaN explicitly means "no
// plausible reading" and is distinct from zero. Out-of-range and missing
// input are valid inputs, not errors.
func FilterTemperature(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	if *v < MinPlausibleTemp || *v > MaxPlausibleTemp {
		return math.NaN()
	}
	return *v
}

// Float is a float64 that marshals NaN as JSON null. The record keeps NaN
// internally for filtered-out readings; JSON has no NaN literal.
type Float float64

// MarshalJSON renders NaN as null.
func (f Float) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

// UnmarshalJSON maps null back to NaN.
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// IsNaN reports whether the value is the "no plausible reading" marker.
func (f Float) IsNaN() bool {
	return math.IsNaN(float64(f))
}
