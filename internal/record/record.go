package record

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sweeney/sensor-gateway/internal/inir"
)

// MissingMethaneError is attached when the payload carries no usable methane
// word list at all, as opposed to a frame that fails to decode.
const MissingMethaneError = "Methane raw payload missing or invalid format"

// Payload is the inbound JSON body from the ESP32. Pointer fields distinguish
// missing from zero; a non-numeric value in any of them is a type error at
// the transport boundary and rejects the whole request.
type Payload struct {
	PH               *float64 `json:"ph"`
	PHVoltage        *float64 `json:"ph_voltage"`
	Temp1            *float64 `json:"temp1"`
	Temp2            *float64 `json:"temp2"`
	BMETemperature   *float64 `json:"bme_temperature"`
	BMEHumidity      *float64 `json:"bme_humidity"`
	BMEPressure      *float64 `json:"bme_pressure"`
	BMEGasResistance *float64 `json:"bme_gas_resistance"`
	MethaneRaw       []string `json:"methan_raw"`
}

// Record is the normalized reading: ancillary fields passed through or
// NaN-filtered, the decoded methane summary (or the decode error), and an
// ingestion timestamp. Created fresh per request; the previous record is
// discarded the moment a new one replaces it in the latest slot.
type Record struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`

	PH               Float `json:"ph"`
	PHVoltage        Float `json:"ph_voltage"`
	Temp1            Float `json:"temp1"`
	Temp2            Float `json:"temp2"`
	BMETemperature   Float `json:"bme_temperature"`
	BMEHumidity      Float `json:"bme_humidity"`
	BMEPressure      Float `json:"bme_pressure"`
	BMEGasResistance Float `json:"bme_gas_resistance"`

	MethaneRaw         []string `json:"methan_raw"`
	MethanePPM         *uint32  `json:"methane_ppm"`
	MethanePercent     *float64 `json:"methane_percent"`
	MethaneTemperature *float64 `json:"methane_temperature"`
	MethaneFaults      []string `json:"methane_faults"`
	MethaneError       string   `json:"methane_error,omitempty"`
}

// MethaneOK reports whether the record carries a decoded methane summary.
func (r Record) MethaneOK() bool {
	return r.MethaneError == ""
}

// Build assembles a Record from an inbound payload. The temperature probes
// go through the plausibility filter, the other analog fields pass through
// verbatim (missing becomes NaN), and the methane frame is decoded if the
// payload carries a seven-word list. Decode failure never discards the
// ancillary fields; it is recorded in MethaneError instead.
func Build(p Payload, now time.Time) Record {
	r := Record{
		ID:        uuid.NewString(),
		Timestamp: now.UTC().Format(time.RFC3339Nano),

		PH:               passthrough(p.PH),
		PHVoltage:        passthrough(p.PHVoltage),
		Temp1:            Float(FilterTemperature(p.Temp1)),
		Temp2:            Float(FilterTemperature(p.Temp2)),
		BMETemperature:   passthrough(p.BMETemperature),
		BMEHumidity:      passthrough(p.BMEHumidity),
		BMEPressure:      passthrough(p.BMEPressure),
		BMEGasResistance: passthrough(p.BMEGasResistance),

		MethaneRaw: p.MethaneRaw,
	}

	if len(p.MethaneRaw) != inir.FrameWords {
		r.MethaneError = MissingMethaneError
		return r
	}

	reading, err := inir.Parse(p.MethaneRaw)
	if err != nil {
		r.MethaneError = err.Error()
		return r
	}

	ppm := reading.ConcentrationPPM
	percent := round(reading.ConcentrationPercent(), 5)
	temp := round(reading.TemperatureCelsius(), 2)
	r.MethanePPM = &ppm
	r.MethanePercent = &percent
	r.MethaneTemperature = &temp
	r.MethaneFaults = reading.FaultMessages()
	return r
}

func passthrough(v *float64) Float {
	if v == nil {
		return Float(math.NaN())
	}
	return Float(*v)
}

// round rounds to the given number of decimal places.
func round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
