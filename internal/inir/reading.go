package inir

// Reading is a decoded methane sensor frame. Immutable once constructed;
// only Parse produces one, and only from a frame that passed framing and
// checksum validation.
type Reading struct {
	// ConcentrationPPM is the raw concentration word. The name follows the
	// wire protocol; with the 10000 divisor it is actually a fraction scaled
	// to percent by volume, not parts-per-million.
	ConcentrationPPM uint32

	// FaultWord is the raw 32-bit fault bitfield, retained for traceability.
	FaultWord uint32

	// TemperatureKx10 is the sensor temperature in tenths of a Kelvin.
	TemperatureKx10 uint32

	// CRC and InvCRC are the checksum words as received.
	CRC    uint32
	InvCRC uint32
}

// TemperatureCelsius returns the sensor temperature in degrees Celsius.
func (r Reading) TemperatureCelsius() float64 {
	return float64(r.TemperatureKx10)/10.0 - 273.15
}

// ConcentrationPercent returns the methane concentration as percent by volume.
func (r Reading) ConcentrationPercent() float64 {
	return float64(r.ConcentrationPPM) / 10000.0
}

// FaultMessages returns the decoded fault messages for all subsystems.
func (r Reading) FaultMessages() []string {
	return DecodeFaults(r.FaultWord)
}
