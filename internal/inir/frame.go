// Package inir decodes the INIR2 methane sensor frame embedded in ESP32
// payloads. This package has NO external dependencies (no HTTP, MQTT, OS,
// or clock access); every function is pure and operates on fixed-size input.
package inir

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Frame markers and geometry.
const (
	StartWord  = 0x0000005B
	EndWord    = 0x0000005D
	FrameWords = 7
)

// Decode errors. All are local, recoverable conditions: a bad frame yields
// an error value attached to the response, never a panic.
var (
	ErrWrongLength      = errors.New("exactly seven 32-bit words are expected for the methane sensor frame")
	ErrMalformedHex     = errors.New("frame word is not a 32-bit hex integer")
	ErrBadFraming       = errors.New("start or end marker is invalid in the methane sensor frame")
	ErrChecksumMismatch = errors.New("checksum validation failed for the methane sensor frame")
)

// Checksum computes the frame checksum over the given words: each word is
// split into its four bytes (least-significant byte first) and all bytes are
// summed with wrap-around 32-bit arithmetic. This is an unweighted byte sum,
// not a polynomial CRC; a standard CRC32 will NOT reproduce it.
func Checksum(words []uint32) uint32 {
	var sum uint32
	for _, w := range words {
		sum += w & 0xFF
		sum += (w >> 8) & 0xFF
		sum += (w >> 16) & 0xFF
		sum += (w >> 24) & 0xFF
	}
	return sum
}

// Validate reports whether both checksum relations hold: the byte sum of the
// payload must equal crc, and its one's complement must equal invCRC. A frame
// with a correct checksum but wrong inverse is rejected.
func Validate(payload []uint32, crc, invCRC uint32) bool {
	sum := Checksum(payload)
	return sum == crc && sum^0xFFFFFFFF == invCRC
}

// Parse decodes seven hex-encoded 32-bit words into a Reading, checking the
// framing markers and both checksum relations. It is deterministic and has
// no side effects; errors wrap one of the Err* sentinels and are matchable
// with errors.Is.
func Parse(hexWords []string) (Reading, error) {
	if len(hexWords) != FrameWords {
		return Reading{}, fmt.Errorf("%w (got %d)", ErrWrongLength, len(hexWords))
	}

	var words [FrameWords]uint32
	for i, s := range hexWords {
		w, err := parseWord(s)
		if err != nil {
			return Reading{}, fmt.Errorf("%w: word %d %q", ErrMalformedHex, i, s)
		}
		words[i] = w
	}

	if words[0] != StartWord || words[FrameWords-1] != EndWord {
		return Reading{}, ErrBadFraming
	}
	if !Validate(words[:4], words[4], words[5]) {
		return Reading{}, ErrChecksumMismatch
	}

	return Reading{
		ConcentrationPPM: words[1],
		FaultWord:        words[2],
		TemperatureKx10:  words[3],
		CRC:              words[4],
		InvCRC:           words[5],
	}, nil
}

// parseWord parses one unsigned 32-bit hex word. Case-insensitive; a leading
// "0x" is tolerated even though the sensor never sends one.
func parseWord(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	w, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(w), nil
}
