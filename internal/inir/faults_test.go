package inir

import (
	"reflect"
	"testing"
)

func TestDecodeFaultsKnownWord(t *testing.T) {
	// 0xaa1aaa1a, least-significant nibble first: a,1,a,a,a,1,a,a.
	// Only subsystems 1 and 5 report a fault.
	got := DecodeFaults(0xaa1aaa1a)
	want := []string{
		"Power / Reset: Power-On Reset",
		"Timer / Counter: Timer1 error",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeFaults(0xaa1aaa1a):\n got %q\nwant %q", got, want)
	}
}

func TestDecodeFaultsAllHealthy(t *testing.T) {
	got := DecodeFaults(0xAAAAAAAA)
	want := []string{"No errors detected"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeFaults(0xAAAAAAAA): got %q, want %q", got, want)
	}
}

func TestDecodeFaultsOrdering(t *testing.T) {
	// One known fault per subsystem, nibble value 1 everywhere.
	got := DecodeFaults(0x11111111)
	want := []string{
		"Gas Sensor: Sensor not present",
		"Power / Reset: Power-On Reset",
		"ADC: Gas concentration not stable",
		"DAC: DAC turned off",
		"UART: UART break longer than word length",
		"Timer / Counter: Timer1 error",
		"General: Overrange",
		"Memory: Flash write failed",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeFaults(0x11111111):\n got %q\nwant %q", got, want)
	}
}

func TestDecodeFaultsUnknownCode(t *testing.T) {
	// Nibble 0xF is not in the table for any subsystem; a message is still
	// synthesized rather than the code being dropped.
	got := DecodeFaults(0xAAAAAAAF)
	want := []string{
		"Gas Sensor: Unknown code 0xF in subsystem Gas Sensor",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeFaults(0xAAAAAAAF): got %q, want %q", got, want)
	}

	// Subsystem 2 knows only code 1; code 5 must synthesize.
	got = DecodeFaults(0xAAAAA5AA)
	want = []string{
		"ADC: Unknown code 0x5 in subsystem ADC",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeFaults(0xAAAAA5AA): got %q, want %q", got, want)
	}
}

func TestDecodeFaultsZeroNibbleNotSuppressed(t *testing.T) {
	// Only 0xA means "no fault"; an all-zero word reports eight unknown codes.
	got := DecodeFaults(0)
	if len(got) != 8 {
		t.Fatalf("DecodeFaults(0): got %d messages, want 8", len(got))
	}
	if got[0] != "Gas Sensor: Unknown code 0x0 in subsystem Gas Sensor" {
		t.Errorf("first message: got %q", got[0])
	}
	if got[7] != "Memory: Unknown code 0x0 in subsystem Memory" {
		t.Errorf("last message: got %q", got[7])
	}
}

func TestFaultMessagesMatchesDecodeFaults(t *testing.T) {
	r := Reading{FaultWord: 0xaa1aaa1a}
	if !reflect.DeepEqual(r.FaultMessages(), DecodeFaults(0xaa1aaa1a)) {
		t.Error("Reading.FaultMessages must delegate to DecodeFaults")
	}
}
