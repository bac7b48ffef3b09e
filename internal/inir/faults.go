package inir

import "fmt"

// noFault is the nibble value the sensor reports for a healthy subsystem.
const noFault = 0xA

// subsystems maps nibble position (0 = least significant) to subsystem name.
var subsystems = [8]string{
	"Gas Sensor",
	"Power / Reset",
	"ADC",
	"DAC",
	"UART",
	"Timer / Counter",
	"General",
	"Memory",
}

// faultTable maps subsystem index and nibble value to a diagnostic message.
// The table is not exhaustive: codes the datasheet does not list still
// produce a synthesized "unknown code" message rather than being dropped.
var faultTable = [8]map[uint32]string{
	0: {
		1: "Sensor not present",
		2: "Temperature sensor defective or out of spec",
		3: "Active/reference signal too weak",
		4: "Initial configuration – no settings saved",
	},
	1: {
		1: "Power-On Reset",
		2: "Watchdog Reset",
		3: "Software Reset",
		4: "External Reset (Pin)",
	},
	2: {
		1: "Gas concentration not stable",
	},
	3: {
		1: "DAC turned off",
		2: "DAC disabled in config mode",
	},
	4: {
		1: "UART break longer than word length",
		2: "Framing error",
		3: "Parity error",
		4: "Overrun error",
	},
	5: {
		1: "Timer1 error",
		2: "Timer2 or Watchdog error",
	},
	6: {
		1: "Overrange",
		2: "Underrange",
		3: "Warm-Up (invalid measurement)",
	},
	7: {
		1: "Flash write failed",
		2: "Flash read failed",
	},
}

// DecodeFaults decodes the 32-bit fault word into human-readable messages,
// one nibble per subsystem, least-significant nibble first. Nibble 0xA means
// "no fault" and is suppressed. Every input produces a non-empty result;
// a fully healthy word yields ["No errors detected"].
func DecodeFaults(faultWord uint32) []string {
	var messages []string
	for idx := 0; idx < 8; idx++ {
		nibble := (faultWord >> (4 * idx)) & 0xF
		if nibble == noFault {
			continue
		}
		text, ok := faultTable[idx][nibble]
		if !ok {
			text = fmt.Sprintf("Unknown code 0x%X in subsystem %s", nibble, subsystems[idx])
		}
		messages = append(messages, fmt.Sprintf("%s: %s", subsystems[idx], text))
	}
	if len(messages) == 0 {
		return []string{"No errors detected"}
	}
	return messages
}
