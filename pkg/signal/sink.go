// Package signal delivers the away trigger to a serial-connected
// microcontroller. The wire contract is one byte, host to device;
// anything the device says back is newline-delimited text treated as
// a log line, never parsed.
package signal

// TriggerByte is the single byte written to the device on trigger.
const TriggerByte = 0x01

// Sink is the trigger destination.
type Sink interface {
	// Trigger notifies the device once. Implementations log and
	// swallow device-side failures; an error return is informational.
	Trigger() error

	// Close releases the underlying channel.
	Close() error
}
