// Package debug provides global debug logging flags
package debug

import "fmt"

// Enabled controls whether debug logging is active
var Enabled bool

// Gaze controls whether verbose per-frame gaze logs are shown
// (landmark counts, iris offsets, zone hits). Use --debug-gaze
// to enable these very noisy logs.
var Gaze bool

// Log prints a message only if debug mode is enabled
func Log(format string, args ...interface{}) {
	if Enabled {
		fmt.Printf(format, args...)
	}
}

// Logln prints a message with newline only if debug mode is enabled
func Logln(msg string) {
	if Enabled {
		fmt.Println(msg)
	}
}

// GazeLog prints a message only if gaze debug mode is enabled
func GazeLog(format string, args ...interface{}) {
	if Gaze {
		fmt.Printf(format, args...)
	}
}
