// Package config provides configuration helpers for gazekeeper commands.
// Values come from the environment, optionally seeded from a .env file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for the tracker process.
const (
	DefaultCameraIndex   = 0
	DefaultDashboardPort = "8093"
	DefaultBaudRate      = 9600
)

// Load reads a .env file from the working directory if one exists.
// Missing files are fine; real environment variables always win.
func Load() {
	_ = godotenv.Load()
}

// CameraIndex returns the capture device index from CAMERA_INDEX.
func CameraIndex() int {
	return envInt("CAMERA_INDEX", DefaultCameraIndex)
}

// SerialPort returns the trigger device port from SERIAL_PORT.
// An empty value means "run without the device".
func SerialPort() string {
	return os.Getenv("SERIAL_PORT")
}

// BaudRate returns the serial baud rate from SERIAL_BAUD.
func BaudRate() int {
	return envInt("SERIAL_BAUD", DefaultBaudRate)
}

// DashboardPort returns the dashboard listen port from DASHBOARD_PORT.
func DashboardPort() string {
	if port := os.Getenv("DASHBOARD_PORT"); port != "" {
		return port
	}
	return DefaultDashboardPort
}

// LogLevel returns the log level from LOG_LEVEL ("debug", "info", "warn", "error").
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

// EnvFloat returns a float from the environment or the fallback.
// Used for tuning overrides (thresholds, zone margin).
func EnvFloat(key string, fallback float64) float64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}
