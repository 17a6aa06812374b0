// Package version exposes build metadata stamped at link time.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
)

// Set via -ldflags at release build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the bare version string.
func Short() string {
	return Version
}

// Info returns a human-readable version line.
func Info() string {
	return fmt.Sprintf("confluence-export %s (commit %s, built %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}

// JSON returns the build metadata as a JSON object.
func JSON() (string, error) {
	data, err := json.MarshalIndent(map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode version info: %w", err)
	}
	return string(data), nil
}
