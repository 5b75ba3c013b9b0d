package main

import helios "github.com/helios-engine/helios"

// GetVersion returns the formatted version string shown by `helios version`.
func GetVersion() string {
	return helios.GetVersion().String()
}
