package rowan

// globalDebug enables extra stderr logging across the framework.
// Plain bool, no atomics: rowan is single-threaded.
var globalDebug bool

// SetDebug toggles debug logging for the root package.
// Subpackages carry their own flag so they can be toggled independently.
func SetDebug(enabled bool) {
	globalDebug = enabled
}

// Debug reports whether debug logging is enabled.
func Debug() bool {
	return globalDebug
}
