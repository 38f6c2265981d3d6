package models

import "strings"

// OSFamily identifies the operating-system family of a sleep target.
type OSFamily int

const (
	// FamilyUnknown is the zero value; it never resolves to a command.
	FamilyUnknown OSFamily = iota
	FamilyLinux
	FamilyWindows
	FamilyDarwin
)

// String returns the canonical family name.
func (f OSFamily) String() string {
	switch f {
	case FamilyLinux:
		return "linux"
	case FamilyWindows:
		return "windows"
	case FamilyDarwin:
		return "macos"
	default:
		return "unknown"
	}
}

// ParseOSFamily normalizes a caller-supplied OS name. Unrecognized
// names (including the empty string) return FamilyUnknown and false.
func ParseOSFamily(s string) (OSFamily, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux", "unix":
		return FamilyLinux, true
	case "windows", "win":
		return FamilyWindows, true
	case "macos", "mac", "darwin":
		return FamilyDarwin, true
	default:
		return FamilyUnknown, false
	}
}

// SleepCommands maps each OS family to its default suspend command.
type SleepCommands struct {
	Linux   string
	Windows string
	Darwin  string
}

// For returns the suspend command for a family. The mapping is total
// over the known families; FamilyUnknown reports false.
func (c SleepCommands) For(f OSFamily) (string, bool) {
	switch f {
	case FamilyLinux:
		return c.Linux, true
	case FamilyWindows:
		return c.Windows, true
	case FamilyDarwin:
		return c.Darwin, true
	default:
		return "", false
	}
}
