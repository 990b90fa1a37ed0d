package tui

import "time"

// Screen represents the TUI screens.
type Screen string

const (
	// ScreenMenu is the mode selection menu.
	ScreenMenu Screen = "menu"
	// ScreenHelp shows the keyboard shortcuts.
	ScreenHelp Screen = "help"
)

// MenuItem represents one selectable menu entry.
type MenuItem struct {
	Key         string // Number key or letter
	Label       string // Display label
	Description string // Short description
	Mode        string // Monitoring mode this entry starts, empty for screens
	Screen      Screen // Target screen when Mode is empty
}

// UIState is the persisted UI state written to ui_state.json.
type UIState struct {
	Selection int       `json:"selection"` // Current menu selection index
	LastMode  string    `json:"last_mode"` // Mode chosen on the previous run
	Updated   time.Time `json:"updated"`   // Last update timestamp
}

// DefaultMenuItems returns the mode selection menu entries.
func DefaultMenuItems() []MenuItem {
	return []MenuItem{
		{Key: "1", Label: "Bridge Vibration Monitoring", Description: "High-rate vibration sampling with structural safety classification", Mode: "bridge"},
		{Key: "2", Label: "Environmental Monitoring", Description: "Temperature, humidity and pressure sampling with anomaly detection", Mode: "environmental"},
		{Key: "?", Label: "Help", Description: "Show keyboard shortcuts", Screen: ScreenHelp},
	}
}
