// Package tui implements the interactive mode selection menu shown when
// the program starts without a subcommand. Selecting a mode quits the menu
// and hands the chosen mode back to the caller, which then runs the
// monitoring session on a plain terminal.
package tui

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"sensorlog/internal/logging"
)

// Model represents the menu application state.
type Model struct {
	logger       *logging.Logger
	stateManager *UIStateManager

	currentScreen Screen
	selection     int
	lastError     string

	// chosenMode is set when the operator selects a monitoring mode.
	// tea.Quit follows immediately after.
	chosenMode string
	quitting   bool
}

const down = "down"

// NewModel creates the menu model, restoring the persisted selection.
func NewModel(logger *logging.Logger) Model {
	stateDir := os.Getenv("SENSORLOG_STATE_DIR")
	if stateDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			stateDir = filepath.Join(home, ".sensorlog")
		} else {
			stateDir = "."
		}
	}

	m := Model{
		logger:        logger,
		stateManager:  NewUIStateManager(stateDir, logger),
		currentScreen: ScreenMenu,
	}

	if state, err := m.stateManager.Load(); err == nil {
		if state.Selection >= 0 && state.Selection < len(DefaultMenuItems()) {
			m.selection = state.Selection
		}
	}

	return m
}

// ChosenMode returns the mode the operator selected, or empty when the
// menu was quit without a selection.
func (m Model) ChosenMode() string {
	return m.chosenMode
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if next, handled, cmd := m.handleQuitKeys(keyMsg.String()); handled {
		return next, cmd
	}

	if next, handled := m.handleEscapeKey(keyMsg.String()); handled {
		return next, nil
	}

	if next, handled := m.handleMenuNavigationKeys(keyMsg.String()); handled {
		return next, nil
	}

	if next, handled, cmd := m.handleMenuSelectionKey(keyMsg.String()); handled {
		return next, cmd
	}

	if next, handled, cmd := m.handleShortcutKeys(keyMsg.String()); handled {
		return next, cmd
	}

	return m, nil
}

func (m Model) handleQuitKeys(key string) (tea.Model, bool, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		m.quitting = true
		m.saveState()
		return m, true, tea.Quit
	}
	return m, false, nil
}

func (m Model) handleEscapeKey(key string) (tea.Model, bool) {
	if key == "esc" && m.currentScreen != ScreenMenu {
		m.currentScreen = ScreenMenu
		m.lastError = ""
		return m, true
	}
	return m, false
}

func (m Model) handleMenuNavigationKeys(key string) (tea.Model, bool) {
	if m.currentScreen != ScreenMenu {
		return m, false
	}

	switch key {
	case "up", "k":
		return m.navigateUp(), true
	case down, "j":
		return m.navigateDown(), true
	}
	return m, false
}

func (m Model) handleMenuSelectionKey(key string) (tea.Model, bool, tea.Cmd) {
	if m.currentScreen != ScreenMenu {
		return m, false, nil
	}

	if key == "enter" || key == " " {
		next, cmd := m.selectMenuItem()
		return next, true, cmd
	}
	return m, false, nil
}

func (m Model) handleShortcutKeys(key string) (tea.Model, bool, tea.Cmd) {
	switch key {
	case "1", "2", "?":
		next, cmd := m.selectMenuByKey(key)
		return next, true, cmd
	}
	return m, false, nil
}

// selectMenuItem activates the highlighted entry: mode entries quit with
// the mode recorded, screen entries switch the display.
func (m Model) selectMenuItem() (Model, tea.Cmd) {
	items := DefaultMenuItems()
	if m.selection < 0 || m.selection >= len(items) {
		return m, nil
	}
	return m.activate(items[m.selection])
}

func (m Model) selectMenuByKey(key string) (Model, tea.Cmd) {
	for i, item := range DefaultMenuItems() {
		if item.Key == key {
			m.selection = i
			return m.activate(item)
		}
	}
	return m, nil
}

func (m Model) activate(item MenuItem) (Model, tea.Cmd) {
	m.lastError = ""
	if item.Mode != "" {
		m.chosenMode = item.Mode
		m.quitting = true
		m.saveState()
		return m, tea.Quit
	}
	m.currentScreen = item.Screen
	return m, nil
}

func (m Model) navigateUp() Model {
	if m.selection > 0 {
		m.selection--
	} else {
		m.selection = len(DefaultMenuItems()) - 1
	}
	return m
}

func (m Model) navigateDown() Model {
	if m.selection < len(DefaultMenuItems())-1 {
		m.selection++
	} else {
		m.selection = 0
	}
	return m
}

func (m Model) saveState() {
	err := m.stateManager.Save(&UIState{
		Selection: m.selection,
		LastMode:  m.chosenMode,
	})
	if err != nil {
		m.logger.Warn("tui.state.save_failed", "Failed to persist UI state", map[string]any{
			"error": err.Error(),
		})
	}
}

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.currentScreen {
	case ScreenHelp:
		return m.renderHelpScreen()
	default:
		return m.renderMenu()
	}
}

// SelectMode runs the menu program on the terminal and returns the mode
// the operator picked. An empty mode means the menu was quit.
func SelectMode(logger *logging.Logger) (string, error) {
	program := tea.NewProgram(NewModel(logger))
	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("failed to run mode menu: %w", err)
	}

	model, ok := final.(Model)
	if !ok {
		return "", fmt.Errorf("unexpected model type %T", final)
	}
	return model.ChosenMode(), nil
}
