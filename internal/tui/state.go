package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sensorlog/internal/fsutil"
	"sensorlog/internal/logging"
)

// UIStateFileName is the name of the UI state file.
const UIStateFileName = "ui_state.json"

// UIStateManager persists menu selection and the last chosen mode so the
// menu reopens where the operator left it.
type UIStateManager struct {
	stateDir string
	logger   *logging.Logger
}

// NewUIStateManager creates a state manager rooted at stateDir.
func NewUIStateManager(stateDir string, logger *logging.Logger) *UIStateManager {
	return &UIStateManager{
		stateDir: stateDir,
		logger:   logger,
	}
}

func (m *UIStateManager) statePath() string {
	return filepath.Join(m.stateDir, UIStateFileName)
}

// Load loads the UI state from disk. A missing file yields the default
// state, not an error.
func (m *UIStateManager) Load() (*UIState, error) {
	data, err := os.ReadFile(m.statePath())
	if err != nil {
		if os.IsNotExist(err) {
			return &UIState{Updated: time.Now().UTC()}, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state UIState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}

	return &state, nil
}

// Save writes the UI state atomically.
func (m *UIStateManager) Save(state *UIState) error {
	if err := fsutil.EnsureDir(m.stateDir); err != nil {
		return err
	}

	state.Updated = time.Now().UTC()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := fsutil.AtomicWriteFile(m.statePath(), data, fsutil.DefaultFilePermissions); err != nil {
		return err
	}

	m.logger.Debug("tui.state.saved", "UI state saved", map[string]any{
		"selection": state.Selection,
		"last_mode": state.LastMode,
	})

	return nil
}
