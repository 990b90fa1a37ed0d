package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderMenu renders the mode selection screen.
func (m Model) renderMenu() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	menuItemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	menuItemSelectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#00d7ff")).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).PaddingLeft(2)
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(1)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true).MarginTop(1)

	b.WriteString(titleStyle.Render("sensorlog - Select Monitoring Mode"))
	b.WriteString("\n\n")

	for i, item := range DefaultMenuItems() {
		prefix := fmt.Sprintf("[%s] ", item.Key)

		var itemText string
		if i == m.selection {
			itemText = menuItemSelectedStyle.Render(prefix + item.Label)
		} else {
			itemText = menuItemStyle.Render(prefix + item.Label)
		}

		b.WriteString(itemText)
		b.WriteString("\n")
		b.WriteString(descStyle.Render(item.Description))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Navigate: ↑/↓ or numbers | Select: Enter/Space | Quit: q"))
	b.WriteString("\n")

	if m.lastError != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("⚠ " + m.lastError))
		b.WriteString("\n")
	}

	return b.String()
}

// renderHelpScreen renders the keyboard shortcut overview.
func (m Model) renderHelpScreen() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700")).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87d7af")).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(2)

	b.WriteString(titleStyle.Render("Help - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("1-2, ?      "))
	b.WriteString(descStyle.Render("Quick selection by number/key"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("↑ / ↓       "))
	b.WriteString(descStyle.Render("Navigate menu items"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("Enter/Space "))
	b.WriteString(descStyle.Render("Start the highlighted mode"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("Esc         "))
	b.WriteString(descStyle.Render("Return to the menu"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("q / Ctrl+C  "))
	b.WriteString(descStyle.Render("Quit without starting a session"))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("During a Session"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("Ctrl+C      "))
	b.WriteString(descStyle.Render("Stop sampling early; buffered readings are flushed"))
	b.WriteString("\n")

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Press Esc to return to the menu"))
	b.WriteString("\n")

	return b.String()
}
