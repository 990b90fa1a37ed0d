package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sensorlog/internal/safety"
	"sensorlog/internal/session"
)

// renderReport formats the end-of-session report for the terminal.
func renderReport(mode string, result session.Result) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700")).MarginTop(1)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87d7af"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))

	b.WriteString(titleStyle.Render(fmt.Sprintf("Session Report - %s", mode)))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Session"))
	b.WriteString("\n")
	writeField(&b, labelStyle, valueStyle, "ID", result.SessionID)
	writeField(&b, labelStyle, valueStyle, "Readings", fmt.Sprintf("%d", result.Processed))
	writeField(&b, labelStyle, valueStyle, "Log File", result.LogPath)
	writeField(&b, labelStyle, valueStyle, "Records Logged", fmt.Sprintf("%d", result.LoggedCount))
	writeField(&b, labelStyle, valueStyle, "Rotations", fmt.Sprintf("%d", result.LogRotations))

	b.WriteString(sectionStyle.Render("Statistics"))
	b.WriteString("\n")
	for _, kind := range result.Kinds() {
		snapshot := result.Statistics[kind]
		if !snapshot.Valid() {
			continue
		}
		line := fmt.Sprintf("%-12s n=%-6d min=%-10.4f max=%-10.4f mean=%-10.4f stddev=%.4f",
			kind.String(), snapshot.Count, snapshot.Min, snapshot.Max, snapshot.Mean, snapshot.StdDev)
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render("Analysis"))
	b.WriteString("\n")
	writeField(&b, labelStyle, valueStyle, "Moving Average", fmt.Sprintf("%.6f", result.MovingAverage))
	writeField(&b, labelStyle, valueStyle, "Trend", fmt.Sprintf("%s (slope %.6f, confidence %.2f)",
		result.Trend.Direction, result.Trend.Slope, result.Trend.Confidence))
	writeField(&b, labelStyle, valueStyle, "Rate of Change", fmt.Sprintf("%.6f /s", result.RateOfChange))
	writeField(&b, labelStyle, valueStyle, "Dominant Frequency", fmt.Sprintf("%.4f Hz (peak amplitude %.4f)",
		result.Frequency.DominantFrequency, result.Frequency.Amplitude))
	writeField(&b, labelStyle, valueStyle, "Anomalies (live)", fmt.Sprintf("%d", result.LiveAnomalies))
	writeField(&b, labelStyle, valueStyle, "Anomalies (batch)", fmt.Sprintf("%d", result.BatchAnomalies))

	if result.Verdict != nil {
		b.WriteString(sectionStyle.Render("Structural Safety"))
		b.WriteString("\n")
		b.WriteString("  ")
		b.WriteString(tierStyle(result.Verdict.Tier).Render(fmt.Sprintf("%s %s", tierIcon(result.Verdict.Tier), result.Verdict.Tier)))
		b.WriteString("\n")
		writeField(&b, labelStyle, valueStyle, "RMS Amplitude", fmt.Sprintf("%.6f", result.Verdict.RMSAmplitude))
		writeField(&b, labelStyle, valueStyle, "Peak Amplitude", fmt.Sprintf("%.6f", result.Verdict.PeakAmplitude))
		writeField(&b, labelStyle, valueStyle, "Dominant Freq", fmt.Sprintf("%.4f Hz", result.Verdict.DominantFrequency))
		if result.Verdict.Message != "" {
			writeField(&b, labelStyle, valueStyle, "Assessment", result.Verdict.Message)
		}
	}

	return b.String()
}

func writeField(b *strings.Builder, labelStyle, valueStyle lipgloss.Style, label, value string) {
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", label+":")))
	b.WriteString(" ")
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

func tierStyle(tier safety.Tier) lipgloss.Style {
	switch tier {
	case safety.TierSafe:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5fff5f"))
	case safety.TierWarning:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700"))
	case safety.TierCritical:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f"))
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#808080"))
	}
}

func tierIcon(tier safety.Tier) string {
	switch tier {
	case safety.TierSafe:
		return "✓"
	case safety.TierWarning:
		return "⚠"
	case safety.TierCritical:
		return "✗"
	default:
		return "?"
	}
}
