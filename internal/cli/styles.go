// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mariveth/lootsweep/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#7AA2F7")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#9ECE6A")
	// CautionColor marks low-risk advisories.
	CautionColor = lipgloss.Color("#E0AF68")
	// WarningColor marks items that deserve a second look.
	WarningColor = lipgloss.Color("#FF9E64")
	// CriticalColor marks items that must never be discarded.
	CriticalColor = lipgloss.Color("#F7768E")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#7DCFFF")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats errors and critical verdicts.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(CriticalColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))

	severityStyles = map[model.Severity]lipgloss.Style{
		model.SeverityNone:     SubtleStyle,
		model.SeverityInfo:     InfoStyle,
		model.SeverityCaution:  lipgloss.NewStyle().Foreground(CautionColor),
		model.SeverityWarning:  WarningStyle,
		model.SeverityCritical: ErrorStyle.Bold(true),
	}
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠"
	BroomIcon   = "🧹"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatTitle formats a title with the broom icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(BroomIcon + " " + title)
}

// StyleSeverity renders text in the color assigned to a severity grade.
func StyleSeverity(severity model.Severity, text string) string {
	style, ok := severityStyles[severity]
	if !ok {
		style = SubtleStyle
	}
	return style.Render(text)
}

// FormatVerdict renders a one-word safe/unsafe marker for a verdict.
func FormatVerdict(v model.SafetyVerdict) string {
	if v.SafeToDiscard {
		return SuccessStyle.Render("safe")
	}
	return StyleSeverity(v.Severity, "unsafe")
}
