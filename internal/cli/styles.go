// Package cli renders smartshop output for the terminal with lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	freshGreen = lipgloss.Color("#2ECC71")
	teal       = lipgloss.Color("#4ECDC4")
	butter     = lipgloss.Color("#FFE66D")
	tomato     = lipgloss.Color("#FF6B6B")
	mint       = lipgloss.Color("#95E1D3")
	slate      = lipgloss.Color("#666666")
	border     = lipgloss.Color("#333")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(freshGreen).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(teal)
	warningStyle = lipgloss.NewStyle().Foreground(butter)
	errorStyle   = lipgloss.NewStyle().Foreground(tomato)
	infoStyle    = lipgloss.NewStyle().Foreground(mint)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2)

	// SubtleStyle dims secondary details such as IDs and reasons.
	SubtleStyle = lipgloss.NewStyle().Foreground(slate)
	// BoldStyle emphasizes store names and totals.
	BoldStyle = lipgloss.NewStyle().Bold(true)
	// CategoryStyle marks category headings.
	CategoryStyle = lipgloss.NewStyle().Bold(true).Foreground(mint)
	// TableCellStyle pads a column in plain-text tables.
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons used in headings.
const (
	CartIcon    = "🛒"
	ReceiptIcon = "🧾"
	RobotIcon   = "🤖"
	ChartIcon   = "📊"

	successIcon = "✓"
	errorIcon   = "✗"
	warningIcon = "⚠️"
	infoIcon    = "ℹ️"
)

// FormatSuccess prefixes message with a check mark.
func FormatSuccess(message string) string {
	return successStyle.Render(successIcon + " " + message)
}

// FormatError prefixes message with a cross.
func FormatError(message string) string {
	return errorStyle.Render(errorIcon + " " + message)
}

// FormatWarning prefixes message with a warning sign.
func FormatWarning(message string) string {
	return warningStyle.Render(warningIcon + " " + message)
}

// FormatInfo prefixes message with an info sign.
func FormatInfo(message string) string {
	return infoStyle.Render(infoIcon + " " + message)
}

// FormatTitle renders a section heading.
func FormatTitle(title string) string {
	return titleStyle.Render(title)
}

// RenderBox draws content in a rounded box under title.
func RenderBox(title, content string) string {
	heading := titleStyle.UnsetMargins().Render(title)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
