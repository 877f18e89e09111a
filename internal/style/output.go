package style

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"gopkg.in/yaml.v3"
)

var (
	// Color palette
	ErrorColor   = lipgloss.Color("#FF6B6B")
	WarningColor = lipgloss.Color("#FFA726")
	SuccessColor = lipgloss.Color("#66BB6A")
	InfoColor    = lipgloss.Color("#42A5F5")
	MutedColor   = lipgloss.Color("#6C757D")
	AccentColor  = lipgloss.Color("#7C3AED")
	CodeColor    = lipgloss.Color("#D4D4D4")

	PrimaryTextColor = lipgloss.Color("#E4E4E7")
	ErrorBgColor     = lipgloss.Color("#3D2020")

	// Base styles
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(MutedColor)
	AccentStyle  = lipgloss.NewStyle().Foreground(AccentColor)

	FileStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true).
			Underline(true)

	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 2)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	CardValueStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	BarStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	ErrorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(0, 1).
			Margin(1, 0)
)

// FormatFilePath formats a file path with proper styling
func FormatFilePath(path string) string {
	return FileStyle.Render(path)
}

// Card is one headline number on the summary view.
type Card struct {
	Title string
	Value string
}

// RenderCards lays cards out side by side.
func RenderCards(cards []Card) string {
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = CardStyle.Render(CardTitleStyle.Render(c.Title) + "\n" + CardValueStyle.Render(c.Value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// Bar is one labelled count in a breakdown.
type Bar struct {
	Label string
	Count int
}

// RenderBreakdown renders counts as a titled bar chart scaled to width
// characters for the largest count.
func RenderBreakdown(title string, bars []Bar, total, width int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(title) + "\n")
	if len(bars) == 0 {
		b.WriteString(MutedStyle.Render("  (none)") + "\n")
		return b.String()
	}

	labelWidth, max := 0, 0
	for _, bar := range bars {
		labelWidth = maxInt(labelWidth, lipgloss.Width(bar.Label))
		max = maxInt(max, bar.Count)
	}
	label := lipgloss.NewStyle().Width(labelWidth)

	for _, bar := range bars {
		n := 0
		if max > 0 {
			n = bar.Count * width / max
		}
		if n == 0 && bar.Count > 0 {
			n = 1
		}
		pct := 0.0
		if total > 0 {
			pct = float64(bar.Count) * 100 / float64(total)
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			label.Render(bar.Label),
			BarStyle.Render(strings.Repeat("█", n)),
			MutedStyle.Render(fmt.Sprintf("%d (%.1f%%)", bar.Count, pct)))
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// RenderProblems renders field problems inside an error box.
func RenderProblems(title string, problems [][2]string) string {
	var b strings.Builder
	b.WriteString(ErrorStyle.Render("✗ "+title) + "\n")
	for _, p := range problems {
		fmt.Fprintf(&b, "\n  %s %s", AccentStyle.Render(p[0]+":"), p[1])
	}
	return ErrorBoxStyle.Render(b.String())
}

// PrintJSON outputs data as formatted JSON
func PrintJSON(w io.Writer, data interface{}) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(w, "Error encoding JSON: %v\n", err)
	}
}

// PrintYAML outputs data as YAML
func PrintYAML(w io.Writer, data interface{}) {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(w, "Error encoding YAML: %v\n", err)
	}
	encoder.Close()
}

func SuccessIcon() string {
	return SuccessStyle.Render("✓")
}

func ErrorIcon() string {
	return ErrorStyle.Render("✗")
}

// Success prints a success message with styling
func Success(w io.Writer, message string) {
	msg := lipgloss.NewStyle().Foreground(SuccessColor).Render(message)
	fmt.Fprintf(w, "%s %s\n", SuccessIcon(), msg)
}

// Error prints an error message with styling
func Error(w io.Writer, message string) {
	msg := lipgloss.NewStyle().Foreground(ErrorColor).Render(message)
	fmt.Fprintf(w, "%s %s\n", ErrorIcon(), msg)
}

// Warning prints a warning message with styling
func Warning(w io.Writer, message string) {
	icon := WarningStyle.Render("⚠")
	msg := lipgloss.NewStyle().Foreground(WarningColor).Render(message)
	fmt.Fprintf(w, "%s %s\n", icon, msg)
}

// Info prints an info message with styling
func Info(w io.Writer, message string) {
	icon := InfoStyle.Render("ℹ")
	msg := lipgloss.NewStyle().Foreground(InfoColor).Render(message)
	fmt.Fprintf(w, "%s %s\n", icon, msg)
}
