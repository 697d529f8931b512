package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/footprint/pkg/pipeline"
)

// Palette shared by every subcommand.
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings in the interactive browser.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleHighlight marks the selected row in tables and the browser.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	// StyleDim is used for units, separators and secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)
	// StyleValue renders measured values and paths.
	StyleValue = lipgloss.NewStyle().Foreground(colorValue)
	// StyleWarning renders warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleMarkOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleMarkFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleMarkInfo    = lipgloss.NewStyle().Foreground(colorLabel)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleLabel       = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
)

const (
	markOK    = "✓"
	markFail  = "✗"
	markWarn  = "!"
	markInfo  = "›"
	markArrow = "→"
)

func printMarked(mark string, style lipgloss.Style, msg string) {
	fmt.Println(style.Render(mark) + " " + msg)
}

func printSuccess(format string, args ...any) {
	printMarked(markOK, styleMarkOK, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printMarked(markFail, styleMarkFail, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printMarked(markWarn, StyleWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printMarked(markInfo, styleMarkInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line under the previous message.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists one written artifact.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(markArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints the wall, opening and element counts of a build
// followed by whether the model came from the cache.
func printStats(stats pipeline.Stats, cached bool) {
	sep := StyleDim.Render(" · ")
	line := "  " + StyleDim.Render(fmt.Sprintf("%d walls", stats.Walls)) +
		sep + StyleDim.Render(fmt.Sprintf("%d openings", stats.Openings))
	if stats.Elements > 0 {
		line += sep + StyleDim.Render(fmt.Sprintf("%d elements", stats.Elements))
	}
	source := styleMarkInfo.Render("fresh")
	if cached {
		source = styleMarkOK.Render("cached")
	}
	fmt.Println(line + sep + source)
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
