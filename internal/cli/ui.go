package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bestofjs/pkg/dataset"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleTag = lipgloss.NewStyle().Foreground(colorGreen)
	styleKey = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconStar    = "★"
	iconTrend   = "▲"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Projects
// =============================================================================

// printProjects prints one line per project followed by its description.
func printProjects(w io.Writer, projects []*dataset.Project) {
	for i, p := range projects {
		printProjectLine(w, i+1, p)
	}
}

func printProjectLine(w io.Writer, rank int, p *dataset.Project) {
	line := StyleDim.Render(fmt.Sprintf("%3d.", rank)) + " " + StyleTitle.Render(p.Name)
	if stars, ok := p.Fields.Number("stars"); ok {
		line += "  " + StyleNumber.Render(iconStar+" "+formatCount(stars))
	}
	if delta, ok := p.Fields.Number("trends.daily"); ok && delta > 0 {
		line += "  " + StyleHighlight.Render(iconTrend+" +"+formatCount(delta))
	}
	fmt.Fprintln(w, line)
	if desc := p.Fields.String("description"); desc != "" {
		fmt.Fprintln(w, "     "+StyleDim.Render(desc))
	}
	if len(p.Tags) > 0 {
		fmt.Fprintln(w, "     "+renderTagCodes(p.Tags))
	}
}

// printProjectDetail prints every known attribute of a single project.
func printProjectDetail(w io.Writer, p *dataset.Project) {
	fmt.Fprintln(w, StyleTitle.Render(p.Name))
	if desc := p.Fields.String("description"); desc != "" {
		fmt.Fprintln(w, StyleDim.Render(desc))
	}
	fmt.Fprintln(w)

	printKeyValue(w, "Slug", p.Slug)
	if p.Repository != "" {
		printKeyValue(w, "Repository", StyleLink.Render(p.Repository))
	}
	if p.PackageName != "" {
		printKeyValue(w, "Package", p.PackageName)
	}
	if url := p.Fields.String("url"); url != "" {
		printKeyValue(w, "Homepage", StyleLink.Render(url))
	}
	if stars, ok := p.Fields.Number("stars"); ok {
		printKeyValue(w, "Stars", formatCount(stars))
	}
	for _, period := range []string{"daily", "weekly", "monthly", "yearly"} {
		if v, ok := p.Fields.Number("trends." + period); ok {
			printKeyValue(w, "Trend "+period, fmt.Sprintf("%+.0f", v))
		}
	}
	if len(p.Tags) > 0 {
		printKeyValue(w, "Tags", renderTagCodes(p.Tags))
	}
}

// =============================================================================
// Tags
// =============================================================================

// printTags prints tags with their project counts and, when attached, the
// names of their top projects.
func printTags(w io.Writer, tags []*dataset.Tag) {
	for _, t := range tags {
		line := styleTag.Render(t.Code) + " " + StyleValue.Render(t.Name)
		if t.Counter > 0 {
			line += " " + StyleDim.Render(fmt.Sprintf("(%d)", t.Counter))
		}
		fmt.Fprintln(w, line)
		if len(t.Projects) > 0 {
			names := make([]string, len(t.Projects))
			for i, p := range t.Projects {
				names[i] = p.Name
			}
			printDetail(w, "%s", strings.Join(names, ", "))
		}
	}
}

func renderTagCodes(tags []*dataset.Tag) string {
	codes := make([]string, len(tags))
	for i, t := range tags {
		codes[i] = styleTag.Render("#" + t.Code)
	}
	return strings.Join(codes, " ")
}

// =============================================================================
// Utilities
// =============================================================================

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTotal prints the "showing x of y" footer.
func printTotal(w io.Writer, shown, total int, noun string) {
	fmt.Fprintln(w)
	printInfo(w, "%d of %d %s", shown, total, noun)
}

// formatCount abbreviates large numbers: 1234 -> 1.2k, 2500000 -> 2.5M.
func formatCount(v float64) string {
	switch {
	case v >= 1e6 || v <= -1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3 || v <= -1e3:
		return fmt.Sprintf("%.1fk", v/1e3)
	}
	return fmt.Sprintf("%.0f", v)
}
