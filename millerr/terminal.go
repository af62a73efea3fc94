package millerr

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// errorLike is satisfied by every concrete error type in this package: a
// string code, a message, a location, a severity, and optional context —
// enough to render a terminal diagnostic uniformly regardless of which
// layer raised it.
type errorLike interface {
	error
	Location() Location
	Severity() Severity
}

var severityColor = map[Severity]*color.Color{
	Info:    color.New(color.FgBlue),
	Warning: color.New(color.FgYellow),
	Error:   color.New(color.FgRed),
	Fatal:   color.New(color.FgRed, color.Bold),
}

// FormatForTerminal renders e through fatih/color instead of hand-written
// ANSI escapes: a bold severity-colored header, a cyan "-->" location line,
// and (when present) a source-context block with the offending span
// underlined.
func FormatForTerminal(e errorLike, ctx Context, suggestion *FixSuggestion) string {
	var sb strings.Builder

	sc := severityColor[e.Severity()]
	header := color.New(color.Bold).Sprint(strings.Title(e.Severity().String()))
	sb.WriteString(fmt.Sprintf("%s: %s\n", sc.Sprint(header), e.Error()))

	loc := e.Location()
	sb.WriteString(fmt.Sprintf("  %s %d:%d\n", color.CyanString("-->"), loc.Line, loc.Column))

	if len(ctx.SourceLines) > 0 {
		sb.WriteString(formatContext(ctx))
	}
	if suggestion != nil {
		sb.WriteString(formatSuggestion(*suggestion))
	}
	return sb.String()
}

func formatContext(ctx Context) string {
	var sb strings.Builder
	gray := color.New(color.FgHiBlack)
	for i, line := range ctx.SourceLines {
		if i == ctx.Highlight.Line {
			sb.WriteString(fmt.Sprintf("  %s %s\n", gray.Sprint("|"), line))
			pad := strings.Repeat(" ", ctx.Highlight.Start)
			carets := strings.Repeat("^", max(ctx.Highlight.End-ctx.Highlight.Start, 1))
			sb.WriteString(fmt.Sprintf("  %s %s%s\n", gray.Sprint("|"), pad, color.RedString(carets)))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s %s\n", gray.Sprint("|"), line))
	}
	return sb.String()
}

func formatSuggestion(s FixSuggestion) string {
	green := color.New(color.FgGreen)
	return fmt.Sprintf("  %s %s\n    %s\n    %s %s\n",
		green.Sprint("help:"), s.Description,
		color.RedString("- "+s.OldText),
		"->", color.GreenString(s.NewText))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
