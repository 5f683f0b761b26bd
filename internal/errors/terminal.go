package errors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// Color objects used for terminal rendering. EnableColor is called on each
// so diagnostics carry the same escape sequences whether or not the process
// itself is attached to a terminal — the CLI layer (internal/cli/ui)
// decides whether to keep or strip them via StripColors, not this package.
var (
	colErrorHeader = color.New(color.FgRed, color.Bold)
	colWarnHeader  = color.New(color.FgYellow, color.Bold)
	colInfoHeader  = color.New(color.FgBlue, color.Bold)
	colFatalHeader = color.New(color.FgRed, color.Bold, color.Underline)
	colLocation    = color.New(color.FgCyan)
	colGutter      = color.New(color.FgBlue)
	colContextLine = color.New(color.FgHiBlack)
	colCaret       = color.New(color.FgRed)
	colHelp        = color.New(color.FgCyan, color.Bold)
	colCandidate   = color.New(color.FgGreen)
	colCode        = color.New(color.FgHiBlack)
)

func init() {
	for _, c := range []*color.Color{
		colErrorHeader, colWarnHeader, colInfoHeader, colFatalHeader,
		colLocation, colGutter, colContextLine, colCaret, colHelp, colCandidate, colCode,
	} {
		c.EnableColor()
	}
}

func headerColor(severity Severity) *color.Color {
	switch severity {
	case Info:
		return colInfoHeader
	case Warning:
		return colWarnHeader
	case Fatal:
		return colFatalHeader
	default:
		return colErrorHeader
	}
}

// FormatForTerminal renders a CompilerError for a terminal: severity,
// error code, phase tag, source snippet, candidate names, and fix
// suggestion, in that order.
func (e CompilerError) FormatForTerminal() string {
	var sb strings.Builder

	hc := headerColor(e.Severity)
	phase := e.Phase
	if phase == "" {
		phase = GetPhaseForCode(e.Code)
	}

	if e.Code != "" {
		sb.WriteString(hc.Sprintf("%s[%s]", strings.Title(e.Severity.String()), e.Code))
		sb.WriteString(colCode.Sprintf(" (%s)", phase))
		sb.WriteString(fmt.Sprintf(": %s\n", e.Message))
	} else {
		sb.WriteString(hc.Sprintf("%s", strings.Title(e.Severity.String())))
		sb.WriteString(fmt.Sprintf(": %s\n", e.Message))
	}

	sb.WriteString(fmt.Sprintf("  %s %s:%d:%d\n",
		colLocation.Sprint("-->"),
		e.Location.File,
		e.Location.Line,
		e.Location.Column))

	if len(e.Context.SourceLines) > 0 {
		sb.WriteString(formatSourceContext(e.Context))
	}

	if len(e.Suggestions) > 1 {
		sb.WriteString(formatCandidates(e.Suggestions))
	}

	if e.Suggestion != nil {
		sb.WriteString(formatSuggestion(*e.Suggestion))
	}

	if len(e.RelatedErrors) > 0 {
		sb.WriteString(fmt.Sprintf("\n%s\n", color.New(color.Bold).Sprint("Related errors:")))
		for i, related := range e.RelatedErrors {
			sb.WriteString(fmt.Sprintf("  %d. %s:%d:%d: %s\n",
				i+1,
				related.Location.File,
				related.Location.Line,
				related.Location.Column,
				related.Message))
		}
	}

	return sb.String()
}

// formatSourceContext renders the surrounding snippet with a gutter and a
// caret line under the offending span.
func formatSourceContext(ctx ErrorContext) string {
	var sb strings.Builder

	if ctx.InPromptBlock {
		sb.WriteString(colContextLine.Sprint("   inside prompt expression\n"))
	}

	sb.WriteString(fmt.Sprintf("   %s\n", colGutter.Sprint("|")))

	for i, line := range ctx.SourceLines {
		lineNum := i + 1
		isErrorLine := i == ctx.Highlight.Line

		if isErrorLine {
			sb.WriteString(fmt.Sprintf("%s %s %s\n",
				colGutter.Sprintf("%2d", lineNum),
				colGutter.Sprint("|"),
				line))

			sb.WriteString(fmt.Sprintf("   %s ", colGutter.Sprint("|")))

			sb.WriteString(strings.Repeat(" ", max(0, ctx.Highlight.Start)))

			highlightLength := ctx.Highlight.End - ctx.Highlight.Start
			if highlightLength <= 0 {
				highlightLength = 1
			}
			sb.WriteString(colCaret.Sprintf("%s\n", strings.Repeat("^", highlightLength)))
		} else {
			sb.WriteString(fmt.Sprintf("%s %s %s\n",
				colContextLine.Sprintf("%2d", lineNum),
				colGutter.Sprint("|"),
				line))
		}
	}

	sb.WriteString(fmt.Sprintf("   %s\n", colGutter.Sprint("|")))

	return sb.String()
}

// formatCandidates lists every "did you mean" candidate the resolver found,
// not just the top pick FixSuggestion carries forward.
func formatCandidates(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = colCandidate.Sprint(n)
	}
	return fmt.Sprintf("\n%s %s\n", colHelp.Sprint("Candidates:"), strings.Join(quoted, ", "))
}

// formatSuggestion formats a fix suggestion
func formatSuggestion(suggestion FixSuggestion) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\n%s %s\n", colHelp.Sprint("Help:"), suggestion.Description))

	if suggestion.NewCode != "" {
		sb.WriteString(fmt.Sprintf("%s\n", colHelp.Sprint("Suggestion:")))

		lines := strings.Split(suggestion.NewCode, "\n")
		for _, line := range lines {
			sb.WriteString(fmt.Sprintf("    %s\n", line))
		}

		if suggestion.Confidence < 1.0 {
			confidencePercent := int(suggestion.Confidence * 100)
			sb.WriteString(colContextLine.Sprintf("(Confidence: %d%%)\n", confidencePercent))
		}
	}

	return sb.String()
}

// FormatSummary formats a summary of errors and warnings
func FormatSummary(errorCount, warningCount int) string {
	var parts []string

	if errorCount > 0 {
		parts = append(parts, color.New(color.FgRed).Sprintf("%d error(s)", errorCount))
	}

	if warningCount > 0 {
		parts = append(parts, color.New(color.FgYellow).Sprintf("%d warning(s)", warningCount))
	}

	if len(parts) == 0 {
		return color.New(color.FgBlue).Sprintln("No errors or warnings")
	}

	return fmt.Sprintf("\n%s\n", color.New(color.Bold).Sprintf("Found %s", strings.Join(parts, " and ")))
}

var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*m")

// StripColors removes ANSI escape sequences from a string (useful for
// testing and for --format json/--no-color rendering).
func StripColors(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}
