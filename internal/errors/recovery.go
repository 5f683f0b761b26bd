package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 100

// ErrorRecovery accumulates diagnostics across a lex → parse → resolve →
// evaluate pipeline run, so `check`/`run` can report every problem found in
// one pass instead of aborting at the first phase that fails.
type ErrorRecovery struct {
	errors   []CompilerError
	warnings []CompilerError
	maxCount int
}

// NewErrorRecovery creates a new ErrorRecovery instance
func NewErrorRecovery() *ErrorRecovery {
	return &ErrorRecovery{
		errors:   make([]CompilerError, 0),
		warnings: make([]CompilerError, 0),
		maxCount: MaxErrors,
	}
}

// NewErrorRecoveryWithMax creates a new ErrorRecovery with custom max count
func NewErrorRecoveryWithMax(maxCount int) *ErrorRecovery {
	return &ErrorRecovery{
		errors:   make([]CompilerError, 0),
		warnings: make([]CompilerError, 0),
		maxCount: maxCount,
	}
}

// Recover adds a diagnostic to the collection, enriching it with source
// context and an auto-fix suggestion on the way in.
func (r *ErrorRecovery) Recover(err CompilerError) {
	if len(r.errors) >= r.maxCount && (err.IsError() || err.IsFatal()) {
		return
	}

	if err.Location.File != "" && len(err.Context.SourceLines) == 0 {
		err = EnrichErrorFromFile(err)
	}

	if err.IsWarning() || err.IsInfo() {
		r.warnings = append(r.warnings, err)
	} else {
		r.errors = append(r.errors, err)
	}
}

// RecoverMultiple adds multiple errors to the collection
func (r *ErrorRecovery) RecoverMultiple(errs []CompilerError) {
	for _, err := range errs {
		if len(r.errors) >= r.maxCount {
			break
		}
		r.Recover(err)
	}
}

// HasErrors returns true if there are any errors (not just warnings)
func (r *ErrorRecovery) HasErrors() bool {
	return len(r.errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ErrorRecovery) HasWarnings() bool {
	return len(r.warnings) > 0
}

// HasFatals returns true if there are any fatal errors
func (r *ErrorRecovery) HasFatals() bool {
	for _, err := range r.errors {
		if err.IsFatal() {
			return true
		}
	}
	return false
}

// HasProviderErrors reports whether any collected error originated from the
// prompt provider (network/protocol failure or an exhausted tool budget)
// rather than from static analysis.
func (r *ErrorRecovery) HasProviderErrors() bool {
	for _, err := range r.errors {
		switch err.Code {
		case ErrProviderTransport, ErrProviderProtocol, ErrRepairExhausted,
			ErrToolRoundsLimit, ErrToolCallsLimit:
			return true
		}
	}
	return false
}

// ErrorCount returns the number of errors
func (r *ErrorRecovery) ErrorCount() int {
	return len(r.errors)
}

// WarningCount returns the number of warnings
func (r *ErrorRecovery) WarningCount() int {
	return len(r.warnings)
}

// TotalCount returns the total number of errors and warnings
func (r *ErrorRecovery) TotalCount() int {
	return len(r.errors) + len(r.warnings)
}

// GetErrors returns all errors
func (r *ErrorRecovery) GetErrors() []CompilerError {
	return r.errors
}

// GetWarnings returns all warnings
func (r *ErrorRecovery) GetWarnings() []CompilerError {
	return r.warnings
}

// GetAll returns all errors and warnings combined
func (r *ErrorRecovery) GetAll() []CompilerError {
	all := make([]CompilerError, 0, len(r.errors)+len(r.warnings))
	all = append(all, r.errors...)
	all = append(all, r.warnings...)
	return all
}

// Clear resets all errors and warnings
func (r *ErrorRecovery) Clear() {
	r.errors = make([]CompilerError, 0)
	r.warnings = make([]CompilerError, 0)
}

// PhaseCounts buckets the collected diagnostics by pipeline phase
// (lexer/parser/resolver/schema/runtime/provider/assertion), falling back
// to GetPhaseForCode when a diagnostic's Phase field was left blank.
// FormatForTerminal (check's text output) appends these counts as one
// "(phase:n ...)" line after the error/warning summary when more than one
// phase is involved, which tells a caller whether the program never got
// past parsing or failed deep in evaluation.
func (r *ErrorRecovery) PhaseCounts() map[string]int {
	counts := make(map[string]int)
	for _, err := range r.GetAll() {
		phase := err.Phase
		if phase == "" {
			phase = GetPhaseForCode(err.Code)
		}
		counts[phase]++
	}
	return counts
}

// FormatForTerminal formats all errors for terminal output
func (r *ErrorRecovery) FormatForTerminal() string {
	var sb strings.Builder

	for i, err := range r.errors {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(err.FormatForTerminal())
	}

	for i, warn := range r.warnings {
		if len(r.errors) > 0 || i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(warn.FormatForTerminal())
	}

	if r.TotalCount() > 0 {
		sb.WriteString(FormatSummary(len(r.errors), len(r.warnings)))
		sb.WriteString(formatPhaseBreakdown(r.PhaseCounts()))
	}

	if len(r.errors) >= r.maxCount {
		warn := color.New(color.FgYellow)
		warn.EnableColor()
		sb.WriteString(warn.Sprintf("\nNote: diagnostic limit reached (%d). Additional errors not shown.\n", r.maxCount))
	}

	return sb.String()
}

// formatPhaseBreakdown renders a one-line "by phase" tally, in a fixed
// pipeline order so a rerun of the same program diffs cleanly.
func formatPhaseBreakdown(counts map[string]int) string {
	order := []string{"lexer", "parser", "resolver", "schema", "runtime", "provider", "assertion"}
	var parts []string
	for _, phase := range order {
		if n, ok := counts[phase]; ok {
			parts = append(parts, fmt.Sprintf("%s:%d", phase, n))
		}
	}
	if len(parts) <= 1 {
		return ""
	}
	return fmt.Sprintf("  (%s)\n", strings.Join(parts, " "))
}

// FormatAsJSON formats all errors as JSON
func (r *ErrorRecovery) FormatAsJSON() (string, error) {
	all := r.GetAll()
	return FormatErrorsAsJSON(all)
}

// FormatAsJSONCompact formats all errors as compact JSON
func (r *ErrorRecovery) FormatAsJSONCompact() (string, error) {
	all := r.GetAll()
	return FormatErrorsAsJSONCompact(all)
}

// FirstError returns the first error, or nil if there are none
func (r *ErrorRecovery) FirstError() *CompilerError {
	if len(r.errors) == 0 {
		return nil
	}
	return &r.errors[0]
}

// FirstFatal returns the first fatal error, or nil if there are none
func (r *ErrorRecovery) FirstFatal() *CompilerError {
	for _, err := range r.errors {
		if err.IsFatal() {
			return &err
		}
	}
	return nil
}

// Error implements the error interface
func (r *ErrorRecovery) Error() string {
	if len(r.errors) == 0 && len(r.warnings) == 0 {
		return "no errors"
	}

	if len(r.errors) == 1 && len(r.warnings) == 0 {
		return r.errors[0].Error()
	}

	return fmt.Sprintf("%d error(s) and %d warning(s)", len(r.errors), len(r.warnings))
}

// Summary returns a human-readable summary
func (r *ErrorRecovery) Summary() string {
	if len(r.errors) == 0 && len(r.warnings) == 0 {
		return "No errors or warnings"
	}

	var parts []string
	if len(r.errors) > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", len(r.errors)))
	}
	if len(r.warnings) > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", len(r.warnings)))
	}

	return "Found " + strings.Join(parts, " and ")
}

// GetErrorsByPhase returns errors for a specific phase
func (r *ErrorRecovery) GetErrorsByPhase(phase string) []CompilerError {
	var result []CompilerError
	for _, err := range r.errors {
		if err.Phase == phase {
			result = append(result, err)
		}
	}
	return result
}

// GetErrorsByCode returns errors with a specific error code
func (r *ErrorRecovery) GetErrorsByCode(code string) []CompilerError {
	var result []CompilerError
	for _, err := range r.errors {
		if err.Code == code {
			result = append(result, err)
		}
	}
	for _, warn := range r.warnings {
		if warn.Code == code {
			result = append(result, warn)
		}
	}
	return result
}

// GetErrorsBySeverity returns errors with a specific severity
func (r *ErrorRecovery) GetErrorsBySeverity(severity Severity) []CompilerError {
	var result []CompilerError
	for _, err := range r.errors {
		if err.Severity == severity {
			result = append(result, err)
		}
	}
	for _, warn := range r.warnings {
		if warn.Severity == severity {
			result = append(result, warn)
		}
	}
	return result
}

// SortByLocation orders the collected errors by file, then line, then
// column, which the teacher's resolver never needed (it only ever
// reports one phase at a time). Without it, diagnostics from several
// phases collected in one ErrorRecovery stay in the order they were added.
func (r *ErrorRecovery) SortByLocation() {
	sort.SliceStable(r.errors, func(i, j int) bool {
		return lessLocation(r.errors[i].Location, r.errors[j].Location)
	})
	sort.SliceStable(r.warnings, func(i, j int) bool {
		return lessLocation(r.warnings[i].Location, r.warnings[j].Location)
	})
}

func lessLocation(a, b SourceLocation) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}
