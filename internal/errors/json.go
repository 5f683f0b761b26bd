package errors

import (
	"encoding/json"
)

// JSONOutput is the `--format json` document `check`/`run` print to stdout.
type JSONOutput struct {
	Status   string          `json:"status"`
	Errors   []CompilerError `json:"errors"`
	Warnings []CompilerError `json:"warnings"`
	Summary  Summary         `json:"summary"`
}

// Summary contains error and warning counts, broken down by the pipeline
// phase that raised them (lexer/parser/resolver/schema/runtime/provider/
// assertion) so a machine caller can tell a syntax failure from a runtime
// one without re-parsing every diagnostic's Code.
type Summary struct {
	ErrorCount   int            `json:"error_count"`
	WarningCount int            `json:"warning_count"`
	TotalCount   int            `json:"total_count"`
	ByPhase      map[string]int `json:"by_phase,omitempty"`
}

// FormatAsJSON formats a CompilerError as JSON
func (e CompilerError) FormatAsJSON() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func buildJSONOutput(diags []CompilerError) JSONOutput {
	var errorList, warningList []CompilerError
	byPhase := make(map[string]int)

	for _, err := range diags {
		phase := err.Phase
		if phase == "" {
			phase = GetPhaseForCode(err.Code)
		}
		byPhase[phase]++

		if err.IsError() {
			errorList = append(errorList, err)
		} else if err.IsWarning() {
			warningList = append(warningList, err)
		}
	}

	status := "success"
	if len(errorList) > 0 {
		status = "error"
	} else if len(warningList) > 0 {
		status = "warning"
	}

	return JSONOutput{
		Status:   status,
		Errors:   errorList,
		Warnings: warningList,
		Summary: Summary{
			ErrorCount:   len(errorList),
			WarningCount: len(warningList),
			TotalCount:   len(diags),
			ByPhase:      byPhase,
		},
	}
}

// FormatErrorsAsJSON formats multiple diagnostics as an indented JSONOutput document.
func FormatErrorsAsJSON(diags []CompilerError) (string, error) {
	data, err := json.MarshalIndent(buildJSONOutput(diags), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatAsJSONCompact formats a CompilerError as compact JSON (no indentation)
func (e CompilerError) FormatAsJSONCompact() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatErrorsAsJSONCompact formats multiple diagnostics as a compact JSONOutput document.
func FormatErrorsAsJSONCompact(diags []CompilerError) (string, error) {
	data, err := json.Marshal(buildJSONOutput(diags))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
