package errors

import (
	"strings"
)

// suggestFix generates an auto-fix suggestion based on the error code.
func suggestFix(err CompilerError) *FixSuggestion {
	switch err.Code {
	case ErrMixedIndentation:
		return suggestConsistentIndentation(err)
	case ErrInconsistentDedent:
		return suggestMatchingIndentLevel(err)
	case ErrUnterminatedString:
		return suggestCloseString(err)
	case ErrUnterminatedPrompt:
		return suggestClosePrompt(err)
	case ErrExpectedToken:
		return suggestTokenFix(err)
	case ErrMismatchedBracket:
		return suggestBracket(err)
	case ErrEmptyBlock:
		return suggestNonEmptyBlock(err)
	case ErrMalformedSchema:
		return suggestSchemaSyntax(err)
	case ErrInvalidTarget:
		return suggestAssignmentTarget(err)
	case ErrUndefinedName:
		return suggestDidYouMean(err)
	case ErrDuplicateFunction, ErrDuplicateParam:
		return suggestRename(err)
	case ErrTopLevelReturn, ErrTopLevelRet:
		return suggestWrapInFunction(err)
	case ErrSchemaMismatch, ErrParamSchema, ErrReturnSchema, ErrToolArgSchema, ErrPromptResultType:
		return suggestSchemaAlign(err)
	case ErrDivisionByZero, ErrModuloByZero:
		return suggestGuardZero(err)
	default:
		return nil
	}
}

func suggestConsistentIndentation(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "Indent with either tabs or spaces consistently within a block, never both",
		OldCode:     "",
		NewCode:     "",
		Confidence:  0.85,
	}
}

func suggestMatchingIndentLevel(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "Dedent to one of the enclosing indentation widths",
		OldCode:     "",
		NewCode:     "",
		Confidence:  0.70,
	}
}

func suggestCloseString(err CompilerError) *FixSuggestion {
	if len(err.Context.SourceLines) == 0 {
		return nil
	}
	errorLine := err.Context.SourceLines[err.Context.Highlight.Line]
	return &FixSuggestion{
		Description: "Add the closing quote",
		OldCode:     strings.TrimSpace(errorLine),
		NewCode:     strings.TrimSpace(errorLine) + `"`,
		Confidence:  0.85,
	}
}

func suggestClosePrompt(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "Add the closing '$' to end the prompt expression",
		OldCode:     "$ ...",
		NewCode:     "$ ... $",
		Confidence:  0.85,
	}
}

func suggestTokenFix(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "Check the surrounding syntax against the grammar in the language reference",
		OldCode:     "",
		NewCode:     "",
		Confidence:  0.50,
	}
}

func suggestBracket(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "Check that every '(', '[', '{' has a matching closing bracket",
		OldCode:     "",
		NewCode:     "",
		Confidence:  0.75,
	}
}

func suggestNonEmptyBlock(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "A block needs at least one statement; add one or remove the colon",
		OldCode:     "",
		NewCode:     "",
		Confidence:  0.70,
	}
}

func suggestSchemaSyntax(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "Schemas are one of: any, int, float, bool, string, [S], (S, S, ...), {name: S, ...}, S | S, S?",
		OldCode:     "",
		NewCode:     "",
		Confidence:  0.65,
	}
}

func suggestAssignmentTarget(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "Assignment targets must be a bare identifier, optionally followed by ': schema'",
		OldCode:     "",
		NewCode:     "",
		Confidence:  0.60,
	}
}

func suggestDidYouMean(err CompilerError) *FixSuggestion {
	if len(err.Suggestions) == 0 {
		return nil
	}
	return &FixSuggestion{
		Description: "Did you mean '" + err.Suggestions[0] + "'?",
		OldCode:     "",
		NewCode:     err.Suggestions[0],
		Confidence:  0.75,
	}
}

func suggestRename(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "Rename one of the conflicting definitions",
		OldCode:     "",
		NewCode:     "",
		Confidence:  0.70,
	}
}

func suggestWrapInFunction(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "'ret' is only valid inside a function body; move this statement into one",
		OldCode:     "",
		NewCode:     "",
		Confidence:  0.80,
	}
}

func suggestSchemaAlign(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "Change the value or widen the schema so the two agree",
		OldCode:     "",
		NewCode:     "",
		Confidence:  0.55,
	}
}

func suggestGuardZero(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "Guard the divisor/modulus with a zero check before the operation",
		OldCode:     "",
		NewCode:     "",
		Confidence:  0.70,
	}
}
