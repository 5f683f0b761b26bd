package errors_test

import (
	"fmt"

	"github.com/orangensaft-lang/orangensaft/internal/errors"
)

// ExampleCompilerError_FormatForTerminal demonstrates terminal formatting
func ExampleCompilerError_FormatForTerminal() {
	sourceContent := `f total(items: list[int]) -> int:
  sum = 0
  subtotal = sum * "x"
  ret subtotal
`

	loc := errors.SourceLocation{
		File:   "app.orj",
		Line:   3,
		Column: 13,
		Length: 9,
	}

	err := errors.NewCompilerError(
		"evaluator",
		errors.ErrSchemaMismatch,
		"value does not match schema - expected int, got string",
		loc,
		errors.Error,
	)

	err = errors.EnrichError(err, sourceContent)

	output := err.FormatForTerminal()
	fmt.Println(errors.StripColors(output))

	// Output includes error, location, context, and suggestion
}

// ExampleErrorRecovery demonstrates collecting multiple errors
func ExampleErrorRecovery() {
	recovery := errors.NewErrorRecovery()

	for i := 1; i <= 3; i++ {
		loc := errors.SourceLocation{
			File:   "app.orj",
			Line:   i,
			Column: 1,
		}
		err := errors.NewCompilerError(
			"parser",
			errors.ErrUnexpectedToken,
			fmt.Sprintf("Unexpected token at line %d", i),
			loc,
			errors.Error,
		)
		recovery.Recover(err)
	}

	fmt.Printf("Collected %d errors\n", recovery.ErrorCount())
	fmt.Println(recovery.Summary())

	// Output:
	// Collected 3 errors
	// Found 3 error(s)
}

// ExampleFormatErrorsAsJSON demonstrates JSON output
func ExampleFormatErrorsAsJSON() {
	loc := errors.SourceLocation{
		File:   "app.orj",
		Line:   5,
		Column: 10,
	}

	err := errors.NewCompilerError(
		"resolver",
		errors.ErrUndefinedName,
		"undefined name 'total'",
		loc,
		errors.Error,
	)

	jsonOutput, _ := err.FormatAsJSON()
	fmt.Println("JSON output available")
	_ = jsonOutput

	// Output:
	// JSON output available
}
