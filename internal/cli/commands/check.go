package commands

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/cli/ui"
	"github.com/orangensaft-lang/orangensaft/internal/errors"
	"github.com/orangensaft-lang/orangensaft/internal/introspect"
	"github.com/orangensaft-lang/orangensaft/internal/lexer"
	"github.com/orangensaft-lang/orangensaft/internal/parser"
	"github.com/orangensaft-lang/orangensaft/internal/resolver"
	"github.com/orangensaft-lang/orangensaft/internal/stdlib"
)

var (
	checkFormat string
	checkServe  string
)

// NewCheckCommand creates the check command: lex, parse, and resolve a
// program without evaluating it, reporting diagnostics.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Lex, parse, and resolve a program without running it",
		Long: `Check a program for lexical, syntactic, and name-resolution errors
without evaluating any prompt or invoking any tool.

Examples:
  orangensaft check program.orj
  orangensaft check program.orj --format json
  orangensaft check program.orj --serve :4117`,
		Args: cobra.ExactArgs(1),
		RunE: runCheck,
	}

	cmd.Flags().StringVar(&checkFormat, "format", "text", "Diagnostic output format: text|json")
	cmd.Flags().StringVar(&checkServe, "serve", "", "Start a read-only introspection server at the given address (e.g. :4117) after a clean check")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	recovery := errors.NewErrorRecovery()

	l := lexer.New(string(src), path)
	tokens, lexErrs := l.ScanTokens()
	for _, le := range lexErrs {
		recovery.Recover(errors.NewCompilerError("lexer", "", le.Message, errors.SourceLocation{
			File: le.Span.File, Line: le.Span.Line, Column: le.Span.Col, Length: le.Span.End - le.Span.Start,
		}, errors.Error))
	}

	var prog *ast.Program
	if !recovery.HasErrors() {
		p := parser.New(tokens, path)
		var parseErrs []errors.CompilerError
		prog, parseErrs = p.Parse()
		recovery.RecoverMultiple(parseErrs)
	}

	if prog != nil && !recovery.HasErrors() {
		resolveErrs := resolver.Resolve(prog, path, stdlib.Names())
		recovery.RecoverMultiple(resolveErrs)
	}

	if err := reportDiagnostics(cmd, recovery); err != nil {
		return err
	}

	if recovery.HasErrors() {
		return fmt.Errorf("%s: %s", path, recovery.Summary())
	}

	ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s is clean", path), false)

	if checkServe != "" {
		logger, _ := zap.NewProduction()
		defer logger.Sync()
		logger.Info("introspection server listening", zap.String("addr", checkServe))
		return http.ListenAndServe(checkServe, introspect.NewRouter(prog))
	}

	return nil
}

func reportDiagnostics(cmd *cobra.Command, recovery *errors.ErrorRecovery) error {
	if recovery.TotalCount() == 0 {
		return nil
	}

	switch checkFormat {
	case "json":
		out, err := recovery.FormatAsJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	default:
		fmt.Fprint(cmd.OutOrStderr(), recovery.FormatForTerminal())
	}
	return nil
}
