package errors

import (
	"os"
	"strings"
)

// contextRadius is how many lines of source surround an error line in a
// terminal snippet.
const contextRadius = 3

// EnrichError adds source context and an auto-fix suggestion to an error.
func EnrichError(err CompilerError, sourceContent string) CompilerError {
	err = err.WithContext(extractSourceContext(err.Location, sourceContent))

	if suggestion := suggestFix(err); suggestion != nil {
		err = err.WithSuggestion(*suggestion)
	}

	return err
}

// extractSourceContext extracts contextRadius lines before, the error
// line, and contextRadius lines after, and flags whether the error falls
// inside a `$ ... $` prompt expression so the terminal renderer can warn
// that line/column offsets inside prompt text are measured in raw bytes,
// not post-interpolation content.
func extractSourceContext(location SourceLocation, sourceContent string) ErrorContext {
	lines := strings.Split(sourceContent, "\n")

	if location.Line < 1 || location.Line > len(lines) {
		return ErrorContext{}
	}

	errorLineIndex := location.Line - 1
	startLine := max(0, errorLineIndex-contextRadius)
	endLine := min(len(lines), errorLineIndex+contextRadius+1)

	contextLines := make([]string, 0, endLine-startLine)
	for i := startLine; i < endLine; i++ {
		contextLines = append(contextLines, lines[i])
	}

	errorLineInContext := errorLineIndex - startLine

	start := location.Column - 1
	end := start + location.Length
	if location.Length == 0 {
		end = start + 1
	}

	return ErrorContext{
		SourceLines: contextLines,
		Highlight: Highlight{
			Line:  errorLineInContext,
			Start: start,
			End:   end,
		},
		InPromptBlock: insidePromptBlock(lines, errorLineIndex, start),
	}
}

// insidePromptBlock scans from the start of the file up to (line, col),
// counting unescaped '$' delimiters. An odd count means the location sits
// between an opening and a closing '$', i.e. inside prompt text rather
// than ordinary statement syntax.
func insidePromptBlock(lines []string, lineIdx, col int) bool {
	countDelims := func(s string) int {
		n := 0
		for i := 0; i < len(s); i++ {
			if s[i] == '\\' {
				i++
				continue
			}
			if s[i] == '$' {
				n++
			}
		}
		return n
	}
	count := 0
	for i := 0; i < lineIdx && i < len(lines); i++ {
		count += countDelims(lines[i])
	}
	if lineIdx < len(lines) {
		line := lines[lineIdx]
		if col > len(line) {
			col = len(line)
		}
		if col > 0 {
			count += countDelims(line[:col])
		}
	}
	return count%2 == 1
}

// ReadSourceFile reads a source file and returns its contents
func ReadSourceFile(filepath string) (string, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// EnrichErrorFromFile reads the source file named by the error's location
// and enriches the error with its surrounding context.
func EnrichErrorFromFile(err CompilerError) CompilerError {
	content, readErr := ReadSourceFile(err.Location.File)
	if readErr != nil {
		return err
	}

	return EnrichError(err, content)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
