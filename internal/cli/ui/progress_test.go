package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// TestSpinnerStartStop tests basic spinner lifecycle and goroutine cleanup
func TestSpinnerStartStop(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(&buf, SpinnerOptions{
		Message:  "running greet.orj",
		NoColor:  true,
		Interval: 50 * time.Millisecond,
	})

	spinner.Start()
	time.Sleep(150 * time.Millisecond)
	spinner.Stop()

	if !strings.Contains(buf.String(), "running greet.orj") {
		t.Errorf("Expected spinner to show message 'running greet.orj', got: %s", buf.String())
	}

	// Verify clearing sequence was written
	if !strings.Contains(buf.String(), "\r\033[K") {
		t.Error("Expected spinner to clear the line on stop")
	}
}

// TestSpinnerSuccess tests the Success method
func TestSpinnerSuccess(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(&buf, SpinnerOptions{
		Message: "running greet.orj",
		NoColor: true,
	})

	spinner.Start()
	time.Sleep(50 * time.Millisecond)
	spinner.Success("running greet.orj")

	output := buf.String()

	if !strings.Contains(output, "✓") {
		t.Error("Expected success symbol ✓")
	}
	if !strings.Contains(output, "running greet.orj") {
		t.Errorf("Expected success message, got: %s", output)
	}
}

// TestSpinnerError tests the Error method
func TestSpinnerError(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(&buf, SpinnerOptions{
		Message: "running greet.orj",
		NoColor: true,
	})

	spinner.Start()
	time.Sleep(50 * time.Millisecond)
	spinner.Error("running greet.orj failed")

	output := buf.String()

	if !strings.Contains(output, "❌") {
		t.Error("Expected error symbol ❌")
	}
	if !strings.Contains(output, "running greet.orj failed") {
		t.Errorf("Expected error message, got: %s", output)
	}
}

// TestSpinnerNoColor verifies NoColor flag disables colors
func TestSpinnerNoColor(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(&buf, SpinnerOptions{
		Message: "running greet.orj",
		NoColor: true,
	})

	spinner.Start()
	time.Sleep(100 * time.Millisecond)
	spinner.Stop()

	output := buf.String()

	lines := strings.Split(output, "\n")
	for _, line := range lines {
		// Skip the clear line sequence which is expected
		if line == "\r\033[K" || line == "" {
			continue
		}
		if strings.Contains(line, "\x1b[3") && !strings.Contains(line, "\x1b[K") {
			t.Errorf("Expected no color codes with NoColor=true, but found them in: %q", line)
		}
	}
}

// TestSpinnerUpdateMessage tests changing the spinner message, as run.go
// does once per tool-calling round.
func TestSpinnerUpdateMessage(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(&buf, SpinnerOptions{
		Message: "running greet.orj",
		NoColor: true,
	})

	spinner.Start()
	time.Sleep(50 * time.Millisecond)

	spinner.UpdateMessage("running greet.orj (tool round 2/10)")
	time.Sleep(50 * time.Millisecond)

	spinner.Stop()

	output := buf.String()

	if !strings.Contains(output, "running greet.orj (tool round 2/10)") {
		t.Errorf("Expected updated message in output, got: %s", output)
	}
}

// TestWithSpinner tests the helper function for success case
func TestWithSpinner(t *testing.T) {
	var buf bytes.Buffer
	called := false

	err := WithSpinner(&buf, "running greet.orj", true, func() error {
		called = true
		return nil
	})

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	if !called {
		t.Error("Expected function to be called")
	}

	output := buf.String()
	if !strings.Contains(output, "✓") {
		t.Error("Expected success symbol in output")
	}
	if !strings.Contains(output, "running greet.orj") {
		t.Errorf("Expected task message in output, got: %s", output)
	}
}

// TestWithSpinnerError tests the helper function for error case
func TestWithSpinnerError(t *testing.T) {
	var buf bytes.Buffer
	testErr := &testError{msg: "provider request timed out"}

	err := WithSpinner(&buf, "running broken.orj", true, func() error {
		return testErr
	})

	if err != testErr {
		t.Errorf("Expected error to be returned, got: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "❌") {
		t.Error("Expected error symbol in output")
	}
	if !strings.Contains(output, "failed") {
		t.Errorf("Expected 'failed' in output, got: %s", output)
	}
}

// testError is a simple error type for testing
type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

// TestProgressBarAdd tests incrementing progress
func TestProgressBarAdd(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{
		Total:   4,
		Width:   40,
		Message: "checking programs/",
		NoColor: true,
	})

	bar.Add(1)
	output := buf.String()

	if !strings.Contains(output, "25%") {
		t.Errorf("Expected 25%% in output, got: %s", output)
	}

	buf.Reset()
	bar.Add(1)
	output = buf.String()

	if !strings.Contains(output, "50%") {
		t.Errorf("Expected 50%% in output, got: %s", output)
	}
}

// TestProgressBarSet tests setting specific value
func TestProgressBarSet(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{
		Total:   4,
		Width:   40,
		NoColor: true,
	})

	bar.Set(3)
	output := buf.String()

	if !strings.Contains(output, "75%") {
		t.Errorf("Expected 75%% in output, got: %s", output)
	}
}

// TestProgressBarFinish tests completion
func TestProgressBarFinish(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{
		Total:   4,
		Width:   40,
		NoColor: true,
	})

	bar.Set(2)
	buf.Reset()

	bar.Finish()
	output := buf.String()

	if !strings.Contains(output, "100%") {
		t.Errorf("Expected 100%% in output, got: %s", output)
	}

	if !strings.HasSuffix(output, "\n") {
		t.Error("Expected output to end with newline")
	}
}

// TestProgressBarFinishWithMessage tests completion with success message
func TestProgressBarFinishWithMessage(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{
		Total:   4,
		Width:   40,
		NoColor: true,
	})

	bar.Set(2)
	bar.FinishWithMessage("4 programs checked, 0 errors")

	output := buf.String()

	if !strings.Contains(output, "100%") {
		t.Errorf("Expected 100%% in output, got: %s", output)
	}

	if !strings.Contains(output, "✓") {
		t.Error("Expected success symbol")
	}
	if !strings.Contains(output, "4 programs checked, 0 errors") {
		t.Errorf("Expected completion message, got: %s", output)
	}
}

// TestProgressBarRender tests output formatting
func TestProgressBarRender(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{
		Total:   4,
		Width:   20,
		Message: "checking programs/",
		NoColor: true,
	})

	bar.Set(2)
	output := buf.String()

	if !strings.Contains(output, "[") || !strings.Contains(output, "]") {
		t.Errorf("Expected brackets in progress bar, got: %s", output)
	}

	if !strings.Contains(output, "checking programs/") {
		t.Errorf("Expected message in output, got: %s", output)
	}

	if !strings.Contains(output, "50%") {
		t.Errorf("Expected 50%% in output, got: %s", output)
	}
}

// TestProgressBarNoColor verifies NoColor flag disables colors
func TestProgressBarNoColor(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{
		Total:   4,
		Width:   20,
		NoColor: true,
	})

	bar.Set(2)
	output := buf.String()

	if strings.Contains(output, "\x1b[3") {
		t.Errorf("Expected no color codes with NoColor=true, but found them in: %q", output)
	}
}

// TestProgressBarZeroTotal tests division by zero protection
func TestProgressBarZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{
		Total:   0,
		Width:   40,
		NoColor: true,
	})

	// Should not panic and should not render anything
	bar.Add(10)
	output := buf.String()

	if output != "" {
		t.Errorf("Expected no output with total=0, got: %s", output)
	}
}

// TestProgressBarCurrentExceedsTotal tests clamping behavior
func TestProgressBarCurrentExceedsTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{
		Total:   4,
		Width:   40,
		NoColor: true,
	})

	bar.Set(7)
	output := buf.String()

	if !strings.Contains(output, "100%") {
		t.Errorf("Expected 100%% when current exceeds total, got: %s", output)
	}

	buf.Reset()
	bar = NewProgressBar(&buf, ProgressBarOptions{
		Total:   4,
		Width:   40,
		NoColor: true,
	})

	bar.Add(7)
	output = buf.String()

	if !strings.Contains(output, "100%") {
		t.Errorf("Expected 100%% when adding exceeds total, got: %s", output)
	}
}

// TestWithProgress tests the helper function against a directory-check-style
// workload: one tick per .orj file.
func TestWithProgress(t *testing.T) {
	var buf bytes.Buffer
	files := []string{"a.orj", "b.orj", "c.orj"}
	checked := 0

	err := WithProgress(&buf, "checking programs/", len(files), true, func(bar *ProgressBar) error {
		for range files {
			checked++
			bar.Add(1)
		}
		return nil
	})

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	if checked != len(files) {
		t.Errorf("Expected all %d files checked, got %d", len(files), checked)
	}

	output := buf.String()

	if !strings.Contains(output, "100%") {
		t.Errorf("Expected 100%% in output, got: %s", output)
	}

	if !strings.Contains(output, "✓") {
		t.Error("Expected success symbol in output")
	}

	if !strings.Contains(output, "checking programs/") {
		t.Errorf("Expected message in output, got: %s", output)
	}
}

// TestWithProgressError tests the helper function with error
func TestWithProgressError(t *testing.T) {
	var buf bytes.Buffer
	testErr := &testError{msg: "b.orj: unterminated prompt expression"}

	err := WithProgress(&buf, "checking programs/", 4, true, func(bar *ProgressBar) error {
		bar.Add(2)
		return testErr
	})

	if err != testErr {
		t.Errorf("Expected error to be returned, got: %v", err)
	}

	output := buf.String()

	// Should show 50% (where it stopped)
	if !strings.Contains(output, "50%") {
		t.Errorf("Expected 50%% in output, got: %s", output)
	}

	if strings.Contains(output, "✓") {
		t.Error("Did not expect success symbol when error occurs")
	}
}

// TestSpinnerStopWithoutStart tests edge case of stopping before starting
func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(&buf, SpinnerOptions{
		Message: "running greet.orj",
		NoColor: true,
	})

	// Stop without starting should not panic
	spinner.Stop()

	if buf.Len() > 0 {
		t.Errorf("Expected no output when stopping inactive spinner, got: %s", buf.String())
	}
}

// TestSpinnerMultipleStops tests calling stop multiple times
func TestSpinnerMultipleStops(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(&buf, SpinnerOptions{
		Message: "running greet.orj",
		NoColor: true,
	})

	spinner.Start()
	time.Sleep(50 * time.Millisecond)

	spinner.Stop()
	firstLen := buf.Len()

	spinner.Stop()
	secondLen := buf.Len()

	if secondLen != firstLen {
		t.Error("Expected multiple stops to not produce additional output")
	}
}

// TestProgressBarDefaultWidth tests default width is set
func TestProgressBarDefaultWidth(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{
		Total:   4,
		NoColor: true,
		// Width not specified
	})

	if bar.width != 40 {
		t.Errorf("Expected default width of 40, got: %d", bar.width)
	}
}

// TestSpinnerDefaultInterval tests default interval is set
func TestSpinnerDefaultInterval(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(&buf, SpinnerOptions{
		Message: "running greet.orj",
		NoColor: true,
		// Interval not specified
	})

	if spinner.interval != 100*time.Millisecond {
		t.Errorf("Expected default interval of 100ms, got: %v", spinner.interval)
	}
}
