package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Spinner animates a single status line for an operation whose duration
// can't be known upfront — chiefly a provider round-trip in `run`, where
// the only thing worth telling the operator before it finishes is which
// tool-calling round it's currently on.
type Spinner struct {
	writer   io.Writer
	message  string
	frames   []string
	interval time.Duration
	active   bool
	done     chan bool
	noColor  bool
	mu       sync.RWMutex // protects message, read by animate concurrently with UpdateMessage
}

// SpinnerOptions configures spinner behavior.
type SpinnerOptions struct {
	Message  string
	NoColor  bool
	Interval time.Duration // default: 100ms
}

var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func tinted(c *color.Color, noColor bool) *color.Color {
	if noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

// NewSpinner creates a new spinner.
func NewSpinner(w io.Writer, opts SpinnerOptions) *Spinner {
	interval := opts.Interval
	if interval == 0 {
		interval = 100 * time.Millisecond
	}

	return &Spinner{
		writer:   w,
		message:  opts.Message,
		frames:   defaultFrames,
		interval: interval,
		done:     make(chan bool),
		noColor:  opts.NoColor,
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.active = true
	go s.animate()
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	if !s.active {
		return
	}
	s.active = false
	s.done <- true
	fmt.Fprint(s.writer, "\r\033[K")
}

// Success stops the spinner and shows a success message.
func (s *Spinner) Success(message string) {
	s.Stop()
	tinted(color.New(color.FgGreen, color.Bold), s.noColor).Fprintf(s.writer, "✓ %s\n", message)
}

// Error stops the spinner and shows an error message.
func (s *Spinner) Error(message string) {
	s.Stop()
	tinted(color.New(color.FgRed, color.Bold), s.noColor).Fprintf(s.writer, "❌ %s\n", message)
}

// UpdateMessage changes the spinner's status line without restarting the
// animation. `run` calls this once per tool-calling round so the operator
// sees "running prog.orj (tool round 2/10)" rather than a message frozen
// at whatever it said when the provider round-trip began.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

func (s *Spinner) animate() {
	frameIndex := 0
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	cyan := tinted(color.New(color.FgCyan), s.noColor)

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			frame := s.frames[frameIndex]
			s.mu.RLock()
			msg := s.message
			s.mu.RUnlock()
			cyan.Fprintf(s.writer, "\r%s %s", frame, msg)
			frameIndex = (frameIndex + 1) % len(s.frames)
		}
	}
}

// ProgressBar renders a determinate progress indicator for work with a
// known total — e.g. checking every .orj file under a directory.
type ProgressBar struct {
	writer  io.Writer
	total   int
	current int
	width   int
	message string
	noColor bool
}

// ProgressBarOptions configures progress bar behavior.
type ProgressBarOptions struct {
	Total   int
	Width   int // default: 40
	Message string
	NoColor bool
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(w io.Writer, opts ProgressBarOptions) *ProgressBar {
	width := opts.Width
	if width == 0 {
		width = 40
	}

	return &ProgressBar{
		writer:  w,
		total:   opts.Total,
		current: 0,
		width:   width,
		message: opts.Message,
		noColor: opts.NoColor,
	}
}

// Add increments the progress by the given amount.
func (p *ProgressBar) Add(n int) {
	p.Set(p.current + n)
}

// Set sets the current progress to the given value, clamped to total.
func (p *ProgressBar) Set(n int) {
	p.current = n
	if p.current > p.total {
		p.current = p.total
	}
	p.render()
}

// Finish completes the progress bar.
func (p *ProgressBar) Finish() {
	p.current = p.total
	p.render()
	fmt.Fprintln(p.writer)
}

// FinishWithMessage completes the progress bar with a success message.
func (p *ProgressBar) FinishWithMessage(message string) {
	p.Finish()
	tinted(color.New(color.FgGreen, color.Bold), p.noColor).Fprintf(p.writer, "✓ %s\n", message)
}

func (p *ProgressBar) render() {
	if p.total == 0 {
		return
	}

	percent := float64(p.current) / float64(p.total)
	filledWidth := int(float64(p.width) * percent)
	emptyWidth := p.width - filledWidth

	cyan := tinted(color.New(color.FgCyan), p.noColor)
	gray := tinted(color.New(color.FgHiBlack), p.noColor)

	var bar strings.Builder
	bar.WriteString("[")
	cyan.Fprint(&bar, strings.Repeat("█", filledWidth))
	gray.Fprint(&bar, strings.Repeat("░", emptyWidth))
	bar.WriteString("]")

	percentStr := fmt.Sprintf("%3d%%", int(percent*100))

	message := ""
	if p.message != "" {
		message = " " + p.message
	}

	fmt.Fprintf(p.writer, "\r%s %s%s", bar.String(), percentStr, message)
}

// WithSpinner runs fn behind a spinner, reporting success or failure with
// the same message once fn returns.
func WithSpinner(w io.Writer, message string, noColor bool, fn func() error) error {
	spinner := NewSpinner(w, SpinnerOptions{
		Message: message,
		NoColor: noColor,
	})
	spinner.Start()
	defer spinner.Stop()

	if err := fn(); err != nil {
		spinner.Error(fmt.Sprintf("%s failed", message))
		return err
	}

	spinner.Success(message)
	return nil
}

// WithProgress runs fn behind a progress bar counting up to total, e.g.
// one tick per file while checking a directory of programs.
func WithProgress(w io.Writer, message string, total int, noColor bool, fn func(*ProgressBar) error) error {
	bar := NewProgressBar(w, ProgressBarOptions{
		Total:   total,
		Message: message,
		NoColor: noColor,
	})

	if err := fn(bar); err != nil {
		fmt.Fprintln(w)
		return err
	}

	bar.FinishWithMessage(message)
	return nil
}
