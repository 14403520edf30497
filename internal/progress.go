package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// ProgressStep represents a single step in a multi-step process
type ProgressStep struct {
	Message string
	Fn      func() error
}

// ShowProgress runs fn behind a spinner when stderr is a terminal, otherwise
// it logs the message and runs fn directly.
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !isTerminal(os.Stderr) {
		LogInfo(message)
		return fn()
	}
	return showSpinner(ctx, message, fn)
}

// ShowProgressWithSteps shows progress for multiple steps
func ShowProgressWithSteps(ctx context.Context, steps []ProgressStep) error {
	for i, step := range steps {
		msg := fmt.Sprintf("[%d/%d] %s", i+1, len(steps), step.Message)
		if err := ShowProgress(ctx, msg, step.Fn); err != nil {
			return fmt.Errorf("%s: %w", step.Message, err)
		}
	}
	return nil
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func showSpinner(ctx context.Context, message string, fn func() error) error {
	stop := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for frame := 0; ; frame++ {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fmt.Fprintf(os.Stderr, "\r%s %s", progressStyle.Render(spinnerFrames[frame%len(spinnerFrames)]), message)
			}
		}
	}()

	result := make(chan error, 1)
	go func() { result <- fn() }()

	var err error
	select {
	case err = <-result:
	case <-ctx.Done():
		err = ctx.Err()
	}
	close(stop)
	<-stopped

	glyph, style := "✓", successStyle
	if err != nil {
		glyph, style = "✗", errorStyle
	}
	fmt.Fprintf(os.Stderr, "\r%s %s\n", style.Render(glyph), message)
	return err
}

// isTerminal reports whether w is an *os.File attached to a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	return err == nil && stat.Mode()&os.ModeCharDevice != 0
}

// printStatus writes message to f, prefixed with a styled glyph on a terminal
// or with plain (which may be empty) otherwise.
func printStatus(f *os.File, glyph string, style lipgloss.Style, plain, message string) {
	if isTerminal(f) {
		fmt.Fprintf(f, "%s %s\n", style.Render(glyph), message)
		return
	}
	fmt.Fprintf(f, "%s%s\n", plain, message)
}

// PrintSuccess prints a success message to stdout
func PrintSuccess(message string) {
	printStatus(os.Stdout, "✓", successStyle, "", message)
}

// PrintError prints an error message to stderr
func PrintError(message string) {
	printStatus(os.Stderr, "✗", errorStyle, "ERROR: ", message)
}

// PrintInfo prints an informational message to stdout
func PrintInfo(message string) {
	printStatus(os.Stdout, "ℹ", progressStyle, "", message)
}

// PrintWarning prints a warning to stderr
func PrintWarning(message string) {
	printStatus(os.Stderr, "⚠", warningStyle, "WARNING: ", message)
}
