// Package printer writes colored CLI output.
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Success writes a message in green with a checkmark prefix
func Success(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ "+format, a...)
}

// Warning writes a message in yellow
func Warning(w io.Writer, format string, a ...any) {
	yellow.Fprintf(w, "! "+format, a...)
}

// Header writes a section header in cyan
func Header(w io.Writer, format string, a ...any) {
	cyan.Fprintf(w, format, a...)
}

// Info writes a message in the default color
func Info(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, format, a...)
}

// Error prints title and explanation to stderr and returns an error for cobra
func Error(title string, err error) error {
	red.Fprintf(os.Stderr, "%s\n", title)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %v\n", err)
	}
	return fmt.Errorf("%s: %w", title, err)
}
