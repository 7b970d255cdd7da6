package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Success prints a green success message.
func Success(format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(os.Stderr, "✓ "+format+"\n", args...)
}

// Failure prints a red error message.
func Failure(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// Info prints a neutral status message.
func Info(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// DisableColor turns off colored output.
func DisableColor() {
	color.NoColor = true
}
