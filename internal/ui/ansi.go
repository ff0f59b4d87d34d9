package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
)

// Output sinks for all helpers. Tests swap these to capture command output.
var (
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

// SetWriters redirects ui output. A nil argument keeps the current writer.
func SetWriters(stdout, stderr io.Writer) {
	if stdout != nil {
		out = stdout
	}
	if stderr != nil {
		errOut = stderr
	}
}

// Out exposes the standard output sink for raw prints.
func Out() io.Writer { return out }

// ErrOut exposes the error sink, for callers that format their own lines.
func ErrOut() io.Writer { return errOut }

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func C(color, s string) string {
	if disableColor {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

// Dim renders s faint; used for id columns and secondary detail.
func Dim(s string) string { return C(dim, s) }

func OK(msg string)   { fmt.Fprintln(out, C(fgGreen, symCheck+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(errOut, C(fgRed, symCross+" "+msg)) }

// Print writes msg to the standard output sink unstyled.
func Print(msg string) { fmt.Fprintln(out, msg) }

// Hint prints a muted suggestion, usually after a Fail.
func Hint(msg string) { fmt.Fprintln(errOut, C(fgGray, msg)) }
