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

	fgGray    = "\033[90m"
	fgGreen   = "\033[32m"
	fgYellow  = "\033[33m"
	fgBlue    = "\033[34m"
	fgRed     = "\033[31m"
	fgMagenta = "\033[35m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
)

// SetColorForcing overrides TTY detection. disable wins over force.
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

// C wraps s in color when the output is a terminal.
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, C(Current().Success, symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, C(Current().Error, symCross+" "+msg)) }
