package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	okStyle    = color.New(color.FgGreen)
	failStyle  = color.New(color.FgRed)
	labelStyle = color.New(color.FgYellow)
)

func boolSymbol(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}

func printField(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "%s %v\n", labelStyle.Sprintf("%-14s", label+":"), value)
}

func printVerdict(w io.Writer, ok bool, msg string) {
	style := okStyle
	if !ok {
		style = failStyle
	}
	_, _ = style.Fprintln(w, boolSymbol(ok), msg)
}
