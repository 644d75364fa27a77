package errors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// ErrorReporter renders compiler errors against the source they point into,
// rustc style: header, location, a few lines of context and a caret marker.
type ErrorReporter struct {
	filename string
	lines    []string
	context  int
}

// NewErrorReporter creates a reporter for one source file.
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
		context:  1,
	}
}

// FormatError renders err. Errors without a location only name the file.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var b strings.Builder
	dim := color.New(color.Faint).SprintFunc()
	gutter := strings.Repeat(" ", gutterWidth(err.Position.Line))

	label := levelColor(err.Level)(string(err.Level))
	if err.Code != "" {
		fmt.Fprintf(&b, "%s[%s]: %s\n", label, err.Code, err.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s\n", label, err.Message)
	}

	if !err.Position.IsValid() {
		fmt.Fprintf(&b, "%s %s %s\n", gutter, dim("-->"), er.filename)
	} else {
		filename := er.filename
		if err.Position.Filename != "" {
			filename = err.Position.Filename
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d\n", gutter, dim("-->"), filename, err.Position.Line, err.Position.Column)
		fmt.Fprintf(&b, "%s %s\n", gutter, dim("│"))
		er.writeSnippet(&b, err, gutter)
	}

	writeTrailer(&b, err, gutter)
	return b.String()
}

// Format renders any error; foreign errors get a plain header against the
// reporter's file.
func (er *ErrorReporter) Format(err error) string {
	if ce, ok := AsCompilerError(err); ok {
		return er.FormatError(ce)
	}
	return er.FormatError(CompilerError{Level: Error, Message: err.Error()})
}

// writeSnippet prints the offending line with its neighbours and marks the
// error span under it.
func (er *ErrorReporter) writeSnippet(b *strings.Builder, err CompilerError, gutter string) {
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	line := err.Position.Line
	first := max(1, line-er.context)
	last := min(len(er.lines), line+er.context)
	for n := first; n <= last; n++ {
		number := fmt.Sprintf("%*d", len(gutter), n)
		if n != line {
			fmt.Fprintf(b, "%s %s %s\n", dim(number), dim("│"), er.lines[n-1])
			continue
		}
		fmt.Fprintf(b, "%s %s %s\n", bold(number), dim("│"), er.lines[n-1])
		fmt.Fprintf(b, "%s %s %s\n", gutter, dim("│"), er.createMarker(err.Position.Column, err.Length, err.Level))
	}
}

func writeTrailer(b *strings.Builder, err CompilerError, gutter string) {
	help := color.New(color.FgCyan).SprintFunc()
	note := color.New(color.FgBlue).SprintFunc()

	for _, s := range err.Suggestions {
		fmt.Fprintf(b, "%s = %s %s\n", gutter, help("help:"), s.Message)
	}
	for _, n := range err.Notes {
		fmt.Fprintf(b, "%s = %s %s\n", gutter, note("note:"), n)
	}
	if err.HelpText != "" {
		fmt.Fprintf(b, "%s = %s %s\n", gutter, help("help:"), err.HelpText)
	}
	b.WriteString("\n")
}

// createMarker underlines length columns starting at column.
func (er *ErrorReporter) createMarker(column, length int, level ErrorLevel) string {
	return strings.Repeat(" ", max(0, column-1)) + levelColor(level)(strings.Repeat("^", max(1, length)))
}

func levelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// gutterWidth is the width of the line number column, at least three.
func gutterWidth(line int) int {
	return max(3, len(strconv.Itoa(line)))
}
