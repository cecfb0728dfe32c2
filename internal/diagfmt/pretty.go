package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"pbform/internal/diag"
	"pbform/internal/source"
)

// Pretty renders diagnostics in a human-readable form. It walks bag.Items()
// in order (call bag.Sort() first for deterministic output) and prints, per
// diagnostic:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a caret run under the primary span and
// any notes in the same layout.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sevText := strings.ToUpper(d.Severity.String())
	codeText := d.Code.ID()
	if opts.Color {
		sevText = severityColor(d.Severity).Sprint(sevText)
		codeText = color.New(color.Bold).Sprint(codeText)
	}

	loc, start := formatLocation(d.Primary, fs, opts.PathMode)
	fmt.Fprintf(w, "%s: %s %s: %s\n", loc, sevText, codeText, d.Message)

	if fs != nil && !d.Primary.Empty() {
		printContext(w, d.Primary, start, fs, opts)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			noteLoc, noteStart := formatLocation(n.Span, fs, opts.PathMode)
			fmt.Fprintf(w, "%s: note: %s\n", noteLoc, n.Msg)
			if fs != nil && !n.Span.Empty() {
				printContext(w, n.Span, noteStart, fs, opts)
			}
		}
	}
}

// formatLocation renders "path:line:col" and returns the resolved start
// position for context printing.
func formatLocation(span source.Span, fs *source.FileSet, mode PathMode) (string, source.LineCol) {
	if fs == nil {
		return fmt.Sprintf("<input>:+%d", span.Start), source.LineCol{}
	}
	f := fs.Get(span.File)
	start, _ := fs.Resolve(span)

	var path string
	switch mode {
	case PathModeAbsolute:
		path = f.FormatPath("absolute", "")
	case PathModeRelative:
		path = f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		path = f.FormatPath("basename", "")
	default:
		path = f.FormatPath("auto", "")
	}
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col), start
}

// printContext shows the primary line with a caret underline, plus up to
// opts.Context surrounding lines.
func printContext(w io.Writer, span source.Span, start source.LineCol, fs *source.FileSet, opts PrettyOpts) {
	f := fs.Get(span.File)
	lineText := f.GetLine(start.Line)
	if lineText == "" && start.Line == 0 {
		return
	}

	before := int(opts.Context)
	if before < 0 {
		before = 0
	}
	for n := start.Line - uint32(min(before, int(start.Line)-1)); n < start.Line; n++ {
		fmt.Fprintf(w, "  %4d | %s\n", n, f.GetLine(n))
	}

	fmt.Fprintf(w, "  %4d | %s\n", start.Line, lineText)

	caretCol := int(start.Col)
	if caretCol < 1 {
		caretCol = 1
	}
	width := int(span.Len())
	maxWidth := len(lineText) - caretCol + 1
	if width > maxWidth {
		width = maxWidth
	}
	if width < 1 {
		width = 1
	}
	marker := strings.Repeat(" ", caretCol-1) + "^" + strings.Repeat("~", width-1)
	if opts.Color {
		marker = color.New(color.FgRed, color.Bold).Sprint(marker)
	}
	fmt.Fprintf(w, "       | %s\n", marker)

	for n := start.Line + 1; n <= start.Line+uint32(before); n++ {
		text := f.GetLine(n)
		if text == "" {
			break
		}
		fmt.Fprintf(w, "  %4d | %s\n", n, text)
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}
