package patch

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"pbform/internal/args"
	"pbform/internal/form"
	"pbform/internal/scan"
	"pbform/internal/source"
)

// scanCurrent re-derives the call stream from the snapshot. Every public
// operation starts here; the engine holds no cross-parse state.
func scanCurrent(content []byte) []scan.Call {
	window, _ := scan.DetectScanRange(content)
	return scan.ScanCalls(content, window)
}

// findCall returns the first call matching the predicate.
func findCall(calls []scan.Call, match func(scan.Call) bool) (scan.Call, int, bool) {
	for i, c := range calls {
		if match(c) {
			return c, i, true
		}
	}
	return scan.Call{}, -1, false
}

// findGadget locates the creation statement of the gadget with the given
// stable key.
func findGadget(calls []scan.Call, id string) (scan.Call, int, bool) {
	return findCall(calls, func(c scan.Call) bool {
		kind, _ := form.LookupStmt(c.Name)
		return kind == form.StmtGadget && scan.CallIdentity(c) == id
	})
}

// findWindow locates the OpenWindow statement, verifying its identity when
// id is non-empty.
func findWindow(calls []scan.Call, id string) (scan.Call, int, bool) {
	return findCall(calls, func(c scan.Call) bool {
		if c.Name != "OpenWindow" {
			return false
		}
		return id == "" || scan.CallIdentity(c) == id
	})
}

// callAtLine re-verifies that the statement at a caller-supplied line still
// has the expected name. Lines go stale after unrelated edits; a mismatch is
// a "no edit", not a misfire on an innocent statement.
func callAtLine(calls []scan.Call, line uint32, name string) (scan.Call, int, bool) {
	for i, c := range calls {
		if c.Range.Line == line && c.Name == name {
			return c, i, true
		}
	}
	return scan.Call{}, -1, false
}

// argsSpan is the byte range of the raw argument list between the parens.
func argsSpan(c scan.Call) source.Span {
	end := c.Range.Span.End - 1
	lenArgs, err := safecast.Conv[uint32](len(c.Args))
	if err != nil {
		panic(fmt.Errorf("args length overflow: %w", err))
	}
	return source.Span{File: c.Range.Span.File, Start: end - lenArgs, End: end}
}

// replaceArgs rebuilds the argument list with the given positional fields
// replaced. Untouched fields keep their bytes verbatim; replaced fields keep
// their leading whitespace. Positions beyond the current field count are
// padded with zeros so a text or flags field can be introduced.
func replaceArgs(c scan.Call, repl map[int]string) TextEdit {
	fields := args.SplitParams(c.Args)
	maxIdx := len(fields) - 1
	for i := range repl {
		if i > maxIdx {
			maxIdx = i
		}
	}

	out := make([]string, 0, maxIdx+1)
	for i := 0; i <= maxIdx; i++ {
		switch {
		case i < len(fields):
			if v, ok := repl[i]; ok {
				out = append(out, leadingWS(fields[i])+v)
			} else {
				out = append(out, fields[i])
			}
		default:
			if v, ok := repl[i]; ok {
				out = append(out, " "+v)
			} else {
				out = append(out, " 0")
			}
		}
	}

	return TextEdit{
		Span:    argsSpan(c),
		NewText: strings.Join(out, ","),
		OldText: c.Args,
	}
}

func spanAt(start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return source.Span{Start: s, End: e}
}

func leadingWS(field string) string {
	for i := 0; i < len(field); i++ {
		if field[i] != ' ' && field[i] != '\t' {
			return field[:i]
		}
	}
	return field
}

// lineSpanOf covers the statement's physical lines, from the first line's
// start through the newline after the closing paren's line. Deleting it
// removes the whole statement including any trailing comment.
func lineSpanOf(content []byte, c scan.Call) source.Span {
	end := int(c.Range.Span.End)
	for end < len(content) && content[end] != '\n' {
		end++
	}
	if end < len(content) {
		end++ // include the newline
	}
	endU, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return source.Span{File: c.Range.Span.File, Start: c.Range.LineStart, End: endU}
}

// insertAfter builds a zero-length edit that places a new statement line
// directly below the given call, reusing its indentation.
func insertAfter(content []byte, c scan.Call, stmt string) TextEdit {
	sp := lineSpanOf(content, c)
	text := c.Indent + stmt + "\n"
	if int(sp.End) == len(content) && (len(content) == 0 || content[len(content)-1] != '\n') {
		text = "\n" + c.Indent + stmt
	}
	return TextEdit{
		Span:    source.Span{File: sp.File, Start: sp.End, End: sp.End},
		NewText: text,
	}
}

// truncInt formats a geometry value truncated toward zero, per the numeric
// patch contract.
func truncInt(v float64) string {
	return fmt.Sprintf("%d", int(v))
}
