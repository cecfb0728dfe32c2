// Package scan recovers statement structure from form source text without a
// full grammar. It recognizes `[Var =] Name(args...)` calls inside a bounded
// window, the designer's header and trailing markers, enumeration blocks and
// procedure headers, and answers section-ownership queries over the call
// stream. Everything here is a pure function of the text it is given.
package scan

import (
	"fmt"
	"regexp"

	"fortio.org/safecast"

	"pbform/internal/form"
	"pbform/internal/source"
)

// Call is one recognized statement. Args is the raw, unsplit text between
// the parentheses; Indent is the leading whitespace of the statement's line.
// A Call is never mutated after scanning.
type Call struct {
	Name        string
	AssignedVar string
	Args        string
	Indent      string
	Range       form.SourceRange
}

// stmtHead anchors a statement at the start of a line: optional indentation,
// an optional `Ident =` assignment, the call name and the opening paren.
var stmtHead = regexp.MustCompile(`^([ \t]*)(?:([A-Za-z_][A-Za-z0-9_]*)[ \t]*=[ \t]*)?([A-Za-z_][A-Za-z0-9_]*)[ \t]*\(`)

// ScanCalls scans the window for statements in source order. A zero window
// means the whole content. Statements may span physical lines: the argument
// list continues until parens balance outside string literals. Comment text
// (after `;` outside a string) never contributes to balancing, and a string
// literal never continues past a line break.
func ScanCalls(content []byte, window source.Span) []Call {
	start, end := windowBounds(content, window)

	calls := make([]Call, 0, 32)
	line := countLines(content[:start])

	i := start
	for i < end {
		lineStart := i
		lineEnd := i
		for lineEnd < end && content[lineEnd] != '\n' {
			lineEnd++
		}

		m := stmtHead.FindSubmatchIndex(content[lineStart:lineEnd])
		if m == nil {
			i = lineEnd + 1
			line++
			continue
		}

		parenPos := lineStart + m[1] - 1 // the matched '(' is the last byte
		close, crossed, ok := balanceParens(content, parenPos+1, end)
		if !ok {
			// unbalanced argument list: not a statement we can work with
			i = lineEnd + 1
			line++
			continue
		}

		// span starts at the first meaningful token: the assignment target
		// when present, otherwise the call name
		tokStart := lineStart + m[6]
		assigned := ""
		if m[4] >= 0 {
			tokStart = lineStart + m[4]
			assigned = string(content[lineStart+m[4] : lineStart+m[5]])
		}

		calls = append(calls, Call{
			Name:        string(content[lineStart+m[6] : lineStart+m[7]]),
			AssignedVar: assigned,
			Args:        string(content[parenPos+1 : close]),
			Indent:      string(content[lineStart : lineStart+m[3]]),
			Range: form.SourceRange{
				Span:      source.Span{Start: toU32(tokStart), End: toU32(close + 1)},
				Line:      line,
				LineStart: toU32(lineStart),
			},
		})

		// resume after the statement; anything left on its last physical
		// line (trailing comments) cannot start another statement
		line += toU32(crossed)
		i = close + 1
		for i < end && content[i] != '\n' {
			i++
		}
		i++
		line++
	}
	return calls
}

// balanceParens walks from just after an opening paren until depth returns
// to zero. Returns the index of the closing paren, how many line breaks were
// crossed, and whether balance was reached inside [from, end).
func balanceParens(content []byte, from, end int) (close, crossed int, ok bool) {
	depth := 1
	inString := false
	for k := from; k < end; k++ {
		switch c := content[k]; {
		case c == '"':
			inString = !inString
		case inString:
			if c == '\n' {
				// literals do not span lines; recover at the break
				inString = false
				crossed++
			}
		case c == ';':
			for k < end && content[k] != '\n' {
				k++
			}
			if k < end {
				crossed++
			}
		case c == '\n':
			crossed++
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return k, crossed, true
			}
		}
	}
	return 0, crossed, false
}

func windowBounds(content []byte, window source.Span) (int, int) {
	if window.Empty() {
		return 0, len(content)
	}
	start := int(window.Start)
	end := int(window.End)
	if end > len(content) {
		end = len(content)
	}
	if start > end {
		start = end
	}
	return start, end
}

func countLines(content []byte) uint32 {
	var n uint32
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	return n
}

func toU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}
