package scan

import (
	"regexp"
	"strconv"
	"strings"

	"pbform/internal/form"
	"pbform/internal/source"
)

var (
	enumBeginRe  = regexp.MustCompile(`^[ \t]*Enumeration[ \t]+([A-Za-z_][A-Za-z0-9_]*)[ \t]*\r?$`)
	enumEndRe    = regexp.MustCompile(`^[ \t]*EndEnumeration\b`)
	enumSymbolRe = regexp.MustCompile(`^[ \t]*(#[A-Za-z_][A-Za-z0-9_]*)[ \t]*(?:=[ \t]*([^;]*))?`)
)

// ScanEnumerations collects every `Enumeration <Name> ... EndEnumeration`
// block in the window. Body lines of the form `#Symbol[ = value]` become
// symbols; a `;` comment on a body line is ignored. Values that do not parse
// as integers keep their raw text with HasValue false.
func ScanEnumerations(content []byte, window source.Span) []form.Enumeration {
	start, end := windowBounds(content, window)

	enums := make([]form.Enumeration, 0, 4)
	var current *form.Enumeration
	var blockStart int
	var next int

	line := countLines(content[:start])
	i := start
	for i <= end {
		lineEnd := i
		for lineEnd < end && content[lineEnd] != '\n' {
			lineEnd++
		}
		text := string(content[i:lineEnd])

		switch {
		case current == nil:
			if m := enumBeginRe.FindStringSubmatch(text); m != nil {
				blockStart = i
				next = 0
				current = &form.Enumeration{
					Name:    m[1],
					Symbols: make([]form.EnumSymbol, 0, 8),
					Range: form.SourceRange{
						Line:      line,
						LineStart: toU32(i),
					},
				}
			}
		case enumEndRe.MatchString(text):
			current.Range.Span = source.Span{Start: toU32(blockStart), End: toU32(lineEnd)}
			enums = append(enums, *current)
			current = nil
		default:
			if m := enumSymbolRe.FindStringSubmatch(text); m != nil && m[1] != "" {
				sym := form.EnumSymbol{
					Name: m[1],
					Line: line,
				}
				// enumeration members auto-increment from the previous value
				if raw := strings.TrimSpace(m[2]); raw != "" {
					sym.ValueRaw = raw
					if v, err := strconv.Atoi(raw); err == nil {
						sym.HasValue = true
						sym.Value = v
						next = v + 1
					} else {
						next++
					}
				} else {
					sym.HasValue = true
					sym.Value = next
					next++
				}
				current.Symbols = append(current.Symbols, sym)
			}
		}

		if lineEnd >= end {
			break
		}
		i = lineEnd + 1
		line++
	}
	return enums
}
