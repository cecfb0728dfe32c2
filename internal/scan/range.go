package scan

import (
	"regexp"

	"pbform/internal/source"
)

var (
	// headerRe matches the designer's generator comment, e.g.
	// `; Form Designer for PureBasic - 6.02`.
	headerRe = regexp.MustCompile(`(?m)^[ \t]*;[ \t]*Form Designer for PureBasic[ \t]*-[ \t]*([0-9]+(?:\.[0-9]+)*)`)

	// warningRe matches the generated-code warning comment emitted right
	// below the header.
	warningRe = regexp.MustCompile(`(?mi)^[ \t]*;.*manual modifications`)

	// terminatorRe matches the IDE options block the IDE appends on save;
	// nothing after it belongs to the form.
	terminatorRe = regexp.MustCompile(`(?m)^[ \t]*; IDE Options[ \t]*=`)
)

// HeaderInfo is what DetectScanRange learned about the file's markers.
type HeaderInfo struct {
	Version    string // dotted generator version, "" when the header is absent
	HasHeader  bool
	HasWarning bool
}

// DetectScanRange computes the byte window that is actually scanned: from
// the header comment (or 0) to the IDE options marker (or end of text).
func DetectScanRange(content []byte) (source.Span, HeaderInfo) {
	info := HeaderInfo{}
	start := 0
	end := len(content)

	if m := headerRe.FindSubmatchIndex(content); m != nil {
		info.HasHeader = true
		info.Version = string(content[m[2]:m[3]])
		start = lineStartAt(content, m[0])
	}
	if m := terminatorRe.FindIndex(content[start:]); m != nil {
		end = start + lineStartAt(content[start:], m[0])
	}
	if warningRe.Match(content[start:end]) {
		info.HasWarning = true
	}

	return source.Span{Start: toU32(start), End: toU32(end)}, info
}

// lineStartAt returns the offset of the first character of the line
// containing off.
func lineStartAt(content []byte, off int) int {
	for off > 0 && content[off-1] != '\n' {
		off--
	}
	return off
}
