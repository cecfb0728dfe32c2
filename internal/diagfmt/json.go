package diagfmt

import (
	"encoding/json"
	"io"

	"pbform/internal/diag"
	"pbform/internal/source"
)

// LocationJSON is a span rendered for JSON output.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is a secondary annotation.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON is one diagnostic in JSON form.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root structure of JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	loc := LocationJSON{
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if fs == nil {
		loc.File = "<input>"
		return loc
	}

	f := fs.Get(span.File)
	switch pathMode {
	case PathModeAbsolute:
		loc.File = f.FormatPath("absolute", "")
	case PathModeRelative:
		loc.File = f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		loc.File = f.FormatPath("basename", "")
	default:
		loc.File = f.FormatPath("auto", "")
	}

	if includePositions {
		start, end := fs.Resolve(span)
		loc.StartLine = start.Line
		loc.StartCol = start.Col
		loc.EndLine = end.Line
		loc.EndCol = end.Col
	}
	return loc
}

// JSON writes the bag as a single JSON document. Output is truncated to
// opts.Max entries when positive; the count field still reports the full
// total.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	items := bag.Items()
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, len(items)),
		Count:       len(items),
	}

	for i, d := range items {
		if opts.Max > 0 && i >= opts.Max {
			break
		}
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{
					Message:  n.Msg,
					Location: makeLocation(n.Span, fs, opts.PathMode, opts.IncludePositions),
				})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
