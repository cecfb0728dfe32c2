package patch

import (
	"fmt"
	"strings"

	"pbform/internal/args"
	"pbform/internal/form"
	"pbform/internal/scan"
)

// MoveGadget rewrites the x/y arguments of a gadget's creation statement.
// All other argument tokens, the assignment and anything after the closing
// paren keep their exact bytes.
func MoveGadget(content []byte, id string, x, y float64) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, _, ok := findGadget(calls, id)
	if !ok {
		return nil, fmt.Errorf("gadget %q: %w", id, ErrNoEdit)
	}
	return []TextEdit{replaceArgs(c, map[int]string{
		1: truncInt(x),
		2: truncInt(y),
	})}, nil
}

// ResizeGadget rewrites all four geometry arguments of a gadget.
func ResizeGadget(content []byte, id string, x, y, w, h float64) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, _, ok := findGadget(calls, id)
	if !ok {
		return nil, fmt.Errorf("gadget %q: %w", id, ErrNoEdit)
	}
	return []TextEdit{replaceArgs(c, map[int]string{
		1: truncInt(x),
		2: truncInt(y),
		3: truncInt(w),
		4: truncInt(h),
	})}, nil
}

// SetGadgetText rewrites the text argument of a gadget whose kind has one.
func SetGadgetText(content []byte, id, text string) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, _, ok := findGadget(calls, id)
	if !ok {
		return nil, fmt.Errorf("gadget %q: %w", id, ErrNoEdit)
	}
	_, gadgetKind := form.LookupStmt(c.Name)
	textArg := gadgetKind.TextArg()
	if textArg < 0 {
		return nil, fmt.Errorf("gadget %q (%s) has no text argument: %w", id, c.Name, ErrNoEdit)
	}
	return []TextEdit{replaceArgs(c, map[int]string{
		textArg: Quote(text),
	})}, nil
}

// MoveWindow rewrites the window's x/y. When a geometry field names a
// defaulted parameter of the enclosing procedure, the default in the
// procedure header is rewritten instead of the call site, matching how the
// designer keeps generated open-procedures parameterized.
func MoveWindow(content []byte, id string, x, y float64) ([]TextEdit, error) {
	return windowGeometry(content, id, map[int]float64{1: x, 2: y})
}

// ResizeWindow rewrites all four window geometry fields.
func ResizeWindow(content []byte, id string, x, y, w, h float64) ([]TextEdit, error) {
	return windowGeometry(content, id, map[int]float64{1: x, 2: y, 3: w, 4: h})
}

func windowGeometry(content []byte, id string, geom map[int]float64) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, _, ok := findWindow(calls, id)
	if !ok {
		return nil, fmt.Errorf("window %q: %w", id, ErrNoEdit)
	}

	proc, hasProc := scan.EnclosingProcedure(content, int(c.Range.Span.Start))
	fields := args.SplitParams(c.Args)

	edits := make([]TextEdit, 0, len(geom)+1)
	inline := make(map[int]string, len(geom))
	for pos := 1; pos <= 4; pos++ {
		v, wanted := geom[pos]
		if !wanted {
			continue
		}
		raw := strings.TrimSpace(fieldAt(fields, pos))
		if _, numeric := args.AsNumber(raw); !numeric && hasProc {
			if edit, ok := procDefaultEdit(content, proc, raw, truncInt(v)); ok {
				edits = append(edits, edit)
				continue
			}
		}
		inline[pos] = truncInt(v)
	}
	if len(inline) > 0 {
		edits = append(edits, replaceArgs(c, inline))
	}
	if len(edits) == 0 {
		return nil, fmt.Errorf("window %q: %w", id, ErrNoEdit)
	}
	return edits, nil
}

// SetItem rewrites the text (and optionally trailing aux fields) of the
// AddGadgetItem statement at the given line. The line is re-verified against
// the statement kind and the owning gadget before anything is touched.
func SetItem(content []byte, gadgetID string, line uint32, text string, aux []string) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, _, ok := callAtLine(calls, line, "AddGadgetItem")
	if !ok || scan.CallIdentity(c) != gadgetID {
		return nil, fmt.Errorf("item of %q at line %d: %w", gadgetID, line+1, ErrNoEdit)
	}
	repl := map[int]string{2: Quote(text)}
	for i, a := range aux {
		repl[3+i] = a
	}
	return []TextEdit{replaceArgs(c, repl)}, nil
}

// SetColumn rewrites the title and width of the AddGadgetColumn statement
// at the given line.
func SetColumn(content []byte, gadgetID string, line uint32, title string, width float64) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, _, ok := callAtLine(calls, line, "AddGadgetColumn")
	if !ok || scan.CallIdentity(c) != gadgetID {
		return nil, fmt.Errorf("column of %q at line %d: %w", gadgetID, line+1, ErrNoEdit)
	}
	return []TextEdit{replaceArgs(c, map[int]string{
		2: Quote(title),
		3: truncInt(width),
	})}, nil
}

// SetMenuEntryText rewrites the display text of the menu entry statement at
// the given line, after checking that the line still holds a statement of
// the expected kind inside the section owned by menuID.
func SetMenuEntryText(content []byte, menuID string, line uint32, kind form.MenuEntryKind, text string) ([]TextEdit, error) {
	name := kind.String()
	calls := scanCurrent(content)
	c, idx, ok := callAtLine(calls, line, name)
	if !ok || !scan.InSection(calls, idx, scan.SectionMenu, menuID) {
		return nil, fmt.Errorf("menu entry of %q at line %d: %w", menuID, line+1, ErrNoEdit)
	}

	textArg := 0
	if kind == form.MenuEntryItem {
		textArg = 1
	}
	return []TextEdit{replaceArgs(c, map[int]string{
		textArg: Quote(text),
	})}, nil
}

// SetToolBarButton rewrites the image (and optional text) arguments of the
// ToolBarImageButton at the given line.
func SetToolBarButton(content []byte, barID string, line uint32, imageExpr, text string) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, idx, ok := callAtLine(calls, line, "ToolBarImageButton")
	if !ok || !scan.InSection(calls, idx, scan.SectionToolBar, barID) {
		return nil, fmt.Errorf("toolbar entry of %q at line %d: %w", barID, line+1, ErrNoEdit)
	}
	repl := map[int]string{1: imageExpr}
	if text != "" {
		repl[3] = Quote(text)
	}
	return []TextEdit{replaceArgs(c, repl)}, nil
}

// SetStatusBarFieldWidth rewrites the width of the AddStatusBarField at the
// given line.
func SetStatusBarFieldWidth(content []byte, barID string, line uint32, width float64) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, idx, ok := callAtLine(calls, line, "AddStatusBarField")
	if !ok || !scan.InSection(calls, idx, scan.SectionStatusBar, barID) {
		return nil, fmt.Errorf("status field of %q at line %d: %w", barID, line+1, ErrNoEdit)
	}
	return []TextEdit{replaceArgs(c, map[int]string{
		0: truncInt(width),
	})}, nil
}

// procDefaultEdit rewrites the default value of the named parameter inside
// a procedure header line.
func procDefaultEdit(content []byte, proc scan.ProcDecl, name, newVal string) (TextEdit, bool) {
	lineStart := int(proc.LineStart)
	lineEnd := lineStart
	for lineEnd < len(content) && content[lineEnd] != '\n' {
		lineEnd++
	}
	line := string(content[lineStart:lineEnd])

	open := strings.IndexByte(line, '(')
	close := strings.LastIndexByte(line, ')')
	if open < 0 || close < open {
		return TextEdit{}, false
	}

	off := open + 1
	for _, field := range args.SplitParams(line[open+1 : close]) {
		pname, def, hasDefault := strings.Cut(field, "=")
		if hasDefault {
			bare := strings.TrimSpace(pname)
			if dot := strings.IndexByte(bare, '.'); dot >= 0 {
				bare = bare[:dot]
			}
			if strings.EqualFold(bare, strings.TrimSpace(name)) {
				defStart := off + len(pname) + 1 + len(leadingWS(def))
				defEnd := off + len(field) - len(trailingWS(field))
				return TextEdit{
					Span:    spanAt(lineStart+defStart, lineStart+defEnd),
					NewText: newVal,
					OldText: strings.TrimSpace(def),
				}, true
			}
		}
		off += len(field) + 1
	}
	return TextEdit{}, false
}

func trailingWS(field string) string {
	for i := len(field); i > 0; i-- {
		if field[i-1] != ' ' && field[i-1] != '\t' {
			return field[i:]
		}
	}
	return field
}

func fieldAt(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

// Quote renders text as a form string literal, doubling embedded quotes.
func Quote(text string) string {
	return `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
}
