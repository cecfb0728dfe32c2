package patch

import (
	"fmt"
	"regexp"
	"strings"

	"pbform/internal/form"
	"pbform/internal/scan"
	"pbform/internal/source"
)

// Identity changes are compound: the window statement, the supporting Global
// declaration, the enumeration entry and same-procedure references each get
// their own edit, and each sub-edit degrades to a no-op when its anchor is
// absent instead of failing the whole operation.

var (
	assignPrefixRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)[ \t]*=[ \t]*`)
	procEndLineRe  = regexp.MustCompile(`(?m)^[ \t]*EndProcedure\b`)
)

// SetWindowNamed switches the window to a named constant: the first argument
// becomes the constant, an assignment target is dropped, the old variable's
// Global declaration is removed and the constant is added to the FormWindow
// enumeration when missing.
func SetWindowNamed(content []byte, constant string) ([]TextEdit, error) {
	if !strings.HasPrefix(constant, "#") {
		constant = "#" + constant
	}
	calls := scanCurrent(content)
	c, _, ok := findWindow(calls, "")
	if !ok {
		return nil, fmt.Errorf("window: %w", ErrNoEdit)
	}

	oldID := scan.CallIdentity(c)
	if oldID == constant {
		return nil, ErrNoEdit
	}

	edits := []TextEdit{replaceArgs(c, map[int]string{0: constant})}

	if c.AssignedVar != "" {
		if e, ok := dropAssignment(content, c); ok {
			edits = append(edits, e)
		}
		if e, ok := removeGlobalDecl(content, c.AssignedVar); ok {
			edits = append(edits, e)
		}
	}

	if strings.HasPrefix(oldID, "#") {
		// named-to-named: rename the existing enumeration entry
		if e, ok := renameEnumSymbol(content, oldID, constant); ok {
			edits = append(edits, e)
		}
	} else if e, ok := ensureEnumSymbol(content, constant); ok {
		edits = append(edits, e)
	}

	edits = append(edits, replaceReferences(content, c, oldID, constant, edits)...)
	return edits, nil
}

// SetWindowAnonymous switches the window to an anonymous instance: the first
// argument becomes #PB_Any, the result is captured in variable, and a Global
// declaration is inserted above the enclosing procedure. The enumeration
// entry of a former constant stays; other generated code may still use it.
func SetWindowAnonymous(content []byte, variable string) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, _, ok := findWindow(calls, "")
	if !ok {
		return nil, fmt.Errorf("window: %w", ErrNoEdit)
	}

	oldID := scan.CallIdentity(c)
	if c.AssignedVar == variable && oldID == variable {
		return nil, ErrNoEdit
	}

	edits := []TextEdit{replaceArgs(c, map[int]string{0: form.AnyToken})}

	switch {
	case c.AssignedVar == "":
		edits = append(edits, TextEdit{
			Span:    source.Span{File: c.Range.Span.File, Start: c.Range.Span.Start, End: c.Range.Span.Start},
			NewText: variable + " = ",
		})
	case c.AssignedVar != variable:
		if e, ok := renameAssignment(content, c, variable); ok {
			edits = append(edits, e)
		}
	}

	if _, ok := findGlobalDecl(content, variable); !ok {
		edits = append(edits, insertGlobalDecl(content, c, variable))
	}

	edits = append(edits, replaceReferences(content, c, oldID, variable, edits)...)
	return edits, nil
}

// RenameWindow changes the window's identity token in place, keeping its
// addressing mode. With renameProcs set, a procedure named Open<old> (and
// its call sites) is renamed to Open<new>.
func RenameWindow(content []byte, newName string, renameProcs bool) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, _, ok := findWindow(calls, "")
	if !ok {
		return nil, fmt.Errorf("window: %w", ErrNoEdit)
	}

	oldID := scan.CallIdentity(c)
	if oldID == "" {
		return nil, fmt.Errorf("window has no stable identity: %w", ErrNoEdit)
	}

	named := strings.HasPrefix(oldID, "#")
	newID := newName
	if named && !strings.HasPrefix(newID, "#") {
		newID = "#" + newID
	}
	if newID == oldID {
		return nil, ErrNoEdit
	}

	var edits []TextEdit
	if named {
		edits = append(edits, replaceArgs(c, map[int]string{0: newID}))
		if e, ok := renameEnumSymbol(content, oldID, newID); ok {
			edits = append(edits, e)
		}
	} else {
		if e, ok := renameAssignment(content, c, newID); ok {
			edits = append(edits, e)
		}
		if e, ok := renameGlobalDecl(content, oldID, newID); ok {
			edits = append(edits, e)
		}
	}
	edits = append(edits, replaceReferences(content, c, oldID, newID, edits)...)

	if renameProcs {
		oldBase := strings.TrimPrefix(oldID, "#")
		newBase := strings.TrimPrefix(newID, "#")
		edits = append(edits, renameToken(content, "Open"+oldBase, "Open"+newBase)...)
	}

	if len(edits) == 0 {
		return nil, ErrNoEdit
	}
	return edits, nil
}

// dropAssignment removes the `Var = ` prefix of the window statement.
func dropAssignment(content []byte, c scan.Call) (TextEdit, bool) {
	start := int(c.Range.Span.Start)
	m := assignPrefixRe.FindString(string(content[start:]))
	if m == "" {
		return TextEdit{}, false
	}
	return TextEdit{
		Span:    spanAt(start, start+len(m)),
		OldText: m,
	}, true
}

// renameAssignment rewrites the assignment target of the window statement.
func renameAssignment(content []byte, c scan.Call, newVar string) (TextEdit, bool) {
	start := int(c.Range.Span.Start)
	loc := assignPrefixRe.FindSubmatchIndex(content[start:])
	if loc == nil {
		return TextEdit{}, false
	}
	return TextEdit{
		Span:    spanAt(start+loc[2], start+loc[3]),
		NewText: newVar,
		OldText: string(content[start+loc[2] : start+loc[3]]),
	}, true
}

func globalDeclRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*Global[ \t]+(` + regexp.QuoteMeta(name) + `)(?:\.[A-Za-z0-9_]+)?[ \t]*(?:;.*)?$`)
}

func findGlobalDecl(content []byte, name string) ([]int, bool) {
	loc := globalDeclRe(name).FindSubmatchIndex(content)
	return loc, loc != nil
}

// removeGlobalDecl deletes the whole declaration line.
func removeGlobalDecl(content []byte, name string) (TextEdit, bool) {
	loc, ok := findGlobalDecl(content, name)
	if !ok {
		return TextEdit{}, false
	}
	end := loc[1]
	if end < len(content) && content[end] == '\n' {
		end++
	}
	return TextEdit{Span: spanAt(loc[0], end)}, true
}

// renameGlobalDecl rewrites only the variable name inside the declaration.
func renameGlobalDecl(content []byte, oldName, newName string) (TextEdit, bool) {
	loc, ok := findGlobalDecl(content, oldName)
	if !ok {
		return TextEdit{}, false
	}
	return TextEdit{
		Span:    spanAt(loc[2], loc[3]),
		NewText: newName,
		OldText: oldName,
	}, true
}

// insertGlobalDecl places `Global <var>` above the enclosing procedure of
// the window statement, or above the statement itself when it sits at top
// level.
func insertGlobalDecl(content []byte, c scan.Call, variable string) TextEdit {
	at := int(c.Range.LineStart)
	if proc, ok := scan.EnclosingProcedure(content, int(c.Range.Span.Start)); ok {
		at = int(proc.LineStart)
	}
	return TextEdit{
		Span:    spanAt(at, at),
		NewText: "Global " + variable + "\n",
	}
}

// formWindowEnum is the designer's enumeration block for window constants.
const formWindowEnum = "FormWindow"

// ensureEnumSymbol adds the constant to the FormWindow enumeration block
// when both the block exists and the constant is not yet listed.
func ensureEnumSymbol(content []byte, constant string) (TextEdit, bool) {
	for _, e := range scan.ScanEnumerations(content, source.Span{}) {
		if e.Name != formWindowEnum {
			continue
		}
		for _, s := range e.Symbols {
			if s.Name == constant {
				return TextEdit{}, false
			}
		}
		// insert before the EndEnumeration line
		at := int(e.Range.Span.End)
		for at > 0 && content[at-1] != '\n' {
			at--
		}
		return TextEdit{
			Span:    spanAt(at, at),
			NewText: "  " + constant + "\n",
		}, true
	}
	return TextEdit{}, false
}

// renameEnumSymbol rewrites an existing symbol of the FormWindow block.
func renameEnumSymbol(content []byte, oldName, newName string) (TextEdit, bool) {
	for _, e := range scan.ScanEnumerations(content, source.Span{}) {
		if e.Name != formWindowEnum {
			continue
		}
		for _, s := range e.Symbols {
			if s.Name != oldName {
				continue
			}
			lineStart := lineOffsetOf(content, s.Line)
			idx := strings.Index(string(content[lineStart:]), oldName)
			if idx < 0 {
				return TextEdit{}, false
			}
			return TextEdit{
				Span:    spanAt(lineStart+idx, lineStart+idx+len(oldName)),
				NewText: newName,
				OldText: oldName,
			}, true
		}
	}
	return TextEdit{}, false
}

// replaceReferences rewrites word-boundary occurrences of the old identity
// token inside the enclosing procedure block (or the scan window at top
// level), skipping string literals, comments, the window statement itself
// and any region another sub-edit already claims.
func replaceReferences(content []byte, c scan.Call, oldID, newID string, claimed []TextEdit) []TextEdit {
	if oldID == "" || oldID == newID {
		return nil
	}
	excludes := []source.Span{c.Range.Span}
	for _, e := range claimed {
		excludes = append(excludes, e.Span)
	}
	start, end := blockBounds(content, c)
	return renameTokenIn(content, start, end, oldID, newID, excludes)
}

// blockBounds is the byte range of the enclosing procedure, or the scan
// window when the statement is at top level.
func blockBounds(content []byte, c scan.Call) (int, int) {
	proc, ok := scan.EnclosingProcedure(content, int(c.Range.Span.Start))
	if !ok {
		window, _ := scan.DetectScanRange(content)
		if window.Empty() {
			return 0, len(content)
		}
		return int(window.Start), int(window.End)
	}
	start := int(proc.LineStart)
	rest := string(content[start:])
	if m := procEndLineRe.FindStringIndex(rest); m != nil {
		return start, start + m[1]
	}
	return start, len(content)
}

// renameToken rewrites every word-boundary occurrence in the whole content.
func renameToken(content []byte, oldTok, newTok string) []TextEdit {
	return renameTokenIn(content, 0, len(content), oldTok, newTok, nil)
}

func renameTokenIn(content []byte, start, end int, oldTok, newTok string, excludes []source.Span) []TextEdit {
	var edits []TextEdit
	inString := false
	inComment := false
	n := len(oldTok)
	for i := start; i+n <= end; i++ {
		ch := content[i]
		switch {
		case ch == '\n':
			inString = false
			inComment = false
			continue
		case inComment:
			continue
		case ch == '"':
			inString = !inString
			continue
		case inString:
			continue
		case ch == ';':
			inComment = true
			continue
		}
		if string(content[i:i+n]) != oldTok {
			continue
		}
		if i > 0 && isIdentByte(content[i-1]) {
			continue
		}
		if i+n < end && isIdentByte(content[i+n]) {
			continue
		}
		sp := spanAt(i, i+n)
		if insideAny(sp, excludes) {
			i += n - 1
			continue
		}
		edits = append(edits, TextEdit{Span: sp, NewText: newTok, OldText: oldTok})
		i += n - 1
	}
	return edits
}

// insideAny reports whether sp falls entirely inside one of the regions.
// Zero-length regions (pure inserts) claim nothing.
func insideAny(sp source.Span, regions []source.Span) bool {
	for _, r := range regions {
		if !r.Empty() && sp.Start >= r.Start && sp.End <= r.End {
			return true
		}
	}
	return false
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '#' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// lineOffsetOf is the byte offset of the start of a zero-based line.
func lineOffsetOf(content []byte, line uint32) int {
	off := 0
	for ; line > 0; line-- {
		nl := strings.IndexByte(string(content[off:]), '\n')
		if nl < 0 {
			return off
		}
		off += nl + 1
	}
	return off
}
