package scan

import (
	"pbform/internal/form"
)

// SectionKind classifies the section-opening statements. Opening any of
// them terminates the previously open section, whatever its kind.
type SectionKind uint8

const (
	SectionNone SectionKind = iota
	SectionMenu
	SectionToolBar
	SectionStatusBar
	SectionWindow
)

func (k SectionKind) String() string {
	switch k {
	case SectionMenu:
		return "menu"
	case SectionToolBar:
		return "toolbar"
	case SectionStatusBar:
		return "statusbar"
	case SectionWindow:
		return "window"
	}
	return "none"
}

// SectionOpenerKind classifies a call name as a section opener.
func SectionOpenerKind(name string) SectionKind {
	switch name {
	case "CreateMenu":
		return SectionMenu
	case "CreateToolBar":
		return SectionToolBar
	case "CreateStatusBar":
		return SectionStatusBar
	case "OpenWindow":
		return SectionWindow
	}
	return SectionNone
}

// SectionOwner finds the nearest section-opening call at or before index
// idx. Returns -1 when no opener precedes the call. The backward scan is
// linear; call streams are small.
func SectionOwner(calls []Call, idx int) (ownerIdx int, kind SectionKind) {
	if idx >= len(calls) {
		idx = len(calls) - 1
	}
	for i := idx; i >= 0; i-- {
		if k := SectionOpenerKind(calls[i].Name); k != SectionNone {
			return i, k
		}
	}
	return -1, SectionNone
}

// InSection reports whether the call at idx lies inside the section of the
// given kind owned by identity key id. Section identity is resolved the same
// way as entity identity: assignment variable for #PB_Any, literal first
// parameter otherwise.
func InSection(calls []Call, idx int, kind SectionKind, id string) bool {
	ownerIdx, ownerKind := SectionOwner(calls, idx)
	if ownerIdx < 0 || ownerKind != kind {
		return false
	}
	return CallIdentity(calls[ownerIdx]) == id
}

// CallIdentity computes the stable key of a call's first argument, or ""
// when the call has no patchable identity.
func CallIdentity(c Call) string {
	fields := splitFirst(c.Args)
	id, _, err := form.ResolveIdentity(fields, c.AssignedVar)
	if err != nil {
		return ""
	}
	return id
}

// splitFirst returns the first top-level comma field of a raw argument list
// without allocating the full split.
func splitFirst(raw string) string {
	depth := 0
	inString := false
	for i := 0; i < len(raw); i++ {
		switch ch := raw[i]; {
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '(':
			depth++
		case ch == ')':
			if depth > 0 {
				depth--
			}
		case ch == ',' && depth == 0:
			return raw[:i]
		}
	}
	return raw
}
