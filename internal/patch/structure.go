package patch

import (
	"fmt"

	"pbform/internal/form"
	"pbform/internal/scan"
)

// InsertItem appends an AddGadgetItem statement for the gadget, placed after
// the last existing item of that gadget (or after the creation statement when
// it has none). A negative position writes the append sentinel.
func InsertItem(content []byte, gadgetID string, position int, text string, aux []string) ([]TextEdit, error) {
	calls := scanCurrent(content)
	anchor, ok := lastOwnedCall(calls, "AddGadgetItem", gadgetID)
	if !ok {
		if anchor, _, ok = findGadget(calls, gadgetID); !ok {
			return nil, fmt.Errorf("gadget %q: %w", gadgetID, ErrNoEdit)
		}
	}
	stmt := fmt.Sprintf("AddGadgetItem(%s, %d, %s", gadgetID, position, Quote(text))
	for _, a := range aux {
		stmt += ", " + a
	}
	stmt += ")"
	return []TextEdit{insertAfter(content, anchor, stmt)}, nil
}

// RemoveItem deletes the AddGadgetItem statement at the given line after
// re-verifying kind and owner.
func RemoveItem(content []byte, gadgetID string, line uint32) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, _, ok := callAtLine(calls, line, "AddGadgetItem")
	if !ok || scan.CallIdentity(c) != gadgetID {
		return nil, fmt.Errorf("item of %q at line %d: %w", gadgetID, line+1, ErrNoEdit)
	}
	return []TextEdit{{Span: lineSpanOf(content, c)}}, nil
}

// InsertColumn appends an AddGadgetColumn statement after the gadget's last
// column (or the creation statement).
func InsertColumn(content []byte, gadgetID string, position int, title string, width float64) ([]TextEdit, error) {
	calls := scanCurrent(content)
	anchor, ok := lastOwnedCall(calls, "AddGadgetColumn", gadgetID)
	if !ok {
		if anchor, _, ok = findGadget(calls, gadgetID); !ok {
			return nil, fmt.Errorf("gadget %q: %w", gadgetID, ErrNoEdit)
		}
	}
	stmt := fmt.Sprintf("AddGadgetColumn(%s, %d, %s, %s)",
		gadgetID, position, Quote(title), truncInt(width))
	return []TextEdit{insertAfter(content, anchor, stmt)}, nil
}

// RemoveColumn deletes the AddGadgetColumn statement at the given line.
func RemoveColumn(content []byte, gadgetID string, line uint32) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, _, ok := callAtLine(calls, line, "AddGadgetColumn")
	if !ok || scan.CallIdentity(c) != gadgetID {
		return nil, fmt.Errorf("column of %q at line %d: %w", gadgetID, line+1, ErrNoEdit)
	}
	return []TextEdit{{Span: lineSpanOf(content, c)}}, nil
}

// MenuEntrySpec describes an entry to insert into a menu section.
type MenuEntrySpec struct {
	Kind   form.MenuEntryKind
	ItemID string // raw item id expression, MenuItem only
	Text   string // display text, ignored for MenuBar and CloseSubMenu
}

func (s MenuEntrySpec) statement() string {
	switch s.Kind {
	case form.MenuEntryTitle:
		return fmt.Sprintf("MenuTitle(%s)", Quote(s.Text))
	case form.MenuEntryItem:
		return fmt.Sprintf("MenuItem(%s, %s)", s.ItemID, Quote(s.Text))
	case form.MenuEntryBar:
		return "MenuBar()"
	case form.MenuEntryOpenSub:
		return fmt.Sprintf("OpenSubMenu(%s)", Quote(s.Text))
	case form.MenuEntryCloseSub:
		return "CloseSubMenu()"
	}
	return ""
}

// InsertMenuEntry appends an entry at the end of the menu's section, after
// the last entry it owns (or directly after CreateMenu when empty).
func InsertMenuEntry(content []byte, menuID string, spec MenuEntrySpec) ([]TextEdit, error) {
	stmt := spec.statement()
	if stmt == "" {
		return nil, fmt.Errorf("menu entry kind %d: %w", spec.Kind, ErrNoEdit)
	}
	calls := scanCurrent(content)
	anchor, ok := lastSectionCall(calls, scan.SectionMenu, menuID, menuEntryStmt)
	if !ok {
		return nil, fmt.Errorf("menu %q: %w", menuID, ErrNoEdit)
	}
	return []TextEdit{insertAfter(content, anchor, stmt)}, nil
}

// RemoveMenuEntry deletes the entry statement at the given line inside the
// menu's section.
func RemoveMenuEntry(content []byte, menuID string, line uint32, kind form.MenuEntryKind) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, idx, ok := callAtLine(calls, line, kind.String())
	if !ok || !scan.InSection(calls, idx, scan.SectionMenu, menuID) {
		return nil, fmt.Errorf("menu entry of %q at line %d: %w", menuID, line+1, ErrNoEdit)
	}
	return []TextEdit{{Span: lineSpanOf(content, c)}}, nil
}

// ToolBarEntrySpec describes a toolbar entry to insert.
type ToolBarEntrySpec struct {
	Separator bool
	ButtonID  string // raw button id expression
	ImageExpr string
	ModeExpr  string // optional
	Text      string // optional
}

func (s ToolBarEntrySpec) statement() string {
	if s.Separator {
		return "ToolBarSeparator()"
	}
	stmt := fmt.Sprintf("ToolBarImageButton(%s, %s", s.ButtonID, s.ImageExpr)
	if s.ModeExpr != "" {
		stmt += ", " + s.ModeExpr
		if s.Text != "" {
			stmt += ", " + Quote(s.Text)
		}
	}
	return stmt + ")"
}

// InsertToolBarEntry appends an entry at the end of the toolbar's section.
func InsertToolBarEntry(content []byte, barID string, spec ToolBarEntrySpec) ([]TextEdit, error) {
	calls := scanCurrent(content)
	anchor, ok := lastSectionCall(calls, scan.SectionToolBar, barID, toolBarEntryStmt)
	if !ok {
		return nil, fmt.Errorf("toolbar %q: %w", barID, ErrNoEdit)
	}
	return []TextEdit{insertAfter(content, anchor, spec.statement())}, nil
}

// RemoveToolBarEntry deletes the button or separator at the given line.
func RemoveToolBarEntry(content []byte, barID string, line uint32) ([]TextEdit, error) {
	calls := scanCurrent(content)
	for i, c := range calls {
		if c.Range.Line != line || !toolBarEntryStmt(c.Name) {
			continue
		}
		if !scan.InSection(calls, i, scan.SectionToolBar, barID) {
			break
		}
		return []TextEdit{{Span: lineSpanOf(content, c)}}, nil
	}
	return nil, fmt.Errorf("toolbar entry of %q at line %d: %w", barID, line+1, ErrNoEdit)
}

// InsertStatusBarField appends an AddStatusBarField at the end of the status
// bar's section.
func InsertStatusBarField(content []byte, barID string, width float64) ([]TextEdit, error) {
	calls := scanCurrent(content)
	anchor, ok := lastSectionCall(calls, scan.SectionStatusBar, barID, func(name string) bool {
		return name == "AddStatusBarField"
	})
	if !ok {
		return nil, fmt.Errorf("status bar %q: %w", barID, ErrNoEdit)
	}
	stmt := fmt.Sprintf("AddStatusBarField(%s)", truncInt(width))
	return []TextEdit{insertAfter(content, anchor, stmt)}, nil
}

// RemoveStatusBarField deletes the AddStatusBarField at the given line.
func RemoveStatusBarField(content []byte, barID string, line uint32) ([]TextEdit, error) {
	calls := scanCurrent(content)
	c, idx, ok := callAtLine(calls, line, "AddStatusBarField")
	if !ok || !scan.InSection(calls, idx, scan.SectionStatusBar, barID) {
		return nil, fmt.Errorf("status field of %q at line %d: %w", barID, line+1, ErrNoEdit)
	}
	return []TextEdit{{Span: lineSpanOf(content, c)}}, nil
}

// lastOwnedCall finds the last statement with the given name whose first
// argument names the owner.
func lastOwnedCall(calls []scan.Call, name, ownerID string) (scan.Call, bool) {
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Name == name && scan.CallIdentity(calls[i]) == ownerID {
			return calls[i], true
		}
	}
	return scan.Call{}, false
}

// lastSectionCall finds the last entry statement inside the section owned by
// ownerID, falling back to the section opener itself when the section holds
// no entries yet.
func lastSectionCall(calls []scan.Call, kind scan.SectionKind, ownerID string, entry func(string) bool) (scan.Call, bool) {
	for i := len(calls) - 1; i >= 0; i-- {
		if !entry(calls[i].Name) {
			continue
		}
		if scan.InSection(calls, i, kind, ownerID) {
			return calls[i], true
		}
	}
	_, idx, ok := findCall(calls, func(c scan.Call) bool {
		return scan.SectionOpenerKind(c.Name) == kind && scan.CallIdentity(c) == ownerID
	})
	if !ok {
		return scan.Call{}, false
	}
	return calls[idx], true
}

func menuEntryStmt(name string) bool {
	switch name {
	case "MenuTitle", "MenuItem", "MenuBar", "OpenSubMenu", "CloseSubMenu":
		return true
	}
	return false
}

func toolBarEntryStmt(name string) bool {
	return name == "ToolBarImageButton" || name == "ToolBarSeparator"
}
