package form

import (
	"pbform/internal/source"
)

// SourceRange is the provenance of an entity: the byte span of the producing
// statement, its 0-based line, and the offset of that line's first character.
// Ranges are recomputed on every parse and never mutated.
type SourceRange struct {
	Span      source.Span
	Line      uint32
	LineStart uint32
}

// Gadget is one control constructed inside the scan range.
type Gadget struct {
	ID         string
	Kind       GadgetKind
	PBAny      bool
	FirstParam string
	Variable   string

	// ParentID/ParentItem describe container nesting: the owning container's
	// identity key and, for panels, the tab index active at creation time
	// (-1 outside any tab).
	ParentID   string
	ParentItem int

	X, Y, W, H int
	Text       string
	FlagsExpr  string

	Items   []GadgetItem
	Columns []GadgetColumn

	Range SourceRange
}

// GadgetItem is one AddGadgetItem row. Range is nil when the item was not
// produced by its own statement and therefore cannot be patched on its own.
type GadgetItem struct {
	Index int
	Text  string
	// Aux keeps any raw trailing fields (image expression, flags) verbatim.
	Aux   []string
	Range *SourceRange
}

// GadgetColumn is one AddGadgetColumn entry.
type GadgetColumn struct {
	Index    int
	Title    string
	Width    int
	WidthRaw string
	Range    *SourceRange
}

// FormWindow is the single OpenWindow of a form. EnumValueRaw is filled when
// the identity is a named constant with a resolvable enumeration value.
type FormWindow struct {
	ID           string
	PBAny        bool
	FirstParam   string
	Variable     string
	EnumValueRaw string

	X, Y, W, H int
	Title      string
	FlagsExpr  string

	Range SourceRange
}

// MenuEntryKind distinguishes the statements that may appear inside a menu
// section.
type MenuEntryKind uint8

const (
	MenuEntryTitle MenuEntryKind = iota
	MenuEntryItem
	MenuEntryBar
	MenuEntryOpenSub
	MenuEntryCloseSub
)

func (k MenuEntryKind) String() string {
	switch k {
	case MenuEntryTitle:
		return "MenuTitle"
	case MenuEntryItem:
		return "MenuItem"
	case MenuEntryBar:
		return "MenuBar"
	case MenuEntryOpenSub:
		return "OpenSubMenu"
	case MenuEntryCloseSub:
		return "CloseSubMenu"
	}
	return "Unknown"
}

// FormMenuEntry is one ordered entry of a menu section. Level is the submenu
// nesting depth at the entry, floored at zero.
type FormMenuEntry struct {
	Kind      MenuEntryKind
	ItemIDRaw string
	Text      string
	Level     int
	Range     SourceRange
}

type FormMenu struct {
	ID         string
	PBAny      bool
	FirstParam string
	Variable   string
	WindowRef  string
	Entries    []FormMenuEntry
	Range      SourceRange
}

// ToolBarEntryKind distinguishes toolbar section statements.
type ToolBarEntryKind uint8

const (
	ToolBarEntryButton ToolBarEntryKind = iota
	ToolBarEntrySeparator
)

func (k ToolBarEntryKind) String() string {
	if k == ToolBarEntrySeparator {
		return "ToolBarSeparator"
	}
	return "ToolBarImageButton"
}

type FormToolBarEntry struct {
	Kind        ToolBarEntryKind
	ButtonIDRaw string
	ImageExpr   string
	ModeExpr    string
	Text        string
	Range       SourceRange
}

type FormToolBar struct {
	ID         string
	PBAny      bool
	FirstParam string
	Variable   string
	WindowRef  string
	Entries    []FormToolBarEntry
	Range      SourceRange
}

// FormStatusBarField is one AddStatusBarField, plus the text a later
// StatusBarText assigned to its index.
type FormStatusBarField struct {
	Index    int
	Width    int
	WidthRaw string
	Text     string
	Range    SourceRange
}

type FormStatusBar struct {
	ID         string
	PBAny      bool
	FirstParam string
	Variable   string
	WindowRef  string
	Fields     []FormStatusBarField
	Range      SourceRange
}

// EnumSymbol is one `#Name[ = value]` line of an enumeration block.
type EnumSymbol struct {
	Name     string
	ValueRaw string
	HasValue bool
	Value    int
	Line     uint32
}

// Enumeration is one `Enumeration <Name> ... EndEnumeration` block.
type Enumeration struct {
	Name    string
	Symbols []EnumSymbol
	Range   SourceRange
}
