package form

import (
	"pbform/internal/diag"
	"pbform/internal/source"
)

// FormMeta carries everything about a parse that is not an entity: the scan
// window, header facts, parsed enumeration blocks and accumulated issues.
type FormMeta struct {
	ScanRange source.Span

	// HeaderVersion is the dotted version from the designer header comment,
	// empty when the header is missing.
	HeaderVersion     string
	HasVersionWarning bool

	Enumerations []Enumeration
	Issues       []diag.Diagnostic
}

// FormDocument is the structured model of one form source file. It is built
// fresh on every parse and holds no references into the text buffer.
type FormDocument struct {
	Window     *FormWindow
	Gadgets    []*Gadget
	Menus      []*FormMenu
	ToolBars   []*FormToolBar
	StatusBars []*FormStatusBar
	Meta       FormMeta

	byID map[string]*Gadget
}

// NewDocument returns an empty document ready for the builder.
func NewDocument() *FormDocument {
	return &FormDocument{
		Gadgets:    make([]*Gadget, 0),
		Menus:      make([]*FormMenu, 0),
		ToolBars:   make([]*FormToolBar, 0),
		StatusBars: make([]*FormStatusBar, 0),
		byID:       make(map[string]*Gadget),
	}
}

// Register adds a gadget and indexes it by identity key. The first gadget
// wins on key collision; the caller reports the duplicate.
func (d *FormDocument) Register(g *Gadget) bool {
	d.Gadgets = append(d.Gadgets, g)
	if g.ID == "" {
		return true
	}
	if _, exists := d.byID[g.ID]; exists {
		return false
	}
	d.byID[g.ID] = g
	return true
}

// Reindex rebuilds the identity lookup, needed after deserialization drops
// the unexported index. First registration wins, matching Register.
func (d *FormDocument) Reindex() {
	d.byID = make(map[string]*Gadget, len(d.Gadgets))
	for _, g := range d.Gadgets {
		if g.ID == "" {
			continue
		}
		if _, exists := d.byID[g.ID]; !exists {
			d.byID[g.ID] = g
		}
	}
}

// Gadget resolves a gadget by identity key.
func (d *FormDocument) Gadget(id string) (*Gadget, bool) {
	g, ok := d.byID[id]
	return g, ok
}

// Menu resolves a menu section by identity key.
func (d *FormDocument) Menu(id string) (*FormMenu, bool) {
	for _, m := range d.Menus {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// ToolBar resolves a toolbar section by identity key.
func (d *FormDocument) ToolBar(id string) (*FormToolBar, bool) {
	for _, tb := range d.ToolBars {
		if tb.ID == id {
			return tb, true
		}
	}
	return nil, false
}

// StatusBar resolves a statusbar section by identity key.
func (d *FormDocument) StatusBar(id string) (*FormStatusBar, bool) {
	for _, sb := range d.StatusBars {
		if sb.ID == id {
			return sb, true
		}
	}
	return nil, false
}

// EnumValue looks up a symbol across all parsed enumeration blocks.
func (d *FormDocument) EnumValue(symbol string) (EnumSymbol, bool) {
	for _, e := range d.Meta.Enumerations {
		for _, s := range e.Symbols {
			if s.Name == symbol {
				return s, true
			}
		}
	}
	return EnumSymbol{}, false
}
