// Package build assembles a structured form document from the call stream in
// a single left-to-right pass. The pass keeps its entire working state in a
// locally scoped accumulator, so every Parse call is independent and the
// builder is trivially re-entrant.
package build

import (
	"fmt"
	"strconv"
	"strings"

	"pbform/internal/args"
	"pbform/internal/diag"
	"pbform/internal/form"
	"pbform/internal/scan"
	"pbform/internal/source"
)

// Parse builds a document from the full text, detecting the scan range from
// the designer markers. Structural issues are appended to bag and mirrored
// into the document's meta.
func Parse(content []byte, bag *diag.Bag) *form.FormDocument {
	window, info := scan.DetectScanRange(content)
	return parse(content, window, info, bag)
}

// ParseWithRange builds a document from a previously computed scan window.
// Header facts are still re-derived from the text.
func ParseWithRange(content []byte, window source.Span, bag *diag.Bag) *form.FormDocument {
	_, info := scan.DetectScanRange(content)
	return parse(content, window, info, bag)
}

// containerFrame is one open gadget list: the container's identity key and
// the tab index currently active for panel containers (-1 otherwise).
type containerFrame struct {
	id   string
	item int
}

// builder is the per-parse accumulator. It is created and discarded inside
// parse; no state survives between parses.
type builder struct {
	content []byte
	doc     *form.FormDocument
	bag     *diag.Bag

	containers []containerFrame
	tabIndex   map[string]int

	// section pointers are mutually exclusive: opening any section clears
	// the other two
	curMenu      *form.FormMenu
	curToolBar   *form.FormToolBar
	curStatusBar *form.FormStatusBar
	menuLevel    int
}

func parse(content []byte, window source.Span, info scan.HeaderInfo, bag *diag.Bag) *form.FormDocument {
	b := &builder{
		content:    content,
		doc:        form.NewDocument(),
		bag:        bag,
		containers: make([]containerFrame, 0, 4),
		tabIndex:   make(map[string]int),
	}

	b.doc.Meta.ScanRange = window
	b.doc.Meta.HeaderVersion = info.Version
	b.doc.Meta.HasVersionWarning = info.HasWarning

	if !info.HasHeader {
		b.issue(diag.NewWarning(diag.FormMissingHeader, source.Span{Start: window.Start, End: window.Start},
			"no form designer header comment found"))
	} else if !info.HasWarning {
		b.issue(diag.NewInfo(diag.FormMissingVersionWarning, source.Span{Start: window.Start, End: window.Start},
			"header lacks the generated-code warning line"))
	}

	b.doc.Meta.Enumerations = scan.ScanEnumerations(content, window)

	for _, call := range scan.ScanCalls(content, window) {
		b.dispatch(call)
	}
	return b.doc
}

func (b *builder) issue(d diag.Diagnostic) {
	b.bag.Add(d)
	b.doc.Meta.Issues = append(b.doc.Meta.Issues, d)
}

// dispatch interprets one call. The switch is exhaustive over StmtKind;
// unknown names fall through untouched, which is the whole recovery policy
// for free-form source.
func (b *builder) dispatch(call scan.Call) {
	kind, gadgetKind := form.LookupStmt(call.Name)
	switch kind {
	case form.StmtUnknown:
		// not part of the recognized vocabulary
	case form.StmtOpenWindow:
		b.openWindow(call)
	case form.StmtGadget:
		b.addGadget(call, gadgetKind)
	case form.StmtOpenGadgetList:
		b.openGadgetList(call)
	case form.StmtCloseGadgetList:
		if n := len(b.containers); n > 0 {
			b.containers = b.containers[:n-1]
		}
	case form.StmtAddGadgetItem:
		b.addItem(call)
	case form.StmtAddGadgetColumn:
		b.addColumn(call)
	case form.StmtCreateMenu:
		b.createMenu(call)
	case form.StmtMenuTitle, form.StmtMenuItem, form.StmtMenuBar,
		form.StmtOpenSubMenu, form.StmtCloseSubMenu:
		b.menuEntry(call, kind)
	case form.StmtCreateToolBar:
		b.createToolBar(call)
	case form.StmtToolBarImageButton, form.StmtToolBarSeparator:
		b.toolBarEntry(call, kind)
	case form.StmtCreateStatusBar:
		b.createStatusBar(call)
	case form.StmtAddStatusBarField:
		b.addStatusBarField(call)
	case form.StmtStatusBarText:
		b.statusBarText(call)
	}
}

// identity resolves the stable key for a creation call, raising the
// anonymous-identity issue when there is none.
func (b *builder) identity(call scan.Call, fields []string) (id string, pbAny bool) {
	first := ""
	if len(fields) > 0 {
		first = fields[0]
	}
	id, pbAny, err := form.ResolveIdentity(first, call.AssignedVar)
	if err != nil {
		b.issue(diag.NewError(diag.FormAnonymousNoVar, call.Range.Span,
			fmt.Sprintf("%s uses #PB_Any without an assignment on line %d; the control cannot be edited",
				call.Name, call.Range.Line+1)))
	}
	return id, pbAny
}

func (b *builder) openWindow(call scan.Call) {
	// OpenWindow both constructs the window and acts as a section boundary
	b.resetSections()

	if b.doc.Window != nil {
		b.issue(diag.NewWarning(diag.FormWindowRedefined, call.Range.Span,
			"more than one OpenWindow in scan range; keeping the first"))
		return
	}

	fields := args.SplitParams(call.Args)
	id, pbAny := b.identity(call, fields)

	w := &form.FormWindow{
		ID:         id,
		PBAny:      pbAny,
		FirstParam: strings.TrimSpace(fieldAt(fields, 0)),
		Variable:   call.AssignedVar,
		Range:      call.Range,
	}

	// geometry may reference parameters of an enclosing procedure whose
	// defaults carry the real values
	proc, hasProc := scan.EnclosingProcedure(b.content, int(call.Range.Span.Start))
	w.X = b.geomValue(fieldAt(fields, 1), proc, hasProc)
	w.Y = b.geomValue(fieldAt(fields, 2), proc, hasProc)
	w.W = b.geomValue(fieldAt(fields, 3), proc, hasProc)
	w.H = b.geomValue(fieldAt(fields, 4), proc, hasProc)

	w.Title = args.Unquote(fieldAt(fields, 5))
	w.FlagsExpr = strings.TrimSpace(fieldAt(fields, 6))

	if !pbAny && strings.HasPrefix(w.ID, "#") {
		if sym, ok := b.doc.EnumValue(w.ID); ok {
			switch {
			case sym.ValueRaw != "":
				w.EnumValueRaw = sym.ValueRaw
			case sym.HasValue:
				w.EnumValueRaw = strconv.Itoa(sym.Value)
			}
		}
	}

	b.doc.Window = w
}

// geomValue resolves one geometry field: a plain numeric literal wins;
// otherwise an identifier naming a defaulted parameter of the enclosing
// procedure resolves to that default; everything else is 0.
func (b *builder) geomValue(raw string, proc scan.ProcDecl, hasProc bool) int {
	if v, ok := args.AsInt(raw); ok {
		return v
	}
	if hasProc {
		if def, ok := proc.DefaultFor(strings.TrimSpace(raw)); ok {
			if v, ok := args.AsInt(def); ok {
				return v
			}
		}
	}
	return 0
}

func (b *builder) addGadget(call scan.Call, kind form.GadgetKind) {
	fields := args.SplitParams(call.Args)
	id, pbAny := b.identity(call, fields)

	g := &form.Gadget{
		ID:         id,
		Kind:       kind,
		PBAny:      pbAny,
		FirstParam: strings.TrimSpace(fieldAt(fields, 0)),
		Variable:   call.AssignedVar,
		ParentItem: -1,
		Range:      call.Range,
	}

	g.X = intOrZero(fieldAt(fields, 1))
	g.Y = intOrZero(fieldAt(fields, 2))
	g.W = intOrZero(fieldAt(fields, 3))
	g.H = intOrZero(fieldAt(fields, 4))

	if textArg := kind.TextArg(); textArg >= 0 {
		g.Text = args.Unquote(fieldAt(fields, textArg))
		g.FlagsExpr = strings.TrimSpace(fieldAt(fields, textArg+1))
	} else {
		g.FlagsExpr = strings.TrimSpace(fieldAt(fields, 5))
	}

	if top := b.top(); top != nil {
		g.ParentID = top.id
		g.ParentItem = top.item
	}

	if !b.doc.Register(g) {
		b.issue(diag.NewWarning(diag.FormDuplicateIdentity, call.Range.Span,
			fmt.Sprintf("identity %q is already in use", g.ID)))
	}

	if kind.IsContainer() {
		b.containers = append(b.containers, containerFrame{id: g.ID, item: -1})
	}
}

func (b *builder) openGadgetList(call scan.Call) {
	fields := args.SplitParams(call.Args)
	token := strings.TrimSpace(fieldAt(fields, 0))
	g, ok := b.doc.Gadget(token)
	if !ok {
		b.issue(diag.NewWarning(diag.FormUnknownContainer, call.Range.Span,
			fmt.Sprintf("OpenGadgetList target %q is not a known gadget", token)))
		return
	}
	item := -1
	if g.Kind.IsPanel() {
		if tab, ok := b.tabIndex[g.ID]; ok {
			item = tab
		}
	}
	b.containers = append(b.containers, containerFrame{id: g.ID, item: item})
}

func (b *builder) addItem(call scan.Call) {
	fields := args.SplitParams(call.Args)
	token := strings.TrimSpace(fieldAt(fields, 0))
	g, ok := b.doc.Gadget(token)
	if !ok {
		return
	}

	index := resolveIndex(fieldAt(fields, 1), len(g.Items))
	item := form.GadgetItem{
		Index: index,
		Text:  args.Unquote(fieldAt(fields, 2)),
		Range: rangePtr(call.Range),
	}
	for _, aux := range fields[min(3, len(fields)):] {
		item.Aux = append(item.Aux, strings.TrimSpace(aux))
	}
	g.Items = append(g.Items, item)

	if g.Kind.IsPanel() {
		b.tabIndex[g.ID] = index
		// mirror into the active frame so children created after this item
		// land on the right tab
		for i := len(b.containers) - 1; i >= 0; i-- {
			if b.containers[i].id == g.ID {
				b.containers[i].item = index
				break
			}
		}
	}
}

func (b *builder) addColumn(call scan.Call) {
	fields := args.SplitParams(call.Args)
	token := strings.TrimSpace(fieldAt(fields, 0))
	g, ok := b.doc.Gadget(token)
	if !ok {
		return
	}

	col := form.GadgetColumn{
		Index:    resolveIndex(fieldAt(fields, 1), len(g.Columns)),
		Title:    args.Unquote(fieldAt(fields, 2)),
		WidthRaw: strings.TrimSpace(fieldAt(fields, 3)),
		Range:    rangePtr(call.Range),
	}
	col.Width = intOrZero(col.WidthRaw)
	g.Columns = append(g.Columns, col)
}

func (b *builder) createMenu(call scan.Call) {
	b.resetSections()
	fields := args.SplitParams(call.Args)
	if strings.TrimSpace(fieldAt(fields, 0)) == "" {
		return
	}
	id, pbAny := b.identity(call, fields)
	m := &form.FormMenu{
		ID:         id,
		PBAny:      pbAny,
		FirstParam: strings.TrimSpace(fieldAt(fields, 0)),
		Variable:   call.AssignedVar,
		WindowRef:  strings.TrimSpace(fieldAt(fields, 1)),
		Entries:    make([]form.FormMenuEntry, 0, 8),
		Range:      call.Range,
	}
	b.doc.Menus = append(b.doc.Menus, m)
	b.curMenu = m
}

func (b *builder) menuEntry(call scan.Call, kind form.StmtKind) {
	if b.curMenu == nil {
		b.issue(diag.NewWarning(diag.FormEntryOutsideSection, call.Range.Span,
			fmt.Sprintf("%s has no open menu section", call.Name)))
		return
	}
	fields := args.SplitParams(call.Args)
	entry := form.FormMenuEntry{Range: call.Range}

	switch kind {
	case form.StmtMenuTitle:
		entry.Kind = form.MenuEntryTitle
		entry.Text = args.Unquote(fieldAt(fields, 0))
		entry.Level = b.menuLevel
	case form.StmtMenuItem:
		entry.Kind = form.MenuEntryItem
		entry.ItemIDRaw = strings.TrimSpace(fieldAt(fields, 0))
		entry.Text = args.Unquote(fieldAt(fields, 1))
		entry.Level = b.menuLevel
	case form.StmtMenuBar:
		entry.Kind = form.MenuEntryBar
		entry.Level = b.menuLevel
	case form.StmtOpenSubMenu:
		entry.Kind = form.MenuEntryOpenSub
		entry.Text = args.Unquote(fieldAt(fields, 0))
		entry.Level = b.menuLevel
		b.menuLevel++
	case form.StmtCloseSubMenu:
		entry.Kind = form.MenuEntryCloseSub
		if b.menuLevel > 0 {
			b.menuLevel--
		}
		entry.Level = b.menuLevel
	default:
		return
	}
	b.curMenu.Entries = append(b.curMenu.Entries, entry)
}

func (b *builder) createToolBar(call scan.Call) {
	b.resetSections()
	fields := args.SplitParams(call.Args)
	if strings.TrimSpace(fieldAt(fields, 0)) == "" {
		return
	}
	id, pbAny := b.identity(call, fields)
	tb := &form.FormToolBar{
		ID:         id,
		PBAny:      pbAny,
		FirstParam: strings.TrimSpace(fieldAt(fields, 0)),
		Variable:   call.AssignedVar,
		WindowRef:  strings.TrimSpace(fieldAt(fields, 1)),
		Entries:    make([]form.FormToolBarEntry, 0, 8),
		Range:      call.Range,
	}
	b.doc.ToolBars = append(b.doc.ToolBars, tb)
	b.curToolBar = tb
}

func (b *builder) toolBarEntry(call scan.Call, kind form.StmtKind) {
	if b.curToolBar == nil {
		b.issue(diag.NewWarning(diag.FormEntryOutsideSection, call.Range.Span,
			fmt.Sprintf("%s has no open toolbar section", call.Name)))
		return
	}
	fields := args.SplitParams(call.Args)
	entry := form.FormToolBarEntry{Range: call.Range}

	if kind == form.StmtToolBarSeparator {
		entry.Kind = form.ToolBarEntrySeparator
	} else {
		entry.Kind = form.ToolBarEntryButton
		entry.ButtonIDRaw = strings.TrimSpace(fieldAt(fields, 0))
		entry.ImageExpr = strings.TrimSpace(fieldAt(fields, 1))
		entry.ModeExpr = strings.TrimSpace(fieldAt(fields, 2))
		entry.Text = args.Unquote(fieldAt(fields, 3))
	}
	b.curToolBar.Entries = append(b.curToolBar.Entries, entry)
}

func (b *builder) createStatusBar(call scan.Call) {
	b.resetSections()
	fields := args.SplitParams(call.Args)
	if strings.TrimSpace(fieldAt(fields, 0)) == "" {
		return
	}
	id, pbAny := b.identity(call, fields)
	sb := &form.FormStatusBar{
		ID:         id,
		PBAny:      pbAny,
		FirstParam: strings.TrimSpace(fieldAt(fields, 0)),
		Variable:   call.AssignedVar,
		WindowRef:  strings.TrimSpace(fieldAt(fields, 1)),
		Fields:     make([]form.FormStatusBarField, 0, 4),
		Range:      call.Range,
	}
	b.doc.StatusBars = append(b.doc.StatusBars, sb)
	b.curStatusBar = sb
}

func (b *builder) addStatusBarField(call scan.Call) {
	if b.curStatusBar == nil {
		b.issue(diag.NewWarning(diag.FormEntryOutsideSection, call.Range.Span,
			"AddStatusBarField has no open statusbar section"))
		return
	}
	fields := args.SplitParams(call.Args)
	f := form.FormStatusBarField{
		Index:    len(b.curStatusBar.Fields),
		WidthRaw: strings.TrimSpace(fieldAt(fields, 0)),
		Range:    call.Range,
	}
	f.Width = intOrZero(f.WidthRaw)
	b.curStatusBar.Fields = append(b.curStatusBar.Fields, f)
}

// statusBarText assigns text to an existing field; it addresses the bar by
// identity, not by the open section.
func (b *builder) statusBarText(call scan.Call) {
	fields := args.SplitParams(call.Args)
	token := strings.TrimSpace(fieldAt(fields, 0))
	sb, ok := b.doc.StatusBar(token)
	if !ok {
		return
	}
	idx, ok := args.AsInt(fieldAt(fields, 1))
	if !ok || idx < 0 || idx >= len(sb.Fields) {
		return
	}
	sb.Fields[idx].Text = args.Unquote(fieldAt(fields, 2))
}

func (b *builder) resetSections() {
	b.curMenu = nil
	b.curToolBar = nil
	b.curStatusBar = nil
	b.menuLevel = 0
}

func (b *builder) top() *containerFrame {
	if len(b.containers) == 0 {
		return nil
	}
	return &b.containers[len(b.containers)-1]
}

func fieldAt(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

func intOrZero(raw string) int {
	v, ok := args.AsInt(raw)
	if !ok {
		return 0
	}
	return v
}

// resolveIndex turns a raw position field into a non-negative index,
// defaulting to the append position.
func resolveIndex(raw string, count int) int {
	if v, ok := args.AsInt(raw); ok && v >= 0 {
		return v
	}
	return count
}

func rangePtr(r form.SourceRange) *form.SourceRange {
	c := r
	return &c
}
