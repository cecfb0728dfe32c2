package build

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pbform/internal/diag"
	"pbform/internal/form"
)

func parseSrc(t *testing.T, src string) (*form.FormDocument, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(64)
	doc := Parse([]byte(src), bag)
	return doc, bag
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestParseAnonymousGadgetWithAssignment(t *testing.T) {
	doc, bag := parseSrc(t, "Button_0 = ButtonGadget(#PB_Any, 10, 20, 100, 25, \"OK\")\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	g, ok := doc.Gadget("Button_0")
	if !ok {
		t.Fatal("gadget not registered under its variable")
	}
	if !g.PBAny || g.Variable != "Button_0" || g.FirstParam != "#PB_Any" {
		t.Errorf("identity fields = %+v", g)
	}
	if g.X != 10 || g.Y != 20 || g.W != 100 || g.H != 25 || g.Text != "OK" {
		t.Errorf("geometry/text = %+v", g)
	}
}

func TestParseAnonymousGadgetWithoutAssignment(t *testing.T) {
	doc, bag := parseSrc(t, "ButtonGadget(#PB_Any, 10, 20, 100, 25, \"OK\")\n")
	if !hasCode(bag, diag.FormAnonymousNoVar) {
		t.Fatalf("missing anonymous-identity issue: %v", bag.Items())
	}
	if !bag.HasErrors() {
		t.Fatal("anonymous identity should be an error")
	}
	// the gadget still exists in the model, it just cannot be addressed
	if len(doc.Gadgets) != 1 || doc.Gadgets[0].ID != "" {
		t.Fatalf("gadgets = %+v", doc.Gadgets)
	}
	// issues are mirrored into the document
	if len(doc.Meta.Issues) == 0 {
		t.Fatal("issue not attached to document meta")
	}
}

func TestParseHeaderIssues(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{
			name: "no header at all",
			src:  "OpenWindow(0, 0, 0, 1, 1, \"t\")\n",
			code: diag.FormMissingHeader,
		},
		{
			name: "header without warning line",
			src:  "; Form Designer for PureBasic - 6.02\nOpenWindow(0, 0, 0, 1, 1, \"t\")\n",
			code: diag.FormMissingVersionWarning,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := parseSrc(t, tt.src)
			if !hasCode(bag, tt.code) {
				t.Errorf("missing %v in %v", tt.code, bag.Items())
			}
		})
	}
}

func TestParseWindowGeometryFromProcedureDefaults(t *testing.T) {
	src := "" +
		"Procedure OpenMain(x = 20, y = 30, width = 600, height = 400)\n" +
		"  OpenWindow(#Main, x, y, width, height, \"Main\", #PB_Window_SystemMenu)\n" +
		"EndProcedure\n"
	doc, _ := parseSrc(t, src)
	if doc.Window == nil {
		t.Fatal("no window")
	}
	w := doc.Window
	if w.X != 20 || w.Y != 30 || w.W != 600 || w.H != 400 {
		t.Errorf("geometry = (%d,%d,%d,%d)", w.X, w.Y, w.W, w.H)
	}
	if w.Title != "Main" || w.FlagsExpr != "#PB_Window_SystemMenu" {
		t.Errorf("title/flags = %q/%q", w.Title, w.FlagsExpr)
	}
}

func TestParseWindowEnumValue(t *testing.T) {
	src := "" +
		"Enumeration FormWindow\n" +
		"  #First\n" +
		"  #Main\n" +
		"EndEnumeration\n" +
		"OpenWindow(#Main, 0, 0, 1, 1, \"t\")\n"
	doc, _ := parseSrc(t, src)
	if doc.Window == nil || doc.Window.EnumValueRaw != "1" {
		t.Fatalf("window = %+v", doc.Window)
	}
}

func TestParseSecondWindowKeepsFirst(t *testing.T) {
	src := "OpenWindow(#A, 0, 0, 1, 1, \"a\")\nOpenWindow(#B, 0, 0, 2, 2, \"b\")\n"
	doc, bag := parseSrc(t, src)
	if !hasCode(bag, diag.FormWindowRedefined) {
		t.Fatalf("missing redefinition warning: %v", bag.Items())
	}
	if doc.Window == nil || doc.Window.ID != "#A" {
		t.Fatalf("window = %+v", doc.Window)
	}
}

func TestParseDuplicateIdentity(t *testing.T) {
	src := "" +
		"ButtonGadget(#Btn, 0, 0, 1, 1, \"a\")\n" +
		"TextGadget(#Btn, 5, 5, 1, 1, \"b\")\n"
	doc, bag := parseSrc(t, src)
	if !hasCode(bag, diag.FormDuplicateIdentity) {
		t.Fatalf("missing duplicate warning: %v", bag.Items())
	}
	g, _ := doc.Gadget("#Btn")
	if g.Kind != form.KindButton {
		t.Errorf("first registration should win, got %v", g.Kind)
	}
	if len(doc.Gadgets) != 2 {
		t.Errorf("both gadgets stay in the list, got %d", len(doc.Gadgets))
	}
}

func TestParsePanelTabs(t *testing.T) {
	src := "" +
		"Panel_0 = PanelGadget(#PB_Any, 0, 0, 300, 200)\n" +
		"AddGadgetItem(Panel_0, -1, \"Tab 1\")\n" +
		"OpenGadgetList(Panel_0)\n" +
		"Button_0 = ButtonGadget(#PB_Any, 10, 10, 80, 25, \"A\")\n" +
		"CloseGadgetList()\n" +
		"AddGadgetItem(Panel_0, -1, \"Tab 2\")\n" +
		"OpenGadgetList(Panel_0)\n" +
		"Button_1 = ButtonGadget(#PB_Any, 10, 10, 80, 25, \"B\")\n" +
		"CloseGadgetList()\n"
	doc, bag := parseSrc(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	b0, _ := doc.Gadget("Button_0")
	if b0.ParentID != "Panel_0" || b0.ParentItem != 0 {
		t.Errorf("Button_0 parent = %q tab %d, want Panel_0 tab 0", b0.ParentID, b0.ParentItem)
	}
	b1, _ := doc.Gadget("Button_1")
	if b1.ParentID != "Panel_0" || b1.ParentItem != 1 {
		t.Errorf("Button_1 parent = %q tab %d, want Panel_0 tab 1", b1.ParentID, b1.ParentItem)
	}

	p, _ := doc.Gadget("Panel_0")
	if len(p.Items) != 2 || p.Items[0].Index != 0 || p.Items[1].Index != 1 {
		t.Errorf("panel items = %+v", p.Items)
	}
}

func TestParseNestedContainers(t *testing.T) {
	src := "" +
		"Cont_0 = ContainerGadget(#PB_Any, 0, 0, 300, 200)\n" +
		"  Inner_0 = ContainerGadget(#PB_Any, 10, 10, 100, 100)\n" +
		"    Deep = ButtonGadget(#PB_Any, 0, 0, 10, 10, \"x\")\n" +
		"  CloseGadgetList()\n" +
		"  Shallow = ButtonGadget(#PB_Any, 0, 0, 10, 10, \"y\")\n" +
		"CloseGadgetList()\n" +
		"Top = ButtonGadget(#PB_Any, 0, 0, 10, 10, \"z\")\n"
	doc, _ := parseSrc(t, src)

	wantParents := map[string]string{
		"Deep":    "Inner_0",
		"Shallow": "Cont_0",
		"Top":     "",
	}
	for id, want := range wantParents {
		g, ok := doc.Gadget(id)
		if !ok {
			t.Fatalf("gadget %q missing", id)
		}
		if g.ParentID != want {
			t.Errorf("%s parent = %q, want %q", id, g.ParentID, want)
		}
	}
}

func TestParseUnknownContainerTarget(t *testing.T) {
	_, bag := parseSrc(t, "OpenGadgetList(Nope)\n")
	if !hasCode(bag, diag.FormUnknownContainer) {
		t.Fatalf("missing unknown-container warning: %v", bag.Items())
	}
}

func TestParseMenuLevels(t *testing.T) {
	src := "" +
		"Menu0 = CreateMenu(#PB_Any, WindowID(0))\n" +
		"MenuTitle(\"File\")\n" +
		"OpenSubMenu(\"Recent\")\n" +
		"MenuItem(1, \"a.pbf\")\n" +
		"CloseSubMenu()\n" +
		"MenuItem(2, \"Exit\")\n" +
		"CloseSubMenu()\n" + // unbalanced close stays at the floor
		"MenuItem(3, \"Still top\")\n"
	doc, _ := parseSrc(t, src)

	m, ok := doc.Menu("Menu0")
	if !ok {
		t.Fatal("menu not found")
	}
	var levels []int
	for _, e := range m.Entries {
		levels = append(levels, e.Level)
	}
	want := []int{0, 0, 1, 0, 0, 0, 0}
	if diff := cmp.Diff(want, levels); diff != "" {
		t.Errorf("levels mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSectionSwitchover(t *testing.T) {
	src := "" +
		"Menu0 = CreateMenu(#PB_Any, WindowID(0))\n" +
		"MenuItem(1, \"Open\")\n" +
		"CreateStatusBar(0, WindowID(0))\n" +
		"AddStatusBarField(100)\n" +
		"MenuItem(2, \"Lost\")\n"
	doc, bag := parseSrc(t, src)

	m, _ := doc.Menu("Menu0")
	if len(m.Entries) != 1 {
		t.Errorf("menu entries = %d, want 1 (entry after statusbar must not leak in)", len(m.Entries))
	}
	sb, _ := doc.StatusBar("0")
	if len(sb.Fields) != 1 || sb.Fields[0].Width != 100 {
		t.Errorf("statusbar fields = %+v", sb.Fields)
	}
	if !hasCode(bag, diag.FormEntryOutsideSection) {
		t.Errorf("stray MenuItem should raise an issue: %v", bag.Items())
	}
}

func TestParseStatusBarText(t *testing.T) {
	src := "" +
		"Status_0 = CreateStatusBar(#PB_Any, WindowID(0))\n" +
		"AddStatusBarField(100)\n" +
		"AddStatusBarField(200)\n" +
		"StatusBarText(Status_0, 1, \"Ready\")\n" +
		"StatusBarText(Status_0, 9, \"OutOfRange\")\n"
	doc, _ := parseSrc(t, src)

	sb, _ := doc.StatusBar("Status_0")
	if len(sb.Fields) != 2 {
		t.Fatalf("fields = %+v", sb.Fields)
	}
	if sb.Fields[1].Text != "Ready" || sb.Fields[0].Text != "" {
		t.Errorf("field texts = %q/%q", sb.Fields[0].Text, sb.Fields[1].Text)
	}
}

func TestParseToolBar(t *testing.T) {
	src := "" +
		"ToolBar_0 = CreateToolBar(#PB_Any, WindowID(0))\n" +
		"ToolBarImageButton(#Tool_New, ImageID(#Img_New))\n" +
		"ToolBarSeparator()\n" +
		"ToolBarImageButton(#Tool_Open, ImageID(#Img_Open), #PB_ToolBar_Toggle, \"Open\")\n"
	doc, _ := parseSrc(t, src)

	tb, ok := doc.ToolBar("ToolBar_0")
	if !ok || len(tb.Entries) != 3 {
		t.Fatalf("toolbar = %+v", tb)
	}
	if tb.Entries[1].Kind != form.ToolBarEntrySeparator {
		t.Errorf("entry 1 = %v", tb.Entries[1].Kind)
	}
	last := tb.Entries[2]
	if last.ButtonIDRaw != "#Tool_Open" || last.ImageExpr != "ImageID(#Img_Open)" ||
		last.ModeExpr != "#PB_ToolBar_Toggle" || last.Text != "Open" {
		t.Errorf("entry 2 = %+v", last)
	}
}

func TestParseListIconColumns(t *testing.T) {
	src := "" +
		"List_0 = ListIconGadget(#PB_Any, 0, 0, 300, 200, \"Name\", 120)\n" +
		"AddGadgetColumn(List_0, 1, \"Size\", 80)\n" +
		"AddGadgetColumn(List_0, -1, \"Date\", 90)\n"
	doc, _ := parseSrc(t, src)

	g, _ := doc.Gadget("List_0")
	if len(g.Columns) != 2 {
		t.Fatalf("columns = %+v", g.Columns)
	}
	if g.Columns[0].Index != 1 || g.Columns[0].Title != "Size" || g.Columns[0].Width != 80 {
		t.Errorf("column 0 = %+v", g.Columns[0])
	}
	// negative position resolves to append
	if g.Columns[1].Index != 1 {
		t.Errorf("column 1 index = %d, want 1 (append after one existing)", g.Columns[1].Index)
	}
}

func TestParseItemAuxFieldsKeptVerbatim(t *testing.T) {
	src := "" +
		"Combo_0 = ComboBoxGadget(#PB_Any, 0, 0, 100, 25)\n" +
		"AddGadgetItem(Combo_0, -1, \"entry\", ImageID(#Img), 2)\n"
	doc, _ := parseSrc(t, src)

	g, _ := doc.Gadget("Combo_0")
	if len(g.Items) != 1 {
		t.Fatalf("items = %+v", g.Items)
	}
	want := []string{"ImageID(#Img)", "2"}
	if diff := cmp.Diff(want, g.Items[0].Aux); diff != "" {
		t.Errorf("aux mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIndexMonotonicity(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("List_0 = ListViewGadget(#PB_Any, 0, 0, 100, 200)\n")
	for i := 0; i < 5; i++ {
		sb.WriteString("AddGadgetItem(List_0, -1, \"row\")\n")
	}
	doc, _ := parseSrc(t, sb.String())

	g, _ := doc.Gadget("List_0")
	for i, it := range g.Items {
		if it.Index != i {
			t.Fatalf("item %d has index %d", i, it.Index)
		}
	}
}
