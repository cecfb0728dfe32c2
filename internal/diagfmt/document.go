package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"pbform/internal/form"
)

// DumpDocument renders a parsed document as an indented text tree: the
// window, gadgets nested under their containers, then menu, toolbar and
// statusbar sections in source order.
func DumpDocument(w io.Writer, doc *form.FormDocument, useColor bool) {
	head := color.New(color.Bold)
	id := color.New(color.FgCyan)
	if !useColor {
		head.DisableColor()
		id.DisableColor()
	}

	if doc.Meta.HeaderVersion != "" {
		fmt.Fprintf(w, "%s %s\n", head.Sprint("form designer"), doc.Meta.HeaderVersion)
	}

	if doc.Window != nil {
		win := doc.Window
		fmt.Fprintf(w, "%s %s  %d,%d %dx%d %q\n",
			head.Sprint("window"), id.Sprint(win.ID), win.X, win.Y, win.W, win.H, win.Title)
	}

	byParent := make(map[string][]*form.Gadget)
	for _, g := range doc.Gadgets {
		byParent[g.ParentID] = append(byParent[g.ParentID], g)
	}
	dumpGadgets(w, byParent, "", 1, head, id)

	for _, m := range doc.Menus {
		fmt.Fprintf(w, "%s %s\n", head.Sprint("menu"), id.Sprint(m.ID))
		for _, e := range m.Entries {
			indent := strings.Repeat("  ", e.Level+1)
			switch e.Kind {
			case form.MenuEntryBar:
				fmt.Fprintf(w, "%s---\n", indent)
			case form.MenuEntryCloseSub:
				// closing marker carries no text
			default:
				fmt.Fprintf(w, "%s%s %q\n", indent, strings.ToLower(e.Kind.String()), e.Text)
			}
		}
	}

	for _, tb := range doc.ToolBars {
		fmt.Fprintf(w, "%s %s\n", head.Sprint("toolbar"), id.Sprint(tb.ID))
		for _, e := range tb.Entries {
			if e.Kind == form.ToolBarEntrySeparator {
				fmt.Fprintf(w, "  ---\n")
				continue
			}
			fmt.Fprintf(w, "  button %s image=%s\n", e.ButtonIDRaw, e.ImageExpr)
		}
	}

	for _, sb := range doc.StatusBars {
		fmt.Fprintf(w, "%s %s\n", head.Sprint("statusbar"), id.Sprint(sb.ID))
		for _, f := range sb.Fields {
			fmt.Fprintf(w, "  field %d width=%d %q\n", f.Index, f.Width, f.Text)
		}
	}

	if n := len(doc.Meta.Issues); n > 0 {
		fmt.Fprintf(w, "%s %d\n", head.Sprint("issues"), n)
	}
}

func dumpGadgets(w io.Writer, byParent map[string][]*form.Gadget, parent string, depth int, head, id *color.Color) {
	for _, g := range byParent[parent] {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(w, "%s%s %s  %d,%d %dx%d", indent, head.Sprint(string(g.Kind)), id.Sprint(g.ID), g.X, g.Y, g.W, g.H)
		if g.Text != "" {
			fmt.Fprintf(w, " %q", g.Text)
		}
		if g.ParentItem >= 0 {
			fmt.Fprintf(w, " tab=%d", g.ParentItem)
		}
		fmt.Fprintln(w)
		for _, it := range g.Items {
			fmt.Fprintf(w, "%s  item %d %q\n", indent, it.Index, it.Text)
		}
		for _, col := range g.Columns {
			fmt.Fprintf(w, "%s  column %d %q width=%d\n", indent, col.Index, col.Title, col.Width)
		}
		if g.ID != "" {
			dumpGadgets(w, byParent, g.ID, depth+1, head, id)
		}
	}
}

// DocumentJSON writes the whole document as JSON. The form model is already
// JSON-shaped; only unexported indexes are absent from the output.
func DocumentJSON(w io.Writer, doc *form.FormDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
