package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pbform/internal/snapshot"
	"pbform/internal/source"
)

const goodForm = `; Form Designer for PureBasic - 6.02
; Warning: manual modifications may be lost
OpenWindow(#Main, 10, 10, 400, 300, "Demo")
ButtonGadget(#Button_0, 10, 10, 80, 24, "OK")
; IDE Options = PureBasic 6.02
`

const badForm = `OpenWindow(#Main, 0, 0, 100, 100, "x")
TextGadget(#PB_Any, 0, 0, 10, 10, "orphan")
`

func writeForm(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseBytes(t *testing.T) {
	doc, bag := ParseBytes([]byte(goodForm), 16)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if doc.Window == nil || doc.Window.ID != "#Main" {
		t.Fatalf("window = %+v", doc.Window)
	}
	if _, ok := doc.Gadget("#Button_0"); !ok {
		t.Fatal("gadget not registered")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := writeForm(t, dir, "demo.pbf", goodForm)

	fs := source.NewFileSet()
	result, err := ParseFile(fs, path, 16)
	if err != nil {
		t.Fatal(err)
	}
	if result.Doc.Window == nil {
		t.Fatal("document empty")
	}
	if result.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Bag.Items())
	}
}

func TestParseFileCached(t *testing.T) {
	dir := t.TempDir()
	path := writeForm(t, dir, "demo.pbf", badForm)
	cache, err := snapshot.OpenCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	first, err := ParseFileCached(source.NewFileSet(), path, 16, cache)
	if err != nil {
		t.Fatal(err)
	}
	// second run hits the cache and must replay the stored issues
	second, err := ParseFileCached(source.NewFileSet(), path, 16, cache)
	if err != nil {
		t.Fatal(err)
	}
	if second.Bag.Len() != first.Bag.Len() {
		t.Fatalf("cached issues = %d, want %d", second.Bag.Len(), first.Bag.Len())
	}
	if !second.Bag.HasErrors() {
		t.Fatal("anonymous gadget error lost on cache hit")
	}
	if second.Doc.Window == nil || second.Doc.Window.ID != "#Main" {
		t.Fatalf("cached window = %+v", second.Doc.Window)
	}
}

func TestListFormFiles(t *testing.T) {
	dir := t.TempDir()
	writeForm(t, dir, "b.pbf", goodForm)
	writeForm(t, dir, "a.pbf", goodForm)
	writeForm(t, dir, "readme.txt", "not a form")
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeForm(t, sub, "c.pbf", goodForm)

	files, err := ListFormFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %v", files)
	}
	if filepath.Base(files[0]) != "a.pbf" {
		t.Errorf("not sorted: %v", files)
	}
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	writeForm(t, dir, "good.pbf", goodForm)
	writeForm(t, dir, "bad.pbf", badForm)

	ch := make(chan Event, 64)
	_, results, err := CheckDir(context.Background(), dir, 16, 1, ChannelSink{Ch: ch})
	if err != nil {
		t.Fatal(err)
	}
	close(ch)
	events := make([]Event, 0, 16)
	for ev := range ch {
		events = append(events, ev)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}

	// deterministic path order: bad.pbf sorts first
	if filepath.Base(results[0].Path) != "bad.pbf" {
		t.Fatalf("order: %s first", results[0].Path)
	}
	if !results[0].Bag.HasErrors() {
		t.Error("bad.pbf should report the anonymous-gadget error")
	}
	if results[1].Bag.HasErrors() {
		t.Errorf("good.pbf errors: %v", results[1].Bag.Items())
	}

	sawDone, sawError := false, false
	for _, ev := range events {
		if ev.Status == StatusDone {
			sawDone = true
		}
		if ev.Status == StatusError {
			sawError = true
		}
	}
	if !sawDone || !sawError {
		t.Errorf("event stream incomplete: done=%v error=%v", sawDone, sawError)
	}
}

func TestCheckDirEmpty(t *testing.T) {
	_, results, err := CheckDir(context.Background(), t.TempDir(), 16, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("results = %d, want 0", len(results))
	}
}
