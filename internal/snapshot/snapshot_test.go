package snapshot

import (
	"testing"

	"pbform/internal/form"
)

func sampleDoc() *form.FormDocument {
	doc := form.NewDocument()
	doc.Window = &form.FormWindow{
		ID:    "#Main",
		X:     20,
		Y:     20,
		W:     600,
		H:     400,
		Title: "Demo",
	}
	doc.Register(&form.Gadget{ID: "Button_0", Kind: form.KindButton, X: 10, Y: 10, W: 100, H: 25, Text: "OK"})
	doc.Register(&form.Gadget{ID: "Combo_0", Kind: form.KindComboBox, Items: []form.GadgetItem{
		{Index: 0, Text: "First"},
		{Index: 1, Text: "Second"},
	}})
	return doc
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	content := []byte("Window_0 = OpenWindow(#PB_Any, 20, 20, 600, 400, \"Demo\")\n")
	payload := FromDocument(sampleDoc(), HashContent(content))

	data, err := Encode(payload)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}

	if !got.Matches(content) {
		t.Error("decoded payload should match the original content")
	}
	if got.Matches([]byte("something else")) {
		t.Error("payload must not match different content")
	}
	if got.Doc.Window == nil || got.Doc.Window.Title != "Demo" {
		t.Fatalf("window lost in round trip: %+v", got.Doc.Window)
	}

	// Decode rebuilds the identity index.
	g, ok := got.Doc.Gadget("Combo_0")
	if !ok {
		t.Fatal("gadget lookup broken after decode")
	}
	if len(g.Items) != 2 || g.Items[1].Text != "Second" {
		t.Errorf("items = %+v", g.Items)
	}
}

func TestDecodeRejectsSchemaMismatch(t *testing.T) {
	payload := FromDocument(sampleDoc(), Digest{})
	payload.Schema = SchemaVersion + 1

	data, err := Encode(payload)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(data); err == nil {
		t.Fatal("stale schema should not decode")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not msgpack at all")); err == nil {
		t.Fatal("garbage should not decode")
	}
}

func TestCachePutGet(t *testing.T) {
	cache, err := OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	content := []byte("ButtonGadget(0, 1, 2, 3, 4)\n")
	key := HashContent(content)
	if err := cache.Put(FromDocument(sampleDoc(), key)); err != nil {
		t.Fatal(err)
	}

	got, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if !got.Matches(content) {
		t.Error("cached payload does not match its key content")
	}
}

func TestCacheGetMissing(t *testing.T) {
	cache, err := OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, err := cache.Get(HashContent([]byte("never stored"))); ok || err != nil {
		t.Fatalf("missing entry should be a clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestCacheDropAll(t *testing.T) {
	cache, err := OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := HashContent([]byte("x"))
	if err := cache.Put(FromDocument(sampleDoc(), key)); err != nil {
		t.Fatal(err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := cache.Get(key); ok {
		t.Error("entries should be gone after DropAll")
	}
}

func TestNilCacheIsInert(t *testing.T) {
	var cache *Cache
	if err := cache.Put(FromDocument(sampleDoc(), Digest{})); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := cache.Get(Digest{}); ok || err != nil {
		t.Fatalf("nil cache Get = %v, %v", ok, err)
	}
}
