package source

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddVirtualAndResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("form.pbf", []byte("abc\ndef\nghi"))

	tests := []struct {
		name string
		span Span
		want LineCol
	}{
		{"start of file", Span{File: id, Start: 0, End: 1}, LineCol{Line: 1, Col: 1}},
		{"middle of first line", Span{File: id, Start: 2, End: 3}, LineCol{Line: 1, Col: 3}},
		{"start of second line", Span{File: id, Start: 4, End: 5}, LineCol{Line: 2, Col: 1}},
		{"last line", Span{File: id, Start: 9, End: 10}, LineCol{Line: 3, Col: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := fs.Resolve(tt.span)
			if start != tt.want {
				t.Errorf("Resolve(%v) start = %+v, want %+v", tt.span, start, tt.want)
			}
		})
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("form.pbf", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestNormalizeCRLF(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		want        string
		wantChanged bool
	}{
		{"plain", "a\nb\n", "a\nb\n", false},
		{"crlf", "a\r\nb\r\n", "a\nb\n", true},
		{"lone cr kept", "a\rb\n", "a\rb\n", false},
		{"mixed", "a\r\nb\nc\r\n", "a\nb\nc\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := normalizeCRLF([]byte(tt.in))
			if string(got) != tt.want || changed != tt.wantChanged {
				t.Errorf("normalizeCRLF(%q) = %q, %v; want %q, %v",
					tt.in, got, changed, tt.want, tt.wantChanged)
			}
		})
	}
}

func TestRemoveBOM(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("x = 1")...)
	got, had := removeBOM(withBOM)
	if !had || string(got) != "x = 1" {
		t.Errorf("removeBOM = %q, %v", got, had)
	}

	got, had = removeBOM([]byte("x = 1"))
	if had || string(got) != "x = 1" {
		t.Errorf("removeBOM without marker = %q, %v", got, had)
	}
}

func TestDecodeLegacy(t *testing.T) {
	// 0xE9 is 'é' in Windows-1252 and invalid as a standalone UTF-8 byte.
	got, decoded := decodeLegacy([]byte{'c', 'a', 'f', 0xE9})
	if !decoded || string(got) != "café" {
		t.Errorf("decodeLegacy = %q, %v", got, decoded)
	}

	got, decoded = decodeLegacy([]byte("café"))
	if decoded || string(got) != "café" {
		t.Errorf("valid UTF-8 should pass through, got %q, %v", got, decoded)
	}
}

func TestBuildLineIndex(t *testing.T) {
	got := buildLineIndex([]byte("ab\nc\n\nd"))
	want := []uint32{2, 4, 5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("line index mismatch (-want +got):\n%s", diff)
	}
}

func TestSpanCoverAndContains(t *testing.T) {
	a := Span{File: 0, Start: 4, End: 10}
	b := Span{File: 0, Start: 2, End: 6}

	cover := a.Cover(b)
	if cover.Start != 2 || cover.End != 10 {
		t.Errorf("Cover = %v", cover)
	}

	other := Span{File: 1, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover across files should keep the receiver, got %v", got)
	}

	if !a.Contains(4) || a.Contains(10) {
		t.Error("Contains should include Start and exclude End")
	}
}

func TestGetByPathTracksLatest(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("dir/form.pbf", []byte("old"))
	second := fs.AddVirtual("dir/form.pbf", []byte("new"))

	f, ok := fs.GetByPath("dir/form.pbf")
	if !ok {
		t.Fatal("path not found")
	}
	if f.ID != second || string(f.Content) != "new" {
		t.Errorf("GetByPath returned ID %d content %q, want latest", f.ID, f.Content)
	}
}
