package args

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitParams(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "simple fields",
			raw:      "#PB_Any, 10, 20, 80, 24",
			expected: []string{"#PB_Any", " 10", " 20", " 80", " 24"},
		},
		{
			name:     "comma inside string",
			raw:      `0, "Hello, world"`,
			expected: []string{"0", ` "Hello, world"`},
		},
		{
			name:     "comma inside nested call",
			raw:      "0, WindowID(#Window_0), Max(1, 2)",
			expected: []string{"0", " WindowID(#Window_0)", " Max(1, 2)"},
		},
		{
			name:     "empty input",
			raw:      "",
			expected: nil,
		},
		{
			name:     "single field",
			raw:      "#PB_Any",
			expected: []string{"#PB_Any"},
		},
		{
			name:     "trailing empty field",
			raw:      "1,",
			expected: []string{"1", ""},
		},
		{
			name:     "paren inside string does not change depth",
			raw:      `"a (", 2`,
			expected: []string{`"a ("`, " 2"},
		},
		{
			name:     "flags expression with ors",
			raw:      `#PB_Any, 0, 0, 600, 400, "Title", #PB_Window_SystemMenu | #PB_Window_ScreenCentered`,
			expected: []string{"#PB_Any", " 0", " 0", " 600", " 400", ` "Title"`, " #PB_Window_SystemMenu | #PB_Window_ScreenCentered"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitParams(tt.raw)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("SplitParams() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "plain literal", raw: `"OK"`, expected: "OK"},
		{name: "doubled quotes", raw: `"say ""hi"""`, expected: `say "hi"`},
		{name: "surrounding spaces", raw: ` "OK" `, expected: "OK"},
		{name: "not a literal", raw: "Title$", expected: "Title$"},
		{name: "empty literal", raw: `""`, expected: ""},
		{name: "lone quote", raw: `"`, expected: `"`},
		{name: "empty input", raw: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unquote(tt.raw); got != tt.expected {
				t.Errorf("Unquote(%q) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestAsNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
		ok       bool
	}{
		{name: "integer", raw: "42", expected: 42, ok: true},
		{name: "negative", raw: " -7 ", expected: -7, ok: true},
		{name: "decimal", raw: "3.5", expected: 3.5, ok: true},
		{name: "expression", raw: "x + 1", ok: false},
		{name: "constant", raw: "#PB_Any", ok: false},
		{name: "empty", raw: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsNumber(tt.raw)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("AsNumber(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestAsIntTruncates(t *testing.T) {
	if got, ok := AsInt("24.9"); !ok || got != 24 {
		t.Errorf("AsInt(24.9) = (%d, %v), want (24, true)", got, ok)
	}
	if got, ok := AsInt("-24.9"); !ok || got != -24 {
		t.Errorf("AsInt(-24.9) = (%d, %v), want (-24, true)", got, ok)
	}
}
