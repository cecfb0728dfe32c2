// Package patch rewrites form source with minimal, text-range-based edits.
// Every operation re-scans the snapshot it is given and locates its target
// by stable identity; nothing from a previous parse is trusted, so stale
// offsets can only ever produce a "no edit" outcome, never a corrupt write.
package patch

import (
	"errors"
	"fmt"
	"sort"

	"pbform/internal/source"
)

// ErrNoEdit is returned when the target statement cannot be found in the
// current text. Callers surface it to the user; it is never a crash.
var ErrNoEdit = errors.New("no applicable edit")

// TextEdit replaces [Span.Start, Span.End) with NewText. OldText, when set,
// is a guard: Apply refuses the edit if the current bytes differ.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Apply performs all edits on content in one transaction and returns the new
// text. Edits are applied right-to-left so earlier spans stay valid; any
// overlap or guard mismatch rejects the whole batch.
func Apply(content []byte, edits []TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return nil, ErrNoEdit
	}

	for i := range edits {
		for j := i + 1; j < len(edits); j++ {
			if spansConflict(edits[i], edits[j]) {
				return nil, fmt.Errorf("edit spans %s and %s overlap",
					edits[i].Span.String(), edits[j].Span.String())
			}
		}
	}

	ordered := append([]TextEdit(nil), edits...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Span.Start == ordered[j].Span.Start {
			return ordered[i].Span.End > ordered[j].Span.End
		}
		return ordered[i].Span.Start > ordered[j].Span.Start
	})

	working := append([]byte(nil), content...)
	for _, edit := range ordered {
		start := int(edit.Span.Start)
		end := int(edit.Span.End)
		if start < 0 || end < start || end > len(working) {
			return nil, fmt.Errorf("edit span %s out of range", edit.Span.String())
		}
		if edit.OldText != "" && string(working[start:end]) != edit.OldText {
			return nil, fmt.Errorf("existing text does not match expected content at %s", edit.Span.String())
		}
		suffix := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], []byte(edit.NewText)...), suffix...)
	}
	return working, nil
}

// spansConflict reports whether two edits' spans overlap. Spans are
// half-open; two zero-length inserts never conflict, and a zero-length
// insert conflicts with a replacement only when it sits strictly inside it.
func spansConflict(a, b TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}
