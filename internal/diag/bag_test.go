package diag

import (
	"testing"

	"pbform/internal/source"
)

func span(file, start, end uint32) source.Span {
	return source.Span{File: source.FileID(file), Start: start, End: end}
}

func TestBagAddHonorsLimit(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(NewInfo(FormInfo, span(0, 0, 1), "one")) {
		t.Fatal("first add dropped")
	}
	if !bag.Add(NewInfo(FormInfo, span(0, 1, 2), "two")) {
		t.Fatal("second add dropped")
	}
	if bag.Add(NewInfo(FormInfo, span(0, 2, 3), "three")) {
		t.Fatal("add past the limit should report dropped")
	}
	if bag.Len() != 2 {
		t.Errorf("Len = %d, want 2", bag.Len())
	}
}

func TestBagSeverityQueries(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewInfo(FormInfo, span(0, 0, 1), "info"))
	if bag.HasWarnings() || bag.HasErrors() {
		t.Error("info alone should raise nothing")
	}
	bag.Add(NewWarning(FormMissingHeader, span(0, 0, 1), "warn"))
	if !bag.HasWarnings() || bag.HasErrors() {
		t.Error("warning should count as warning only")
	}
	bag.Add(NewError(FormAnonymousNoVar, span(0, 0, 1), "err"))
	if !bag.HasErrors() {
		t.Error("error not detected")
	}
}

func TestBagSortOrder(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewInfo(FormInfo, span(1, 0, 1), "other file"))
	bag.Add(NewInfo(FormInfo, span(0, 50, 51), "late"))
	bag.Add(NewWarning(FormMissingHeader, span(0, 10, 11), "warn at ten"))
	bag.Add(NewError(FormAnonymousNoVar, span(0, 10, 11), "error at ten"))
	bag.Sort()

	items := bag.Items()
	if items[0].Message != "error at ten" {
		t.Errorf("severity should break ties at the same span, got %q first", items[0].Message)
	}
	if items[1].Message != "warn at ten" || items[2].Message != "late" {
		t.Errorf("order = %q, %q", items[1].Message, items[2].Message)
	}
	if items[3].Primary.File != 1 {
		t.Error("file 1 should sort last")
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(8)
	d := NewWarning(FormMissingHeader, span(0, 0, 5), "dup")
	bag.Add(d)
	bag.Add(d)
	bag.Add(NewWarning(FormMissingHeader, span(0, 6, 9), "different span"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Errorf("Len after dedup = %d, want 2", bag.Len())
	}
}

func TestBagMergeGrowsCap(t *testing.T) {
	a := NewBag(1)
	a.Add(NewInfo(FormInfo, span(0, 0, 1), "a"))
	b := NewBag(2)
	b.Add(NewInfo(FormInfo, span(0, 1, 2), "b1"))
	b.Add(NewInfo(FormInfo, span(0, 2, 3), "b2"))

	a.Merge(b)
	if a.Len() != 3 {
		t.Errorf("Len after merge = %d, want 3", a.Len())
	}
	if a.Cap() < 3 {
		t.Errorf("Cap = %d, should grow to fit merged items", a.Cap())
	}
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{FormMissingHeader, "FRM1001"},
		{ScanUnbalancedParens, "SCN2001"},
		{PatchTargetNotFound, "PAT3001"},
		{IOLoadFileError, "IO4001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("ID(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestWithNote(t *testing.T) {
	d := NewError(FormDuplicateIdentity, span(0, 10, 20), "dup").
		WithNote(span(0, 0, 5), "first defined here")
	if len(d.Notes) != 1 || d.Notes[0].Msg != "first defined here" {
		t.Errorf("Notes = %+v", d.Notes)
	}
}
