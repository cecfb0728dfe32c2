package diag

import (
	"fmt"
)

type Code uint16

const (
	// Unknown bucket for anything unexpected
	UnknownCode Code = 0

	// Form structure
	FormInfo                  Code = 1000
	FormMissingHeader         Code = 1001
	FormMissingVersionWarning Code = 1002
	FormAnonymousNoVar        Code = 1003
	FormDuplicateIdentity     Code = 1004
	FormUnknownContainer      Code = 1005
	FormEntryOutsideSection   Code = 1006
	FormWindowRedefined       Code = 1007

	// Scanning
	ScanInfo               Code = 2000
	ScanUnbalancedParens   Code = 2001
	ScanUnterminatedString Code = 2002
	ScanBadEnumValue       Code = 2003

	// Patching
	PatchInfo           Code = 3000
	PatchTargetNotFound Code = 3001
	PatchStaleLine      Code = 3002
	PatchReadOnlyTarget Code = 3003
	PatchGuardMismatch  Code = 3004
	PatchSpanConflict   Code = 3005

	// I/O
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	FormInfo:                  "Form information",
	FormMissingHeader:         "Missing form designer header comment",
	FormMissingVersionWarning: "Missing generated-code warning comment",
	FormAnonymousNoVar:        "#PB_Any identity without assignment",
	FormDuplicateIdentity:     "Duplicate identity key",
	FormUnknownContainer:      "OpenGadgetList references unknown gadget",
	FormEntryOutsideSection:   "Entry statement outside any open section",
	FormWindowRedefined:       "More than one OpenWindow in scan range",
	ScanInfo:                  "Scan information",
	ScanUnbalancedParens:      "Unbalanced parentheses in statement",
	ScanUnterminatedString:    "Unterminated string literal",
	ScanBadEnumValue:          "Unparseable enumeration value",
	PatchInfo:                 "Patch information",
	PatchTargetNotFound:       "Patch target statement not found",
	PatchStaleLine:            "Statement at recorded line no longer matches",
	PatchReadOnlyTarget:       "Target has no stable identity and is read-only",
	PatchGuardMismatch:        "Existing text does not match expected content",
	PatchSpanConflict:         "Edit spans overlap",
	IOLoadFileError:           "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("FRM%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SCN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("PAT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
