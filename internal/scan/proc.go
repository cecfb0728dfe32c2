package scan

import (
	"regexp"
	"strings"

	"pbform/internal/args"
)

var (
	procHeadRe = regexp.MustCompile(`^[ \t]*Procedure(?:\.[A-Za-z0-9_]+)?[ \t]+([A-Za-z_][A-Za-z0-9_]*)[ \t]*\((.*)\)[ \t]*\r?$`)
	procEndRe  = regexp.MustCompile(`^[ \t]*EndProcedure\b`)
)

// ProcParam is one declared parameter of a procedure header: its bare name
// (type suffix stripped) and its raw default value, if any.
type ProcParam struct {
	Name    string
	Default string
}

// ProcDecl is a parsed procedure header.
type ProcDecl struct {
	Name      string
	Params    []ProcParam
	Line      uint32
	LineStart uint32
}

// EnclosingProcedure scans upward from the line containing off to the
// nearest procedure header. An intervening EndProcedure means off is not
// inside a declaration and the lookup fails.
func EnclosingProcedure(content []byte, off int) (ProcDecl, bool) {
	if off > len(content) {
		off = len(content)
	}
	lineStart := lineStartAt(content, off)

	for {
		lineEnd := lineStart
		for lineEnd < len(content) && content[lineEnd] != '\n' {
			lineEnd++
		}
		text := string(content[lineStart:lineEnd])

		if m := procHeadRe.FindStringSubmatch(text); m != nil {
			return ProcDecl{
				Name:      m[1],
				Params:    parseProcParams(m[2]),
				Line:      countLines(content[:lineStart]),
				LineStart: toU32(lineStart),
			}, true
		}
		if procEndRe.MatchString(text) {
			return ProcDecl{}, false
		}

		if lineStart == 0 {
			return ProcDecl{}, false
		}
		lineStart = lineStartAt(content, lineStart-1)
	}
}

// DefaultFor resolves a parameter default by case-insensitive name match.
func (p ProcDecl) DefaultFor(name string) (string, bool) {
	for _, param := range p.Params {
		if strings.EqualFold(param.Name, name) && param.Default != "" {
			return param.Default, true
		}
	}
	return "", false
}

func parseProcParams(raw string) []ProcParam {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	fields := args.SplitParams(raw)
	params := make([]ProcParam, 0, len(fields))
	for _, f := range fields {
		name, def, hasDefault := strings.Cut(f, "=")
		name = strings.TrimSpace(name)
		// drop a `.i`-style type suffix
		if dot := strings.IndexByte(name, '.'); dot >= 0 {
			name = name[:dot]
		}
		p := ProcParam{Name: name}
		if hasDefault {
			p.Default = strings.TrimSpace(def)
		}
		params = append(params, p)
	}
	return params
}
