package source

import (
	"path/filepath"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// normalizeCRLF replaces every \r\n with \n, leaving lone \r untouched.
// Returns the new slice and whether any replacement happened.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// decodeLegacy converts non-UTF-8 content from Windows-1252. Old IDE versions
// saved form files in the system ANSI codepage.
func decodeLegacy(content []byte) ([]byte, bool) {
	if utf8.Valid(content) {
		return content, false
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(content)
	if err != nil {
		// Windows-1252 maps every byte; treat failure as "keep raw".
		return content, false
	}
	return decoded, true
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/16)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// toLineCol maps a byte offset to 1-based line/column. lineIdx holds the
// offsets of '\n' bytes; an offset pointing at a newline counts as the last
// column of the line it terminates.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// binary search: largest lineIdx[i] < off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	if hi < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	startOff := lineIdx[hi] + 1
	return LineCol{Line: uint32(hi + 2), Col: off - startOff + 1}
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath resolves p to an absolute, cleaned path.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// RelativePath expresses p relative to baseDir.
func RelativePath(p, baseDir string) (string, error) {
	return filepath.Rel(baseDir, p)
}

// BaseName returns the final path element.
func BaseName(p string) string {
	return filepath.Base(p)
}
