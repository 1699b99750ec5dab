package extract

import (
	"regexp"
	"strings"
)

var (
	numberYearLine = regexp.MustCompile(`^(\d{3,4})\s+(\d{4})$`)
	numberedStart  = regexp.MustCompile(`^\d{3,4}\s`)
	inlineNumber   = regexp.MustCompile(`(?:^|\s)(\d{3,4})\s+\p{Lu}`)
)

// LiftNumberBelow folds layouts that print the composite number and birth
// year on the line below the name:
//
//	Hintersberger Ruth, M.A., Leiterin Akademie für
//	103 1984
//
// becomes "103 Hintersberger Ruth, M.A., Leiterin Akademie für 1984".
// Lines for which skip returns true are never lifted.
func LiftNumberBelow(lines []string, skip func(string) bool) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if i+1 < len(lines) && line != "" && !numberedStart.MatchString(line) && (skip == nil || !skip(line)) {
			if m := numberYearLine.FindStringSubmatch(strings.TrimSpace(lines[i+1])); m != nil {
				out = append(out, m[1]+" "+line+" "+m[2])
				i++
				continue
			}
		}
		out = append(out, lines[i])
	}
	return out
}

// SplitInline breaks a line holding several "NNN Name, First" entries, as
// produced by OCR of multi-column ballot sheets, into one line per entry.
func SplitInline(line string) []string {
	idx := inlineNumber.FindAllStringSubmatchIndex(line, -1)
	if len(idx) < 2 {
		return []string{line}
	}
	out := make([]string, 0, len(idx))
	for i, m := range idx {
		end := len(line)
		if i+1 < len(idx) {
			end = idx[i+1][2]
		}
		out = append(out, strings.TrimSpace(line[m[2]:end]))
	}
	if lead := strings.TrimSpace(line[:idx[0][2]]); lead != "" {
		out = append([]string{lead}, out...)
	}
	return out
}

// SplitAllInline applies SplitInline to every line.
func SplitAllInline(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, SplitInline(l)...)
	}
	return out
}
