// Package normalize turns the raw text of one candidate record into
// last name, first name and profession.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Convention selects how a record's comma-separated text is split.
type Convention int

const (
	// ConventionComma is "Last, First, Profession[, more profession]".
	ConventionComma Convention = iota
	// ConventionSpace is "Last First, Profession".
	ConventionSpace
	// ConventionAuto decides between comma and space form per record.
	ConventionAuto
	// ConventionNameOnly is "Last, First" with no profession.
	ConventionNameOnly
)

var conventionNames = map[Convention]string{
	ConventionComma:    "comma",
	ConventionSpace:    "space",
	ConventionAuto:     "auto",
	ConventionNameOnly: "name-only",
}

func (c Convention) String() string {
	if s, ok := conventionNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Convention(%d)", int(c))
}

// ParseConvention maps a configuration value to a Convention.
// The empty string selects ConventionComma.
func ParseConvention(s string) (Convention, error) {
	if s == "" {
		return ConventionComma, nil
	}
	for c, name := range conventionNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown name convention %q", s)
}

// Fields is a split candidate record.
type Fields struct {
	LastName   string
	FirstName  string
	Profession string
}

// Record-start words that never begin a first name in the comma form.
var professionPrefixes = []string{"Mitglied", "Dipl", "M.", "B."}

// Split splits raw record text according to conv. It never fails: text
// that does not fit the convention ends up in LastName.
func Split(raw string, conv Convention) Fields {
	s := Clean(raw)
	s = StripNicknames(s)
	s = StripBirth(s)
	s = trimCommas(s)

	title, s := ExtractTitle(s)

	var f Fields
	switch conv {
	case ConventionNameOnly:
		last, first, _ := strings.Cut(s, ",")
		f = Fields{LastName: strings.TrimSpace(last), FirstName: trimCommas(first)}
	case ConventionSpace:
		f = splitSpace(s)
	case ConventionAuto:
		parts := splitCommas(s)
		if len(parts) >= 2 && isCommaForm(parts[0], parts[1]) {
			f = splitComma(parts)
		} else {
			f = splitSpace(s)
		}
	default:
		f = splitComma(splitCommas(s))
	}

	if f.LastName == "" && f.FirstName == "" && f.Profession == "" {
		f.LastName = s
	}
	if title != "" {
		f.LastName = strings.TrimSpace(title + " " + f.LastName)
	}
	return f
}

// SplitName splits a bare "Last First" name on the first space, keeping
// nobility particles with the last name.
func SplitName(name string) (last, first string) {
	tokens := strings.Fields(name)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	}
	n := 0
	for n < len(tokens)-1 && IsParticle(tokens[n]) {
		n++
	}
	return strings.Join(tokens[:n+1], " "), strings.Join(tokens[n+1:], " ")
}

func splitComma(parts []string) Fields {
	switch len(parts) {
	case 0:
		return Fields{}
	case 1:
		return Fields{LastName: parts[0]}
	default:
		return Fields{
			LastName:   parts[0],
			FirstName:  parts[1],
			Profession: strings.Join(parts[2:], ", "),
		}
	}
}

func splitSpace(s string) Fields {
	name, profession, _ := strings.Cut(s, ",")
	last, first := SplitName(name)
	return Fields{LastName: last, FirstName: first, Profession: trimCommas(profession)}
}

// isCommaForm reports whether "first, second, ..." reads as
// "Last, First, Profession" rather than "Last First, Profession".
func isCommaForm(first, second string) bool {
	core := stripLeadingParticles(first)
	if strings.ContainsRune(core, ' ') {
		return false
	}
	r, _ := utf8.DecodeRuneInString(second)
	if !unicode.IsUpper(r) {
		return false
	}
	for _, p := range professionPrefixes {
		if strings.HasPrefix(second, p) {
			return false
		}
	}
	return true
}

func splitCommas(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func trimCommas(s string) string {
	return strings.Trim(strings.TrimSpace(s), ", ")
}

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	birthTail  = regexp.MustCompile(`,?\s*geb\.\s*\d{4}\b.*$`)
	yearTail   = regexp.MustCompile(`,?\s+(1[89]\d{2}|20\d{2})\s*$`)
	parenthese = regexp.MustCompile(`\s*\(\s*[„"“»‚'][^)]*\)`)
	quoted     = regexp.MustCompile(`\s*(?:„[^“”"]*[“”"]|"[^"]*"|»[^«]*«)`)
)

// Clean applies Unicode NFC normalization, drops soft hyphens and
// collapses whitespace.
func Clean(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\u00ad", "")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// StripNicknames removes parenthesised and quoted additions such as
// stage names.
func StripNicknames(s string) string {
	s = parenthese.ReplaceAllString(s, "")
	s = quoted.ReplaceAllString(s, "")
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// StripBirth removes a ", geb. YYYY in Place" suffix and everything after it.
func StripBirth(s string) string {
	return strings.TrimSpace(birthTail.ReplaceAllString(s, ""))
}

// StripTrailingYear removes a trailing four-digit birth year and returns it
// (0 when absent).
func StripTrailingYear(s string) (string, int) {
	m := yearTail.FindStringSubmatchIndex(s)
	if m == nil {
		return s, 0
	}
	year := 0
	for _, r := range s[m[2]:m[3]] {
		year = year*10 + int(r-'0')
	}
	return strings.TrimSpace(s[:m[0]]), year
}

// CollapseRepeats folds runs of three or more identical runes into one.
// Some PDF fonts render every glyph several times over.
func CollapseRepeats(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); {
		j := i + 1
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}
		if j-i >= 3 {
			b.WriteRune(runes[i])
		} else {
			for k := i; k < j; k++ {
				b.WriteRune(runes[k])
			}
		}
		i = j
	}
	return b.String()
}

// JoinWrapped joins a record's physical lines into one string. A line
// ending in a hyphen is glued to the next one: "Stolberg-" + "Wernigerode"
// stays hyphenated, a lowercase continuation loses the break hyphen unless
// it starts with a conjunction ("Bau-" + "und ...").
func JoinWrapped(parts []string) string {
	var b strings.Builder
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(p)
			continue
		}
		prev := b.String()
		if !strings.HasSuffix(prev, "-") {
			b.WriteString(" ")
			b.WriteString(p)
			continue
		}
		r, _ := utf8.DecodeRuneInString(p)
		switch {
		case unicode.IsUpper(r):
			b.WriteString(p)
		case isConjunction(p):
			b.WriteString(" ")
			b.WriteString(p)
		default:
			b.Reset()
			b.WriteString(strings.TrimSuffix(prev, "-"))
			b.WriteString(p)
		}
	}
	return b.String()
}

func isConjunction(s string) bool {
	word, _, _ := strings.Cut(s, " ")
	switch word {
	case "und", "oder", "bzw.", "sowie":
		return true
	}
	return false
}
