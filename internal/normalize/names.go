package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lowercase name particles that may open a family name.
var particles = map[string]bool{
	"von": true, "van": true, "de": true, "della": true, "del": true,
	"di": true, "da": true, "zu": true, "vom": true, "zum": true,
	"zur": true, "der": true, "den": true, "dem": true, "ten": true,
	"ter": true, "la": true, "le": true, "el": true, "al": true,
}

// IsParticle reports whether word is a lowercase name particle such as
// "von" or "della".
func IsParticle(word string) bool {
	return particles[word]
}

func stripLeadingParticles(s string) string {
	tokens := strings.Fields(s)
	i := 0
	for i < len(tokens)-1 && IsParticle(tokens[i]) {
		i++
	}
	return strings.Join(tokens[i:], " ")
}

// Academic titles printed in front of the family name, e.g. "Dr.",
// "Prof. Dr. med.", "apl. Prof. Dr.", "Dr. rer. nat. habil.".
var titlePattern = regexp.MustCompile(
	`^(?:apl\.\s*)?(?:Prof\.\s*)?(?:Dr\.(?:\s*(?:med|phil|jur|rer|nat|pol|oec|Ing|dent|vet|h\.\s*c)\.)*\s*)*(?:habil\.\s*)?`)

// ExtractTitle splits a leading academic title from s.
func ExtractTitle(s string) (title, rest string) {
	loc := titlePattern.FindStringIndex(s)
	if loc == nil || loc[1] == 0 {
		return "", s
	}
	title = strings.TrimSpace(s[:loc[1]])
	if !strings.Contains(title, "Dr.") && !strings.Contains(title, "Prof.") {
		return "", s
	}
	return spaceRun.ReplaceAllString(title, " "), strings.TrimSpace(s[loc[1]:])
}

// LooksLikeName reports whether s can open a candidate record: an
// uppercase letter, an academic title, or lowercase particles followed by
// an uppercase word.
func LooksLikeName(s string) bool {
	if s == "" {
		return false
	}
	if title, _ := ExtractTitle(s); title != "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	if unicode.IsUpper(r) {
		return true
	}
	tokens := strings.Fields(s)
	i := 0
	for i < len(tokens) && IsParticle(tokens[i]) {
		i++
	}
	if i == 0 || i == len(tokens) {
		return false
	}
	r, _ = utf8.DecodeRuneInString(tokens[i])
	return unicode.IsUpper(r)
}
