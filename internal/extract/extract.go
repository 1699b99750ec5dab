// Package extract classifies the text lines of an official announcement and
// groups them into raw candidate records, one per ballot position.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jackzampolin/wahlzettel/internal/normalize"
)

// Kind is the classification of one text line.
type Kind int

const (
	KindNoise Kind = iota
	KindPartyHeader
	KindCandidate
	KindContinuation
	KindStop
)

func (k Kind) String() string {
	switch k {
	case KindPartyHeader:
		return "party-header"
	case KindCandidate:
		return "candidate"
	case KindContinuation:
		return "continuation"
	case KindStop:
		return "stop"
	default:
		return "noise"
	}
}

// NumberScheme describes what the leading number of a candidate line means.
type NumberScheme int

const (
	// SchemePlain numbers candidates 1..N within the current list.
	SchemePlain NumberScheme = iota
	// SchemeComposite prints list*100+position; the list comes from the
	// preceding header.
	SchemeComposite
	// SchemeSelfNumbered prints list*100+position and has no usable
	// headers; the list is decoded from the number.
	SchemeSelfNumbered
)

// YearMode controls the trailing birth year on candidate lines.
type YearMode int

const (
	YearNone YearMode = iota
	YearOptional
	YearRequired
)

// Rules configure the extractor for one document layout.
type Rules struct {
	// PartyHeader matches a list header; the first group is the list number.
	PartyHeader *regexp.Regexp
	// Start, when set, skips everything up to and including the first
	// matching line.
	Start *regexp.Regexp
	// Stop ends extraction at the first matching line.
	Stop *regexp.Regexp
	// Noise lines are dropped in addition to DefaultNoise.
	Noise []*regexp.Regexp

	Scheme NumberScheme
	Year   YearMode

	// MaxContinuations caps the continuation lines per record.
	// Zero means unlimited, a negative value disables continuations.
	MaxContinuations int
	// EndMarkers close a record once a line containing one was appended.
	EndMarkers []string
	// MaxList stops extraction at a header beyond this list number and
	// rejects self-numbered candidates beyond it. Zero disables the check.
	MaxList int
	// CleanArtifacts collapses repeated-glyph rendering artifacts first.
	CleanArtifacts bool
	// List is the list in effect before the first header, for documents
	// that cover a single party.
	List int
}

// Record is one raw candidate entry.
type Record struct {
	List          int
	Position      int
	Number        int
	Text          string
	BirthYear     int
	Continuations []string
	Line          int
}

// Result is the outcome of one extraction pass.
type Result struct {
	Records []Record
	// Headers holds the non-candidate lines between a list header and its
	// first candidate, usually the party's full and short name.
	Headers map[int][]string
	// Titles holds the first header line seen for each list.
	Titles map[int]string
	// Lists are the list numbers in the order their headers appeared.
	Lists      []int
	Duplicates int
	Stopped    bool
}

// DefaultNoise matches running headers, page numbers and column headings
// found in every announcement layout.
var DefaultNoise = []*regexp.Regexp{
	regexp.MustCompile(`^Seite\s+\d+`),
	regexp.MustCompile(`^-?\s*\d{1,3}\s*-?$`),
	regexp.MustCompile(`^(?:Lfd\.|Lfd\b|Familienname|Beruf oder|Name, Vorname|Nr\.\s*$)`),
	regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}\s*/\s*Nr`),
}

// A dotted number ("1. Vorsitzender") is an ordinal inside a profession,
// never a ballot position.
var candidateLine = regexp.MustCompile(`^([a-z]?)(\d{1,4})\s+(.+)$`)

// ParseCandidate reports whether line opens a candidate record under rules
// and returns its number, text and birth year.
func ParseCandidate(line string, rules Rules) (number int, text string, year int, ok bool) {
	m := candidateLine.FindStringSubmatch(line)
	if m == nil {
		return 0, "", 0, false
	}
	if m[1] != "" && rules.Scheme != SchemeSelfNumbered {
		return 0, "", 0, false
	}
	number, _ = strconv.Atoi(m[2])
	switch rules.Scheme {
	case SchemePlain:
		if number < 1 || len(m[2]) > 3 {
			return 0, "", 0, false
		}
	default:
		if number < 100 {
			return 0, "", 0, false
		}
	}

	text = strings.TrimSpace(m[3])
	if rules.Year != YearNone {
		text, year = normalize.StripTrailingYear(text)
		if rules.Year == YearRequired && year == 0 {
			return 0, "", 0, false
		}
	}
	if !normalize.LooksLikeName(text) {
		return 0, "", 0, false
	}
	return number, text, year, true
}

// Classify returns the kind of a single line, ignoring record state.
func Classify(line string, rules Rules) Kind {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return KindNoise
	case rules.Stop != nil && rules.Stop.MatchString(line):
		return KindStop
	case rules.PartyHeader != nil && rules.PartyHeader.MatchString(line):
		return KindPartyHeader
	case isNoise(line, rules):
		return KindNoise
	}
	if _, _, _, ok := ParseCandidate(line, rules); ok {
		return KindCandidate
	}
	return KindContinuation
}

// Extract walks lines in reading order and returns the candidate records.
// The current list carries across page boundaries until the next header,
// and a repeated (list, position) pair is dropped.
func Extract(lines []string, rules Rules) Result {
	res := Result{Headers: make(map[int][]string), Titles: make(map[int]string)}
	seen := make(map[[2]int]bool)
	list := rules.List
	cur := -1
	inHeader := false
	started := rules.Start == nil
	if list > 0 {
		res.Lists = append(res.Lists, list)
		res.Headers[list] = nil
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if rules.CleanArtifacts {
			line = normalize.CollapseRepeats(line)
		}
		if line == "" {
			continue
		}
		if !started {
			started = rules.Start.MatchString(line)
			continue
		}

		switch Classify(line, rules) {
		case KindStop:
			res.Stopped = true
			return res

		case KindNoise:
			continue

		case KindPartyHeader:
			n := headerNumber(rules.PartyHeader, line)
			if rules.MaxList > 0 && n > rules.MaxList {
				res.Stopped = true
				return res
			}
			if n != list {
				list = n
				_, known := res.Headers[n]
				inHeader = !known
				if !known {
					res.Lists = append(res.Lists, n)
					res.Headers[n] = nil
					res.Titles[n] = line
				}
			}
			cur = -1

		case KindCandidate:
			number, text, year, _ := ParseCandidate(line, rules)
			recList, pos := list, number
			switch rules.Scheme {
			case SchemeComposite:
				pos = CompositePosition(number)
			case SchemeSelfNumbered:
				recList, pos = DecodeComposite(number)
				if rules.MaxList > 0 && recList > rules.MaxList {
					cur = -1
					continue
				}
			}
			if recList == 0 {
				cur = -1
				continue
			}

			key := [2]int{recList, pos}
			if seen[key] {
				res.Duplicates++
				cur = -1
				continue
			}
			seen[key] = true
			inHeader = false

			res.Records = append(res.Records, Record{
				List:      recList,
				Position:  pos,
				Number:    number,
				Text:      text,
				BirthYear: year,
				Line:      i + 1,
			})
			cur = len(res.Records) - 1
			if hasMarker(text, rules.EndMarkers) {
				cur = -1
			}

		case KindContinuation:
			if cur < 0 {
				if inHeader && list > 0 {
					res.Headers[list] = append(res.Headers[list], line)
				}
				continue
			}
			rec := &res.Records[cur]
			if rules.MaxContinuations < 0 ||
				(rules.MaxContinuations > 0 && len(rec.Continuations) >= rules.MaxContinuations) {
				cur = -1
				continue
			}
			rec.Continuations = append(rec.Continuations, line)
			if hasMarker(line, rules.EndMarkers) {
				cur = -1
			}
		}
	}
	return res
}

// FullText joins the record's text with its continuation lines.
func (r Record) FullText() string {
	return normalize.JoinWrapped(append([]string{r.Text}, r.Continuations...))
}

// CompositePosition returns the ballot position encoded in a composite
// candidate number: the last two digits, where 00 means position 100.
func CompositePosition(n int) int {
	pos := n % 100
	if pos == 0 {
		return 100
	}
	return pos
}

// DecodeComposite splits a composite number into list and position.
// 1203 is list 12 position 3; 1200 is list 11 position 100.
func DecodeComposite(n int) (list, position int) {
	position = CompositePosition(n)
	list = n / 100
	if n%100 == 0 {
		list--
	}
	return list, position
}

func headerNumber(re *regexp.Regexp, line string) int {
	m := re.FindStringSubmatch(line)
	if len(m) < 2 {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func isNoise(line string, rules Rules) bool {
	for _, re := range DefaultNoise {
		if re.MatchString(line) {
			return true
		}
	}
	for _, re := range rules.Noise {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func hasMarker(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
