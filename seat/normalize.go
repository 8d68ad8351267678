package seat

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	newlines       = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
	repeatedCommas = regexp.MustCompile(`,(?:[\s\v\p{Z}]*,)+`)
	whitespaceRuns = regexp.MustCompile(`[\s\v\p{Z}]+`)
	spaceBefore    = regexp.MustCompile(` +,`)
	spaceAfter     = regexp.MustCompile(`, *`)
)

// CleanText tidies free text from the allocation exports: NFKC-normalizes,
// turns newlines into spaces, collapses repeated commas and whitespace runs,
// removes space before commas, puts exactly one space after each comma and
// trims the ends. CleanText(CleanText(s)) == CleanText(s).
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	s = newlines.Replace(s)
	s = repeatedCommas.ReplaceAllString(s, ",")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	s = spaceBefore.ReplaceAllString(s, ",")
	s = spaceAfter.ReplaceAllString(s, ", ")
	return strings.TrimSpace(s)
}

// CleanValue cleans v; an absent value becomes the empty string so that
// downstream grouping sees an empty bucket instead of a missing key.
func CleanValue(v Value) string {
	if !v.Valid {
		return ""
	}
	return CleanText(v.S)
}

// TitleKey returns the title-cased comparison key for already-cleaned text.
func TitleKey(s string) string {
	// A Caser keeps state between calls, so build one per use.
	return cases.Title(language.Und).String(s)
}

// NormalizedAllocation is an Allocation with cleaned institute and course
// text plus their title-cased keys. The cleaned text replaces the raw text;
// the keys are written alongside it.
type NormalizedAllocation struct {
	Allocation
	Institute           string
	Course              string
	InstituteNormalized string
	CourseNormalized    string
}

// Normalize cleans institute and course on every allocation.
func Normalize(allocs []Allocation) []NormalizedAllocation {
	out := make([]NormalizedAllocation, len(allocs))
	for i, a := range allocs {
		inst := CleanValue(a.Institute)
		course := CleanValue(a.Course)
		out[i] = NormalizedAllocation{
			Allocation:          a,
			Institute:           inst,
			Course:              course,
			InstituteNormalized: TitleKey(inst),
			CourseNormalized:    TitleKey(course),
		}
	}
	return out
}
