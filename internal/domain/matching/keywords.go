package matching

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const minKeywordLength = 3

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {}, "you": {}, "all": {},
	"any": {}, "can": {}, "had": {}, "her": {}, "was": {}, "one": {}, "our": {}, "out": {},
	"has": {}, "have": {}, "his": {}, "how": {}, "its": {}, "may": {}, "who": {}, "will": {},
	"with": {}, "this": {}, "that": {}, "from": {}, "they": {}, "them": {}, "then": {},
	"than": {}, "there": {}, "their": {}, "these": {}, "those": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "would": {}, "should": {}, "could": {}, "been": {},
	"being": {}, "were": {}, "into": {}, "onto": {}, "about": {}, "over": {}, "under": {},
	"also": {}, "such": {}, "some": {}, "more": {}, "most": {}, "other": {}, "only": {},
	"very": {}, "just": {}, "your": {}, "yours": {}, "ours": {}, "does": {}, "did": {},
	"doing": {}, "each": {}, "both": {}, "few": {}, "own": {}, "same": {}, "too": {},
	"nor": {}, "off": {}, "again": {}, "further": {}, "once": {}, "here": {}, "why": {},
	"because": {}, "until": {}, "against": {}, "between": {}, "through": {}, "during": {},
	"before": {}, "after": {}, "above": {}, "below": {}, "upon": {}, "within": {},
	"without": {}, "she": {}, "him": {}, "himself": {}, "herself": {}, "itself": {},
	"myself": {}, "yourself": {}, "themselves": {}, "ourselves": {}, "whom": {},
}

// normalizeText lowercases s, removes every rune that is not a letter, digit or
// whitespace, and collapses whitespace runs to single spaces.
func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)

	b := strings.Builder{}
	b.Grow(len(s))
	lastWasSpace := false

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			lastWasSpace = false
			continue
		}
		if unicode.IsSpace(r) {
			if b.Len() == 0 || lastWasSpace {
				continue
			}
			b.WriteByte(' ')
			lastWasSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}

// ExtractKeywords returns the set of normalized keyword tokens in text.
func ExtractKeywords(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(normalizeText(text)) {
		if utf8.RuneCountInString(tok) < minKeywordLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}

// KeywordOverlap is the share of reference keywords that also occur in other.
func KeywordOverlap(reference, other map[string]struct{}) float64 {
	if len(reference) == 0 {
		return 0
	}
	shared := 0
	for k := range reference {
		if _, ok := other[k]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(reference))
}

// SkillsOverlap counts candidate skills that match any requirement and returns
// that count over the number of requirements, capped at 1. A skill matches a
// requirement when either contains the other, ignoring case, so "React" and
// "react.js" match but so do "Java" and "JavaScript".
func SkillsOverlap(requirements, skills []string) (int, float64) {
	reqs := lowerNonBlank(requirements)
	have := lowerNonBlank(skills)
	if len(have) == 0 {
		return 0, 0
	}

	matched := 0
	for _, s := range have {
		for _, r := range reqs {
			if strings.Contains(r, s) || strings.Contains(s, r) {
				matched++
				break
			}
		}
	}

	denom := len(reqs)
	if denom < 1 {
		denom = 1
	}
	return matched, clamp01(float64(matched) / float64(denom))
}

func lowerNonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
