package supplier

import (
	"log"
	"regexp"
	"strings"

	"pimflow/internal/domain"
)

// Pattern is one fingerprint element: either a literal substring or an
// anchored regular expression, matched case-insensitively against the
// document text.
type Pattern struct {
	Literal string
	Regex   *regexp.Regexp
}

// Literal builds a literal-substring pattern.
func Literal(s string) Pattern {
	return Pattern{Literal: s}
}

// Regex builds a regular-expression pattern. The expression is compiled
// case-insensitively; an invalid expression panics at registration time.
func Regex(expr string) Pattern {
	return Pattern{Regex: regexp.MustCompile("(?i)" + expr)}
}

// Fingerprint identifies one supplier: a small set of patterns expected to
// appear uniquely in that supplier's invoice header or footer.
type Fingerprint struct {
	Code            string
	Patterns        []Pattern
	DefaultCurrency string
}

// matchScore returns the specificity of this fingerprint against text: the
// total length of matched pattern text, and how many patterns matched.
func (f Fingerprint) matchScore(lowerText string) (score, matched int) {
	for _, p := range f.Patterns {
		if p.Regex != nil {
			if m := p.Regex.FindString(lowerText); m != "" {
				score += len(m)
				matched++
			}
			continue
		}
		if strings.Contains(lowerText, strings.ToLower(p.Literal)) {
			score += len(p.Literal)
			matched++
		}
	}
	return score, matched
}

// Detect matches text against the fingerprints in registration order and
// returns the best match. Specificity (total matched pattern length) breaks
// multi-match collisions; an exact specificity tie resolves to the
// first-registered supplier and is logged rather than silently swallowed.
// Detection is deterministic for identical inputs.
func Detect(fingerprints []Fingerprint, text string) domain.SupplierIdentity {
	lower := strings.ToLower(text)

	bestIdx := -1
	bestScore := 0
	bestMatched := 0
	tied := false

	for i, fp := range fingerprints {
		score, matched := fp.matchScore(lower)
		if matched == 0 {
			continue
		}
		if score > bestScore {
			bestIdx, bestScore, bestMatched = i, score, matched
			tied = false
		} else if score == bestScore && bestIdx >= 0 {
			tied = true
		}
	}

	if bestIdx < 0 {
		return domain.SupplierIdentity{Code: "", Confidence: domain.ConfidenceNone}
	}

	winner := fingerprints[bestIdx]
	if tied {
		log.Printf("supplier.Detect: ambiguous fingerprint match (score %d), keeping first-registered %q", bestScore, winner.Code)
	}

	confidence := domain.ConfidenceLow
	if bestMatched == len(winner.Patterns) {
		confidence = domain.ConfidenceHigh
	}
	return domain.SupplierIdentity{Code: winner.Code, Confidence: confidence}
}
