// Package match implements text normalization, edit distance and the
// answer-correctness evaluator used when a recalled answer is checked
// against the original memo.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/AxM133/memoryloop/internal/domain"
)

// Config holds the matching parameters read on every evaluation.
type Config struct {
	Mode      domain.MatchMode
	Threshold float64
}

// stripMarks decomposes to NFD, drops combining marks and recomposes,
// folding diacritics ("Café" to "Cafe", "ё" to "е").
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases the text, strips diacritics, collapses every run of
// characters outside [a-z0-9] and the Cyrillic alphabet into a single space
// and trims leading/trailing whitespace. It is deterministic and pure, with
// no locale-dependent branching beyond case folding.
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	folded, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		// transform.String only fails on a misbehaving transformer; fall
		// back to the lowered input so matching still works.
		folded = lowered
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := false
	for _, r := range folded {
		if isKept(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}

// isKept reports whether the rune survives normalization as-is.
func isKept(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	default:
		return unicode.Is(unicode.Cyrillic, r)
	}
}

// Distance computes the classic Levenshtein distance between a and b over
// Unicode scalar sequences, not bytes. Substitution, insertion and deletion
// all cost 1. The distance between any string and the empty string equals
// the other string's rune length.
//
// The sweep keeps only two rows of the DP table, so memory is O(min(len)).
func Distance(a, b string) int {
	ar := []rune(a)
	br := []rune(b)

	// Keep the shorter sequence on the row axis.
	if len(ar) < len(br) {
		ar, br = br, ar
	}

	if len(br) == 0 {
		return len(ar)
	}

	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, ac := range ar {
		curr[0] = i + 1
		for j, bc := range br {
			cost := 1
			if ac == bc {
				cost = 0
			}
			curr[j+1] = minOf(
				prev[j+1]+1,  // deletion
				curr[j]+1,    // insertion
				prev[j]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(br)]
}

// Similarity returns a score in [0, 1] for how close the two texts are after
// normalization: 1 - distance/maxLen. If either normalized text is empty the
// score is 0: an empty answer is never "similar" to anything.
func Similarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	if na == "" || nb == "" {
		return 0
	}

	la := len([]rune(na))
	lb := len([]rune(nb))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen < 1 {
		maxLen = 1
	}

	return 1 - float64(Distance(na, nb))/float64(maxLen)
}

// IsMatch reports whether the answer counts as a correct recall of the
// expected memo text.
//
// Numeric memos are special-cased: when both sides contain only decimal
// digits after trimming surrounding whitespace, the trimmed digit strings
// must be exactly equal and the config is ignored entirely; a phone number
// or code is never judged "close enough". Otherwise strict mode compares the
// normalized texts and fuzzy mode accepts a similarity at or above the
// configured threshold.
func IsMatch(answer, expected string, cfg Config) bool {
	ta := strings.TrimSpace(answer)
	te := strings.TrimSpace(expected)

	if isDigitsOnly(ta) && isDigitsOnly(te) {
		return ta == te
	}

	if cfg.Mode == domain.MatchModeStrict {
		return Normalize(answer) == Normalize(expected)
	}

	// A side that normalizes to nothing never matches, even at threshold 0.
	if Normalize(answer) == "" || Normalize(expected) == "" {
		return false
	}

	return Similarity(answer, expected) >= cfg.Threshold
}

// isDigitsOnly reports whether s is non-empty and consists solely of ASCII
// decimal digits.
func isDigitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
