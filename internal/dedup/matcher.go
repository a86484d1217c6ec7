package dedup

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// personThreshold: similarity strictly above it counts as a potential
// duplicate. Deliberately permissive; matches are surfaced for human review,
// never auto-merged.
const personThreshold = 0.7

// entityMaxDistance: a denomination match is accepted only when its normalized
// token-set distance is strictly below it (0 identical, 1 unrelated).
const entityMaxDistance = 0.5

var accentFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeName lowercases, strips accents and collapses whitespace so that
// "Éloïse  DUPONT" and "eloise dupont" compare equal.
func normalizeName(s string) string {
	folded, _, err := transform.String(accentFold, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// DiceSimilarity computes the bigram Dice coefficient between two normalized
// strings: 1 identical, 0 no shared bigrams.
func DiceSimilarity(a, b string) float64 {
	a = normalizeName(a)
	b = normalizeName(b)
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}

	ba := bigrams(a)
	bb := bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	shared := 0
	for bg, n := range ba {
		if m, ok := bb[bg]; ok {
			if m < n {
				shared += m
			} else {
				shared += n
			}
		}
	}

	total := 0
	for _, n := range ba {
		total += n
	}
	for _, n := range bb {
		total += n
	}
	return 2 * float64(shared) / float64(total)
}

func bigrams(s string) map[string]int {
	r := []rune(s)
	out := make(map[string]int)
	for i := 0; i+1 < len(r); i++ {
		out[string(r[i:i+2])]++
	}
	return out
}

// TokenSetDistance compares two denominations on their sorted unique token
// sets, scoring the edit distance between the joined forms normalized by the
// longer one. Word order and duplicated words therefore do not count against
// a match.
func TokenSetDistance(a, b string) float64 {
	ja := tokenSetJoin(a)
	jb := tokenSetJoin(b)
	if ja == "" || jb == "" {
		return 1
	}
	if ja == jb {
		return 0
	}

	dist := levenshtein.ComputeDistance(ja, jb)
	longest := len([]rune(ja))
	if l := len([]rune(jb)); l > longest {
		longest = l
	}
	return float64(dist) / float64(longest)
}

func tokenSetJoin(s string) string {
	tokens := strings.Fields(normalizeName(s))
	seen := make(map[string]bool, len(tokens))
	uniq := tokens[:0]
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			uniq = append(uniq, t)
		}
	}
	sort.Strings(uniq)
	return strings.Join(uniq, " ")
}

// MatchPersons returns the ids of every candidate whose concatenated
// surname+given-name scores strictly above the person threshold.
func MatchPersons(fullName string, candidates []PersonCandidate) []string {
	var out []string
	for _, c := range candidates {
		if DiceSimilarity(fullName, c.FullName) > personThreshold {
			out = append(out, c.ID)
		}
	}
	return out
}

// MatchEntity returns the single best-scoring canonical entity when its
// distance is acceptable, or "" when nothing matches confidently enough.
func MatchEntity(denomination string, candidates []EntityCandidate) string {
	bestID := ""
	bestScore := entityMaxDistance
	for _, c := range candidates {
		if score := TokenSetDistance(denomination, c.Denomination); score < bestScore {
			bestScore = score
			bestID = c.ID
		}
	}
	return bestID
}

// PersonCandidate is one canonical person record, keyed on the concatenated
// display name.
type PersonCandidate struct {
	ID       string
	FullName string
}

// EntityCandidate is one canonical entity record, keyed on its denomination.
type EntityCandidate struct {
	ID           string
	Denomination string
}
