// Package keywords turns titles into prefix-keyword sets for exact server-side
// prefix search. Every word of the canonicalized title contributes itself plus
// all of its prefixes, capped at 20 runes per word.
package keywords

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxPrefixLen caps the stored prefix length per word; keyword-set size grows
// linearly with title length but never beyond this per word.
const maxPrefixLen = 20

const (
	thaiSaraAm   = 'ำ' // ำ
	thaiNikhahit = 'ํ' // ◌ํ
	thaiSaraAa   = 'า' // า
)

// Canonicalize returns the single canonical form of a title for matching:
// NFC normalization plus a Thai fix-up, lowercased. Thai SARA AM can be typed
// either as the precomposed U+0E33 or as NIKHAHIT + SARA AA, and a tone mark
// can legally sit on either side of it; both variants collapse to one form so
// lookups on either spelling hit the same keywords.
func Canonicalize(s string) string {
	s = norm.NFC.String(s)
	s = fixThaiSaraAm(s)
	return strings.ToLower(s)
}

// fixThaiSaraAm rewrites NIKHAHIT+SARA AA to the precomposed SARA AM and moves
// a SARA AM that precedes a tone mark to after it (tone mark binds to the base
// consonant first).
func fixThaiSaraAm(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == thaiNikhahit && i+1 < len(runes) && runes[i+1] == thaiSaraAa {
			r = thaiSaraAm
			i++
		}
		if r == thaiSaraAm && i+1 < len(runes) && isThaiToneMark(runes[i+1]) {
			out = append(out, runes[i+1], thaiSaraAm)
			i++
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func isThaiToneMark(r rune) bool {
	return r >= '่' && r <= '๋'
}

// Generate returns the de-duplicated, sorted prefix-keyword set for a title.
// Generating twice from the same canonicalized string yields the same set.
func Generate(title string) []string {
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(Canonicalize(title)) {
		runes := []rune(word)
		if len(runes) > maxPrefixLen {
			runes = runes[:maxPrefixLen]
		}
		for i := 1; i <= len(runes); i++ {
			seen[string(runes[:i])] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
