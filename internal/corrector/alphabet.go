package corrector

import "tespell/internal/model"

// Characters used to build substitutions and insertions. Digits, rare
// archaic letters and fractions of the Telugu block are left out.
const (
	teluguVowels     = "అఆఇఈఉఊఋౠఎఏఐఒఓఔ"
	teluguConsonants = "కఖగఘఙచఛజఝఞటఠడఢణతథదధనపఫబభమయరలవశషసహళఱ"
	teluguVowelSigns = "ాిీుూృౄెేైొోౌ"
	teluguDiacritics = "్ంఃఁ"
	TeluguAlphabet   = teluguVowels + teluguConsonants + teluguVowelSigns + teluguDiacritics
)

// alphabetRunes returns the distinct runes of s in first-seen order.
// Characters outside the Telugu block are ignored since they could never
// form a known word.
func alphabetRunes(s string) []rune {
	seen := make(map[rune]bool, len(s))
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if !model.IsTelugu(r) || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
