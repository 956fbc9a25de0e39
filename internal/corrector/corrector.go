// Package corrector suggests corrections for Telugu words using a frequency
// model: candidates one or two edits away from the query are looked up in the
// model and ranked by how often they occur in the corpus.
package corrector

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"tespell/internal/model"
	"tespell/pkg/options"
)

// ErrNilModel is returned when a corrector is built without a model.
var ErrNilModel = errors.New("corrector: nil model")

// SpellCorrector ranks corrections against one immutable model. It holds no
// mutable state and is safe for concurrent use. To pick up a new model build
// a new SpellCorrector.
type SpellCorrector struct {
	model    *model.Model
	alphabet []rune
	topK     int
	maxDist  int
}

// NewSpellCorrector returns a corrector over m.
func NewSpellCorrector(m *model.Model, opts ...options.Options) (*SpellCorrector, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	conf := options.Resolve(opts...)
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	alphabet := conf.Alphabet
	if alphabet == "" {
		alphabet = TeluguAlphabet
	}
	runes := alphabetRunes(alphabet)
	if len(runes) == 0 {
		return nil, fmt.Errorf("%w: alphabet has no Telugu characters", options.ErrInvalidOption)
	}
	return &SpellCorrector{
		model:    m,
		alphabet: runes,
		topK:     conf.TopK,
		maxDist:  conf.MaxEditDistance,
	}, nil
}

// Model returns the model the corrector was built with.
func (sc *SpellCorrector) Model() *model.Model { return sc.model }

// TopK is the maximum number of suggestions returned by Candidates.
func (sc *SpellCorrector) TopK() int { return sc.topK }

// IsKnown reports whether word, after normalization, is in the model.
func (sc *SpellCorrector) IsKnown(word string) bool {
	w := model.Normalize(word)
	return w != "" && sc.model.Contains(w)
}

// Probability is P(word): its count over the total count of the model.
func (sc *SpellCorrector) Probability(word string) float64 {
	c, _ := sc.model.Count(model.Normalize(word))
	return sc.probability(c)
}

func (sc *SpellCorrector) probability(count int64) float64 {
	total := sc.model.Total()
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// Edits1 returns every distinct string one edit away from word, in the order
// they are first produced: deletions, transpositions, substitutions, then
// insertions. word itself is included when an edit reproduces it (for
// example substituting a character with itself).
func (sc *SpellCorrector) Edits1(word string) []string {
	runes := []rune(word)
	seen := make(map[string]struct{}, maxEdits1(len(runes), len(sc.alphabet)))
	var out []string
	forEachEdit1(runes, sc.alphabet, distinct(seen, func(s string) bool {
		out = append(out, s)
		return true
	}))
	return out
}

// Edits2 returns every distinct string produced by applying Edits1 to each
// member of Edits1(word), in first discovery order. The result grows with the
// square of the alphabet size; Candidates does not materialize it.
func (sc *SpellCorrector) Edits2(word string) []string {
	seen := make(map[string]struct{})
	var out []string
	visit := distinct(seen, func(s string) bool {
		out = append(out, s)
		return true
	})
	for _, e1 := range sc.Edits1(word) {
		forEachEdit1([]rune(e1), sc.alphabet, visit)
	}
	return out
}

// knownEdits1 returns the known words of Edits1(word) in discovery order.
func (sc *SpellCorrector) knownEdits1(word string) []string {
	seen := make(map[string]struct{})
	var out []string
	forEachEdit1([]rune(word), sc.alphabet, func(s string) bool {
		if _, ok := seen[s]; ok || !sc.model.Contains(s) {
			return true
		}
		seen[s] = struct{}{}
		out = append(out, s)
		return true
	})
	return out
}

// knownEdits2 returns the known words of Edits2(word) in discovery order
// without building the full Edits2 set.
func (sc *SpellCorrector) knownEdits2(word string) []string {
	seen := make(map[string]struct{})
	var out []string
	visit := func(s string) bool {
		if _, ok := seen[s]; ok || !sc.model.Contains(s) {
			return true
		}
		seen[s] = struct{}{}
		out = append(out, s)
		return true
	}
	for _, e1 := range sc.Edits1(word) {
		forEachEdit1([]rune(e1), sc.alphabet, visit)
	}
	return out
}

// Candidates returns the ranked corrections for word:
//
//   - a known word is returned alone, at distance 0;
//   - otherwise the known words one edit away, most frequent first;
//   - if there are none, the known words two edits away;
//   - if there are none either, nil.
//
// Equal frequencies keep the order in which the words were generated, so
// the result is a pure function of the model and word. At most TopK
// suggestions are returned.
func (sc *SpellCorrector) Candidates(word string) []RankedSuggestion {
	w := model.Normalize(word)
	if w == "" {
		return nil
	}
	if c, ok := sc.model.Count(w); ok {
		return []RankedSuggestion{{Term: w, Frequency: c, Probability: sc.probability(c), Distance: 0}}
	}
	if known := sc.knownEdits1(w); len(known) > 0 {
		return sc.rank(known, 1)
	}
	if sc.maxDist < 2 {
		return nil
	}
	if known := sc.knownEdits2(w); len(known) > 0 {
		return sc.rank(known, 2)
	}
	return nil
}

// Correction returns the top ranked suggestion for word, or word itself
// when it is known or nothing is close enough.
func (sc *SpellCorrector) Correction(word string) string {
	if s := sc.Candidates(word); len(s) > 0 {
		return s[0].Term
	}
	return word
}

func (sc *SpellCorrector) rank(words []string, distance int) []RankedSuggestion {
	out := make([]RankedSuggestion, 0, len(words))
	for _, w := range words {
		c, _ := sc.model.Count(w)
		out = append(out, RankedSuggestion{Term: w, Frequency: c, Probability: sc.probability(c), Distance: distance})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Frequency > out[j].Frequency })
	if len(out) > sc.topK {
		out = out[:sc.topK]
	}
	return out
}

// Check looks up every token of text. Suggestions are only computed for
// unknown tokens.
func (sc *SpellCorrector) Check(text string) []TokenResult {
	var out []TokenResult
	for sp := range model.Spans(text) {
		tr := TokenResult{Token: sp.Token, Start: sp.Start, End: sp.End}
		tr.Known = sc.model.Contains(sp.Token)
		if !tr.Known {
			tr.Suggestions = sc.Candidates(sp.Token)
		}
		out = append(out, tr)
	}
	return out
}

// CorrectText checks text and replaces every unknown token that has a
// suggestion with the top ranked one. Everything else, including
// punctuation and non-Telugu text, is kept as is.
func (sc *SpellCorrector) CorrectText(text string) CorrectionResult {
	tokens := sc.Check(text)
	return CorrectionResult{
		Original: text,
		Corrected: Rewrite(text, tokens, func(t TokenResult) string {
			if t.Known || len(t.Suggestions) == 0 {
				return ""
			}
			return t.Suggestions[0].Term
		}),
		Tokens: tokens,
	}
}

// Rewrite rebuilds text with the replacement chosen for each token. choose
// returns the new token, or "" to keep the original text of that token.
// tokens must come from Check on the same text.
func Rewrite(text string, tokens []TokenResult, choose func(TokenResult) string) string {
	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, t := range tokens {
		b.WriteString(text[prev:t.Start])
		if r := choose(t); r != "" {
			b.WriteString(r)
		} else {
			b.WriteString(text[t.Start:t.End])
		}
		prev = t.End
	}
	b.WriteString(text[prev:])
	return b.String()
}
