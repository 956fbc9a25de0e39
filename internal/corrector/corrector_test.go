package corrector

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tespell/internal/model"
	"tespell/pkg/options"
)

func newTestCorrector(t *testing.T, counts map[string]int64, opts ...options.Options) *SpellCorrector {
	t.Helper()
	m, err := model.FromCounts(counts, 0)
	require.NoError(t, err)
	sc, err := NewSpellCorrector(m, opts...)
	require.NoError(t, err)
	return sc
}

func terms(s []RankedSuggestion) []string {
	var out []string
	for _, r := range s {
		out = append(out, r.Term)
	}
	return out
}

func TestNewSpellCorrectorErrors(t *testing.T) {
	_, err := NewSpellCorrector(nil)
	assert.ErrorIs(t, err, ErrNilModel)

	_, err = NewSpellCorrector(model.Empty(), options.WithTopK(0))
	assert.ErrorIs(t, err, options.ErrInvalidOption)

	_, err = NewSpellCorrector(model.Empty(), options.WithAlphabet("abc"))
	assert.ErrorIs(t, err, options.ErrInvalidOption)
}

func TestIsKnown(t *testing.T) {
	sc := newTestCorrector(t, map[string]int64{"ఇంట": 150, "వింత": 200})

	assert.True(t, sc.IsKnown("ఇంట"))
	assert.True(t, sc.IsKnown("వింత"))
	assert.True(t, sc.IsKnown(" ఇంట! "), "punctuation is stripped before lookup")
	assert.False(t, sc.IsKnown("వంట"))
	assert.False(t, sc.IsKnown(""))
	assert.False(t, sc.IsKnown("hello"))
}

func TestProbability(t *testing.T) {
	sc := newTestCorrector(t, map[string]int64{"ఇంట": 150, "వింత": 50})
	assert.InDelta(t, 0.75, sc.Probability("ఇంట"), 1e-9)
	assert.Equal(t, 0.0, sc.Probability("వంట"))

	empty, err := NewSpellCorrector(model.Empty())
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.Probability("ఇంట"))
}

func TestEdits1SmallAlphabet(t *testing.T) {
	sc := newTestCorrector(t, nil, options.WithAlphabet("కల"))
	assert.Equal(t, []string{"", "క", "ల", "కక", "లక", "కల"}, sc.Edits1("క"))
	assert.Equal(t, []string{"క", "ల"}, sc.Edits1(""))
}

func TestEdits1Operations(t *testing.T) {
	sc := newTestCorrector(t, nil)
	edits := sc.Edits1("వింత")

	assert.Contains(t, edits, "వంత", "deletion")
	assert.Contains(t, edits, "విత", "deletion")
	assert.Contains(t, edits, "వంిత", "transposition")
	assert.Contains(t, edits, "వింట", "substitution")
	assert.Contains(t, edits, "వింతం", "insertion at end")
	assert.Contains(t, edits, "అవింత", "insertion at start")

	// Substituting a character with itself reproduces the word.
	assert.Contains(t, edits, "వింత")

	seen := map[string]bool{}
	for _, e := range edits {
		assert.False(t, seen[e], "duplicate %q", e)
		seen[e] = true
	}
}

func TestEdits1UpperBound(t *testing.T) {
	sc := newTestCorrector(t, nil)
	sigma := len([]rune(TeluguAlphabet))
	require.Equal(t, 66, sigma)

	for _, w := range []string{"క", "ఇంట", "వింత", "ప్రభుత్వం"} {
		n := len([]rune(w))
		bound := n*sigma + (n-1)*sigma + n + (n+1)*sigma
		assert.LessOrEqual(t, len(sc.Edits1(w)), bound, w)
		assert.LessOrEqual(t, len(sc.Edits1(w)), maxEdits1(n, sigma), w)
	}
}

func TestEdits1IsPure(t *testing.T) {
	sc := newTestCorrector(t, nil)
	assert.Equal(t, sc.Edits1("ఇంట"), sc.Edits1("ఇంట"))
}

func TestEdits2(t *testing.T) {
	sc := newTestCorrector(t, nil, options.WithAlphabet("కల"))
	e2 := sc.Edits2("క")

	for _, want := range []string{"", "క", "ల", "లల", "కకక", "కలల"} {
		assert.Contains(t, e2, want)
	}
	for _, e1 := range sc.Edits1("క") {
		assert.Contains(t, e2, e1, "every one-edit string is two edits away via a no-op substitution")
	}
	assert.NotContains(t, e2, "కకకక")

	seen := map[string]bool{}
	for _, e := range e2 {
		assert.False(t, seen[e], "duplicate %q", e)
		seen[e] = true
	}
}

func TestCandidatesExactMatch(t *testing.T) {
	sc := newTestCorrector(t, map[string]int64{"ఇంట": 150, "వింత": 200})

	got := sc.Candidates("ఇంట")
	require.Len(t, got, 1)
	assert.Equal(t, "ఇంట", got[0].Term)
	assert.Equal(t, int64(150), got[0].Frequency)
	assert.Equal(t, 0, got[0].Distance)
}

func TestCandidatesSingleSubstitution(t *testing.T) {
	sc := newTestCorrector(t, map[string]int64{"వింత": 200})

	got := sc.Candidates("వింట")
	require.Len(t, got, 1)
	assert.Equal(t, "వింత", got[0].Term)
	assert.Equal(t, 1, got[0].Distance)
	assert.InDelta(t, 1.0, got[0].Probability, 1e-9)
}

func TestCandidatesNoneWithinTwoEdits(t *testing.T) {
	sc := newTestCorrector(t, map[string]int64{"వింత": 200})
	assert.Empty(t, sc.Candidates("అఆ"))
	assert.Equal(t, "అఆ", sc.Correction("అఆ"))
}

func TestCandidatesRankedByFrequency(t *testing.T) {
	sc := newTestCorrector(t, map[string]int64{"వింత": 100, "వంట": 300})
	assert.Equal(t, []string{"వంట", "వింత"}, terms(sc.Candidates("వింట")))
	assert.Equal(t, "వంట", sc.Correction("వింట"))
}

func TestCandidatesTieKeepsDiscoveryOrder(t *testing.T) {
	// "వంట" is a deletion and "వింత" a substitution of "వింట"; deletions are
	// generated first.
	sc := newTestCorrector(t, map[string]int64{"వింత": 150, "వంట": 150})
	assert.Equal(t, []string{"వంట", "వింత"}, terms(sc.Candidates("వింట")))
}

func TestCandidatesTwoEdits(t *testing.T) {
	sc := newTestCorrector(t, map[string]int64{"ప్రభుత్వం": 900})

	got := sc.Candidates("ప్రభుతం")
	require.Len(t, got, 1, "two insertions away")
	assert.Equal(t, "ప్రభుత్వం", got[0].Term)
	assert.Equal(t, 2, got[0].Distance)

	fast := newTestCorrector(t, map[string]int64{"ప్రభుత్వం": 900}, options.WithFastLookup())
	assert.Empty(t, fast.Candidates("ప్రభుతం"))
}

func TestCandidatesPrefersDistanceOne(t *testing.T) {
	// The distance two word is far more frequent but a distance one word
	// exists, so only the latter is returned.
	sc := newTestCorrector(t, map[string]int64{"వింత": 10, "వంత": 100000})
	got := sc.Candidates("వింట")
	assert.Equal(t, []string{"వింత"}, terms(got))
}

func TestCandidatesTopK(t *testing.T) {
	counts := map[string]int64{
		"కలి": 700, "కలు": 600, "కలా": 500, "కమ": 400, "పల": 300, "కళ": 200, "కలం": 100,
	}
	sc := newTestCorrector(t, counts)
	assert.Equal(t, []string{"కలి", "కలు", "కలా", "కమ", "పల"}, terms(sc.Candidates("కల")))

	top2 := newTestCorrector(t, counts, options.WithTopK(2))
	assert.Equal(t, []string{"కలి", "కలు"}, terms(top2.Candidates("కల")))
}

func TestCandidatesRankingLawAndIdempotence(t *testing.T) {
	sc := newTestCorrector(t, map[string]int64{
		"వింత": 200, "వంట": 300, "ఇంట": 150, "వంత": 300, "వెంట": 80, "పంట": 300,
	})
	for _, q := range []string{"వింట", "ఇంత", "వట", "పంత", "వెంత"} {
		first := sc.Candidates(q)
		assert.Equal(t, first, sc.Candidates(q), q)
		for i := 1; i < len(first); i++ {
			assert.GreaterOrEqual(t, first[i-1].Frequency, first[i].Frequency, q)
		}
	}
}

func TestCandidatesNormalizesQuery(t *testing.T) {
	sc := newTestCorrector(t, map[string]int64{"వింత": 200})
	assert.Equal(t, []string{"వింత"}, terms(sc.Candidates("x-వింత!")))
	assert.Empty(t, sc.Candidates("hello"))
	assert.Empty(t, sc.Candidates(""))
}

func TestCandidatesEmptyModel(t *testing.T) {
	sc, err := NewSpellCorrector(model.Empty())
	require.NoError(t, err)
	assert.Empty(t, sc.Candidates("వింత"))
}

func TestCandidatesConcurrentReaders(t *testing.T) {
	sc := newTestCorrector(t, map[string]int64{"వింత": 100, "వంట": 300})
	want := sc.Candidates("వింట")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, sc.Candidates("వింట"))
			assert.True(t, sc.IsKnown("వంట"))
		}()
	}
	wg.Wait()
}

func TestCorrectText(t *testing.T) {
	sc := newTestCorrector(t, map[string]int64{"నాకు": 500, "చదవడం": 300, "ఇష్టం": 200})

	res := sc.CorrectText("నాకు చదవడం ఇస్టం! (ok)")
	assert.Equal(t, "నాకు చదవడం ఇష్టం! (ok)", res.Corrected)
	assert.Equal(t, "నాకు చదవడం ఇస్టం! (ok)", res.Original)
	require.Len(t, res.Tokens, 3)
	assert.True(t, res.Tokens[0].Known)
	assert.Nil(t, res.Tokens[0].Suggestions)

	miss := res.Misspelled()
	require.Len(t, miss, 1)
	assert.Equal(t, "ఇస్టం", miss[0].Token)
	assert.Equal(t, []string{"ఇష్టం"}, terms(miss[0].Suggestions))
	assert.False(t, miss[0].Unresolved())
}

func TestCorrectTextKeepsUnresolved(t *testing.T) {
	sc := newTestCorrector(t, map[string]int64{"నాకు": 500})
	res := sc.CorrectText("నాకు అఆ")
	assert.Equal(t, "నాకు అఆ", res.Corrected)
	require.Len(t, res.Tokens, 2)
	assert.True(t, res.Tokens[1].Unresolved())
}

func TestRewrite(t *testing.T) {
	sc := newTestCorrector(t, map[string]int64{"వింత": 200})
	text := "a వింట, b వింట."
	tokens := sc.Check(text)
	require.Len(t, tokens, 2)

	n := 0
	got := Rewrite(text, tokens, func(tr TokenResult) string {
		n++
		if n == 1 {
			return "వింత"
		}
		return ""
	})
	assert.Equal(t, "a వింత, b వింట.", got)
}
