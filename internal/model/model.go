// Package model builds and holds the word frequency model used by the
// corrector: a word → count mapping filtered by a minimum occurrence
// threshold.
package model

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
	"strings"
)

// DefaultMinOccurrences is the threshold used when building from a corpus.
// Words seen this many times or fewer are dropped.
const DefaultMinOccurrences = 100

var (
	// ErrNegativeThreshold is returned when a negative minimum occurrence
	// count is requested.
	ErrNegativeThreshold = errors.New("model: min occurrences must be >= 0")

	// ErrThresholdViolation is returned by New when an entry does not exceed
	// the model threshold.
	ErrThresholdViolation = errors.New("model: count does not exceed threshold")

	// ErrInvalidWord is returned by New for keys that are not normalized
	// Telugu tokens.
	ErrInvalidWord = errors.New("model: invalid word")
)

// Model is an immutable word frequency mapping. It is safe for concurrent
// use.
type Model struct {
	counts    map[string]int64
	total     int64
	threshold int
}

// Entry is a single (word, count) pair.
type Entry struct {
	Word  string `json:"word"`
	Count int64  `json:"count"`
}

// Empty returns a model without entries.
func Empty() *Model {
	return &Model{counts: map[string]int64{}}
}

// FromCounts builds a model from already counted words, dropping every entry
// whose count is <= minOccurrences. The input map is not retained.
func FromCounts(counts map[string]int64, minOccurrences int) (*Model, error) {
	if minOccurrences < 0 {
		return nil, ErrNegativeThreshold
	}
	m := &Model{counts: make(map[string]int64, len(counts)), threshold: minOccurrences}
	for w, c := range counts {
		if c <= int64(minOccurrences) {
			continue
		}
		m.counts[w] = c
		m.total += c
	}
	return m, nil
}

// New builds a model from persisted data. Unlike FromCounts it does not
// filter: every entry must already satisfy the threshold. Keys are NFC
// normalized and keys that normalize to the same word have their counts
// summed; keys that are empty or contain non-Telugu code points are
// rejected.
func New(counts map[string]int64, threshold int) (*Model, error) {
	if threshold < 0 {
		return nil, ErrNegativeThreshold
	}
	m := &Model{counts: make(map[string]int64, len(counts)), threshold: threshold}
	for w, c := range counts {
		if w == "" || strings.IndexFunc(w, func(r rune) bool { return !IsTelugu(r) }) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWord, w)
		}
		if c <= int64(threshold) {
			return nil, fmt.Errorf("%w: %q has count %d (threshold %d)", ErrThresholdViolation, w, c, threshold)
		}
		m.counts[Normalize(w)] += c
		m.total += c
	}
	return m, nil
}

// Count returns the frequency of word and whether it is in the model.
func (m *Model) Count(word string) (int64, bool) {
	c, ok := m.counts[word]
	return c, ok
}

// Contains reports whether word is a key of the model.
func (m *Model) Contains(word string) bool {
	_, ok := m.counts[word]
	return ok
}

// Len is the number of distinct words.
func (m *Model) Len() int { return len(m.counts) }

// Total is the sum of all counts.
func (m *Model) Total() int64 { return m.total }

// Threshold is the minimum occurrence count the model was built with.
func (m *Model) Threshold() int { return m.threshold }

// All yields every entry in ascending word order.
func (m *Model) All() iter.Seq2[string, int64] {
	return func(yield func(string, int64) bool) {
		for _, w := range slices.Sorted(maps.Keys(m.counts)) {
			if !yield(w, m.counts[w]) {
				return
			}
		}
	}
}

// Counts returns a copy of the underlying mapping.
func (m *Model) Counts() map[string]int64 {
	return maps.Clone(m.counts)
}

// Top returns the n most frequent entries, ties ordered by word. n <= 0
// returns every entry.
func (m *Model) Top(n int) []Entry {
	entries := make([]Entry, 0, len(m.counts))
	for w, c := range m.counts {
		entries = append(entries, Entry{Word: w, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Word < entries[j].Word
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
