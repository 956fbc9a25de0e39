package model

import (
	"errors"
	"iter"
)

// ErrFinalized is returned by Add once the builder has produced its model.
var ErrFinalized = errors.New("model: builder already finalized")

// BuildStats describes a finished corpus pass.
type BuildStats struct {
	Segments       int   `json:"segments"`
	Tokens         int64 `json:"tokens"`
	UniqueTokens   int   `json:"unique_tokens"`
	RetainedTokens int   `json:"retained_tokens"`
	MinOccurrences int   `json:"min_occurrences"`
}

// Builder accumulates token counts over a corpus. It is not safe for
// concurrent use; a corpus is counted in a single sequential pass.
type Builder struct {
	minOccurrences int
	counts         map[string]int64
	stats          BuildStats
	model          *Model
}

// NewBuilder returns a builder that keeps words seen more than
// minOccurrences times.
func NewBuilder(minOccurrences int) (*Builder, error) {
	if minOccurrences < 0 {
		return nil, ErrNegativeThreshold
	}
	return &Builder{
		minOccurrences: minOccurrences,
		counts:         make(map[string]int64),
		stats:          BuildStats{MinOccurrences: minOccurrences},
	}, nil
}

// Add counts every token of segment.
func (b *Builder) Add(segment string) error {
	if b.model != nil {
		return ErrFinalized
	}
	b.stats.Segments++
	for tok := range Tokenize(segment) {
		b.counts[tok]++
		b.stats.Tokens++
	}
	return nil
}

// Unique is the number of distinct tokens counted so far.
func (b *Builder) Unique() int { return len(b.counts) }

// Finalize applies the threshold and returns the model. Later calls return
// the same model and Add is rejected.
func (b *Builder) Finalize() *Model {
	if b.model != nil {
		return b.model
	}
	b.stats.UniqueTokens = len(b.counts)
	b.model, _ = FromCounts(b.counts, b.minOccurrences)
	b.stats.RetainedTokens = b.model.Len()
	b.counts = nil
	return b.model
}

// Stats returns the statistics gathered so far. Unique and retained counts
// are filled in by Finalize.
func (b *Builder) Stats() BuildStats { return b.stats }

// Build counts every token of every segment and drops the words seen
// minOccurrences times or fewer. An empty stream yields an empty model.
func Build(segments iter.Seq[string], minOccurrences int) (*Model, error) {
	b, err := NewBuilder(minOccurrences)
	if err != nil {
		return nil, err
	}
	for seg := range segments {
		if err := b.Add(seg); err != nil {
			return nil, err
		}
	}
	return b.Finalize(), nil
}
