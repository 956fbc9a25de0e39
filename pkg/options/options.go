package options

import (
	"errors"
	"fmt"
)

// ErrInvalidOption is returned by Validate for out of range settings.
var ErrInvalidOption = errors.New("options: invalid option")

// DefaultOptions mirror the behaviour of the corpus-trained Telugu checker:
// five suggestions, search up to two edits away.
var DefaultOptions = CorrectorOptions{
	TopK:            5,
	MaxEditDistance: 2,
}

type CorrectorOptions struct {
	TopK            int    // Maximum number of ranked suggestions returned
	MaxEditDistance int    // 1 or 2
	Alphabet        string // Characters used for substitutions and insertions; empty means the Telugu charset
}

// Validate checks the option ranges.
func (o CorrectorOptions) Validate() error {
	if o.TopK < 1 {
		return fmt.Errorf("%w: top k must be >= 1, got %d", ErrInvalidOption, o.TopK)
	}
	if o.MaxEditDistance < 1 || o.MaxEditDistance > 2 {
		return fmt.Errorf("%w: max edit distance must be 1 or 2, got %d", ErrInvalidOption, o.MaxEditDistance)
	}
	return nil
}

type Options interface {
	Apply(options *CorrectorOptions)
}

type FuncConfig struct {
	ops func(options *CorrectorOptions)
}

func (w FuncConfig) Apply(conf *CorrectorOptions) {
	w.ops(conf)
}

func NewFuncOption(f func(options *CorrectorOptions)) *FuncConfig {
	return &FuncConfig{ops: f}
}

// Resolve applies opts on top of DefaultOptions.
func Resolve(opts ...Options) CorrectorOptions {
	conf := DefaultOptions
	for _, o := range opts {
		if o != nil {
			o.Apply(&conf)
		}
	}
	return conf
}

func WithTopK(k int) Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		options.TopK = k
	})
}

func WithMaxEditDistance(maxEditDistance int) Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		options.MaxEditDistance = maxEditDistance
	})
}

func WithAlphabet(alphabet string) Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		options.Alphabet = alphabet
	})
}

// WithFastLookup only searches one edit away. Words two edits from every
// known word get no suggestions.
func WithFastLookup() Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		options.MaxEditDistance = 1
	})
}

// WithOptions replaces every setting with o, e.g. options read from a
// config file.
func WithOptions(o CorrectorOptions) Options {
	return NewFuncOption(func(options *CorrectorOptions) {
		*options = o
	})
}
