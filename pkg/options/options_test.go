package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDefaults(t *testing.T) {
	conf := Resolve()
	assert.Equal(t, DefaultOptions, conf)
	assert.NoError(t, conf.Validate())
}

func TestResolveAppliesInOrder(t *testing.T) {
	conf := Resolve(WithTopK(3), WithMaxEditDistance(2), WithFastLookup(), nil, WithAlphabet("ab"))
	assert.Equal(t, 3, conf.TopK)
	assert.Equal(t, 1, conf.MaxEditDistance)
	assert.Equal(t, "ab", conf.Alphabet)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		opts []Options
	}{
		{"zero top k", []Options{WithTopK(0)}},
		{"negative top k", []Options{WithTopK(-2)}},
		{"distance zero", []Options{WithMaxEditDistance(0)}},
		{"distance three", []Options{WithMaxEditDistance(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Resolve(tt.opts...).Validate(), ErrInvalidOption)
		})
	}
}

func TestWithOptions(t *testing.T) {
	want := CorrectorOptions{TopK: 3, MaxEditDistance: 1}
	assert.Equal(t, want, Resolve(WithTopK(9), WithOptions(want)))
	assert.Equal(t, 7, Resolve(WithOptions(want), WithTopK(7)).TopK)
}
