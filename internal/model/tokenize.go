package model

import (
	"iter"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Telugu Unicode block.
const (
	teluguFirst = '\u0C00'
	teluguLast  = '\u0C7F'
)

// IsTelugu reports whether r belongs to the Telugu script block.
func IsTelugu(r rune) bool { return r >= teluguFirst && r <= teluguLast }

// Span is a token together with the byte range of its source text.
type Span struct {
	Token string
	Start int
	End   int
}

// Spans yields every Telugu run of segment with its byte offsets. Every code
// point outside the Telugu block (whitespace, punctuation, digits, other
// scripts, joiners) acts as a separator. Token is NFC normalized, so it may
// differ from segment[Start:End].
func Spans(segment string) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		start := -1
		for i, r := range segment {
			if IsTelugu(r) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if !yield(Span{Token: norm.NFC.String(segment[start:i]), Start: start, End: i}) {
					return
				}
				start = -1
			}
		}
		if start >= 0 {
			yield(Span{Token: norm.NFC.String(segment[start:]), Start: start, End: len(segment)})
		}
	}
}

// Tokenize splits a text segment into normalized Telugu word tokens.
// The returned sequence is lazy and can be ranged over any number of times.
func Tokenize(segment string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for sp := range Spans(segment) {
			if !yield(sp.Token) {
				return
			}
		}
	}
}

// Normalize applies token normalization to a single query word: code points
// outside the Telugu block are dropped and the remainder is NFC normalized.
// Telugu has no letter case, so no case folding is needed.
func Normalize(word string) string {
	stripped := strings.Map(func(r rune) rune {
		if IsTelugu(r) {
			return r
		}
		return -1
	}, word)
	if stripped == "" {
		return ""
	}
	return norm.NFC.String(stripped)
}
