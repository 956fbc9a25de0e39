package corrector

// RankedSuggestion is a known word proposed for a query, with the evidence
// used to rank it.
type RankedSuggestion struct {
	Term        string  `json:"term"`
	Frequency   int64   `json:"frequency"`
	Probability float64 `json:"probability"`
	Distance    int     `json:"distance"`
}

// TokenResult is the outcome for one token of a checked text. Start and End
// are byte offsets of the token in the original text.
type TokenResult struct {
	Token       string             `json:"token"`
	Start       int                `json:"start"`
	End         int                `json:"end"`
	Known       bool               `json:"known"`
	Suggestions []RankedSuggestion `json:"suggestions,omitempty"`
}

// Unresolved reports whether the token is unknown and no known word lies
// within the search distance.
func (t TokenResult) Unresolved() bool { return !t.Known && len(t.Suggestions) == 0 }

// CorrectionResult is the outcome of correcting a whole text: the input, the
// text with every resolvable token replaced by its top suggestion, and the
// per-token results in input order.
type CorrectionResult struct {
	Original  string        `json:"original"`
	Corrected string        `json:"corrected"`
	Tokens    []TokenResult `json:"tokens"`
}

// Misspelled returns the tokens that are not in the model.
func (r CorrectionResult) Misspelled() []TokenResult {
	var out []TokenResult
	for _, t := range r.Tokens {
		if !t.Known {
			out = append(out, t)
		}
	}
	return out
}
