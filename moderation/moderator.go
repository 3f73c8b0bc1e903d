// Package moderation masks configured words in outbound message text.
// Matching runs over a normalized view of the text (lowercased, leet-speak
// folded, punctuation ignored) while masking is applied to the original
// runes, so spacing and casing around a match are preserved.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	machine *goahocorasick.Machine
	mask    rune
}

// leet folds the usual character substitutions back onto the alphabet
// before matching.
var leet = map[rune]rune{
	'4': 'a', '@': 'a',
	'3': 'e', '€': 'e',
	'1': 'i', '!': 'i', '|': 'i',
	'0': 'o',
	'5': 's', '$': 's',
}

// NewModerator builds the Aho-Corasick automaton over the normalized word
// list. An empty list yields no moderator at all.
func NewModerator(words []string, mask rune) (*Moderator, error) {
	if len(words) == 0 {
		return nil, nil
	}
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		norm, _ := normalize([]rune(w))
		// Pure punctuation entries normalize to nothing and would match
		// everywhere.
		if len(norm) == 0 {
			continue
		}
		patterns = append(patterns, norm)
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{machine: machine, mask: mask}, nil
}

// Censor replaces every matched span of text with the mask character.
func (m *Moderator) Censor(text string) string {
	original := []rune(text)
	norm, origIdx := normalize(original)
	if len(norm) == 0 {
		return text
	}

	spans := m.machine.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return text
	}

	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		// Mask from the first to the last original rune of the match.
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			original[i] = m.mask
		}
	}
	return string(original)
}

// normalize lowercases, folds leet characters and drops punctuation,
// spacing and symbols, keeping a map back to original rune positions.
func normalize(input []rune) ([]rune, []int) {
	norm := make([]rune, 0, len(input))
	origIdx := make([]int, 0, len(input))
	for i, r := range input {
		if folded, ok := leet[r]; ok {
			r = folded
		}
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		norm = append(norm, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	return norm, origIdx
}
