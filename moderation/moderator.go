package moderation

import (
	"blog-bus/domain"
	"blog-bus/errors"
	"fmt"
	"log/slog"
	"unicode"
	"unicode/utf8"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	matcher          *goahocorasick.Machine
	censoredChar     rune
	maxContentLength int
	log              *slog.Logger
}

type TextMapping struct {
	Normalized []rune
	OrigIdx    []int
}

// Decision is the outcome of the moderation of one comment.
type Decision struct {
	Status   domain.Status
	Words    []string
	Censored string
}

// NewModerator initializes the Aho-Corasick automaton with a normalized version of the provided censored words list.
// Words that normalize to nothing (pure punctuation) are skipped.
func NewModerator(censoredWords []string, censoredChar rune, maxContentLength int, log *slog.Logger) (Moderator, error) {
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		normalized := normalizeRunes([]rune(word))
		if len(normalized) == 0 {
			log.Debug(fmt.Sprintf("Skipping censored word %q, nothing left after normalization", word))
			continue
		}
		patterns = append(patterns, normalized)
	}
	if len(patterns) == 0 {
		return Moderator{}, errors.ErrEmptyWords
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{matcher: m, censoredChar: censoredChar, maxContentLength: maxContentLength, log: log}, nil
}

// Classify rejects content containing any censored word and approves everything else.
// It only depends on its input and the word list the moderator was built with.
func (m *Moderator) Classify(content string) (Decision, error) {
	if err := m.validate(content); err != nil {
		return Decision{}, err
	}
	censored, words := m.Censor(content)
	status := domain.StatusApproved
	if len(words) > 0 {
		status = domain.StatusRejected
	}
	return Decision{Status: status, Words: words, Censored: censored}, nil
}

func (m *Moderator) validate(content string) error {
	switch {
	case content == "":
		return fmt.Errorf("%w: empty", errors.ErrInvalidContent)
	case !utf8.ValidString(content):
		return fmt.Errorf("%w: not valid UTF-8", errors.ErrInvalidContent)
	case m.maxContentLength > 0 && utf8.RuneCountInString(content) > m.maxContentLength:
		return fmt.Errorf("%w: longer than %d characters", errors.ErrInvalidContent, m.maxContentLength)
	}
	return nil
}

// Censor identifies forbidden patterns and replaces the original characters with stars while preserving spacing.
// It also returns the matched words in order of appearance.
func (m *Moderator) Censor(original string) (string, []string) {
	mapping := m.normalize(original)
	if len(mapping.Normalized) == 0 {
		return original, nil
	}

	origRunes := []rune(original)
	spans := m.matcher.MultiPatternSearch(mapping.Normalized, false)
	if len(spans) == 0 {
		return original, nil
	}

	var words []string
	for _, span := range spans {
		normStart := span.Pos
		normEnd := normStart + len(span.Word)

		if normStart < 0 || normEnd > len(mapping.OrigIdx) {
			continue
		}
		words = append(words, string(span.Word))

		origStart := mapping.OrigIdx[normStart]
		lastCharOrigIdx := mapping.OrigIdx[normEnd-1]
		origEnd := lastCharOrigIdx + 1

		for i := origStart; i < origEnd; i++ {
			origRunes[i] = m.censoredChar
		}
	}

	return string(origRunes), words
}

// normalize transforms the input string into a searchable format and tracks original rune positions.
func (m *Moderator) normalize(input string) TextMapping {
	origRunes := []rune(input)
	norm := make([]rune, 0, len(origRunes))
	origIdx := make([]int, 0, len(origRunes))

	for i, r := range origRunes {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		norm = append(norm, unicode.ToLower(clean))
		origIdx = append(origIdx, i)
	}
	return TextMapping{Normalized: norm, OrigIdx: origIdx}
}

// normalizeRunes applies simplification and noise removal to a slice of runes.
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps common Leet speak characters back to their standard alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

// isNoise identifies characters that should be ignored during the pattern matching phase.
// Whitespace is kept so that a match never spans two words.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
