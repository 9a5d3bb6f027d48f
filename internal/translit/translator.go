package translit

import (
	"strings"
	"unicode"
)

// Translator applies a phrase dictionary followed by a character table.
//
// The zero value is usable and translates nothing except whitespace
// normalization. Use New or Default to get a populated translator.
type Translator struct {
	chars   CharMap
	phrases PhraseDict
}

var defaultTranslator = New(defaultChars, defaultPhrases)

// Default returns the process-wide translator built from the built-in tables.
func Default() *Translator {
	return defaultTranslator
}

// New creates a translator over private copies of chars and phrases.
// Later changes to the arguments do not affect the translator.
func New(chars CharMap, phrases PhraseDict) *Translator {
	t := &Translator{
		chars:   make(CharMap, len(chars)),
		phrases: append(PhraseDict(nil), phrases...),
	}
	for k, v := range chars {
		t.chars[k] = v
	}
	return t
}

// Phrases returns a copy of the phrase dictionary in application order.
func (t *Translator) Phrases() PhraseDict {
	return append(PhraseDict(nil), t.phrases...)
}

// Translate renders text in Latin-script Romanian.
//
// Phrase overrides run first, then the character table, then normalization:
// a single pass that turns each "  " into " " (three spaces become two) and a
// trim of leading and trailing whitespace. Runes without a table entry are
// copied through unchanged, so Translate never fails.
func (t *Translator) Translate(text string) string {
	text = t.applyPhrases(text)
	text = t.transliterate(text)
	return normalize(text)
}

// applyPhrases tests each key against a lowercase copy taken once up front
// and replaces exact-case occurrences in text.
func (t *Translator) applyPhrases(text string) string {
	lower := strings.ToLower(text)
	for _, p := range t.phrases {
		if p.Cyrillic == "" {
			continue
		}
		if strings.Contains(lower, p.Cyrillic) {
			text = strings.ReplaceAll(text, p.Cyrillic, p.Romanian)
		}
	}
	return text
}

func (t *Translator) transliterate(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if latin, ok := t.chars[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func normalize(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "  ", " "))
}

// CleanText is the same filter as the package-level CleanText.
func (t *Translator) CleanText(text string) string {
	return CleanText(text)
}

// CleanText drops every rune that is not an ASCII letter or digit,
// whitespace, or one of . , ; : -
func CleanText(text string) string {
	return strings.Map(func(r rune) rune {
		if keepRune(r) {
			return r
		}
		return -1
	}, text)
}

func keepRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == ',', r == ';', r == ':', r == '-':
		return true
	}
	return unicode.IsSpace(r)
}
