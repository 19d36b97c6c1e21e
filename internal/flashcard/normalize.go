package flashcard

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// tanwin matches fathatan, dammatan and kasratan (U+064B..U+064D).
var tanwin = runes.In(&unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x064B, Hi: 0x064D, Stride: 1}},
})

// exceptionPunct is removed from a word before the exception lookup.
var exceptionPunct = runes.Predicate(func(r rune) bool {
	return r == '.' || r == '،'
})

// exceptions are adverbs whose tanwin is always written.
var exceptions = []string{
	"شكراً", "جداً", "أبداً", "حالاً", "طبعاً", "عموماً",
	"يومياً", "مثلاً", "فعلاً", "تقريباً", "أهلاً", "سهلاً",
	"دائماً", "غالباً", "أحياناً", "قليلاً",
}

// Exceptions returns a copy of the words that keep their tanwin.
func Exceptions() []string {
	out := make([]string, len(exceptions))
	copy(out, exceptions)
	return out
}

// Normalize strips the trailing tanwin run from every word of text unless
// the word contains one of the exception adverbs. Words are rejoined with
// single spaces; a word made only of tanwin disappears.
func Normalize(text string) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !isException(w) {
			w = strings.TrimRightFunc(w, tanwin.Contains)
		}
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}

func isException(word string) bool {
	clean, _, err := transform.String(runes.Remove(exceptionPunct), word)
	if err != nil {
		clean = word
	}
	for _, ex := range exceptions {
		if strings.Contains(clean, ex) {
			return true
		}
	}
	return false
}
