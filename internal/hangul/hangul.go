// Package hangul derives initial-consonant (choseong) signatures used for
// Korean prefix search.
package hangul

import (
	"strings"
	"unicode"
)

const (
	syllableBase        = 0xAC00
	syllableLast        = 0xD7A3
	syllablesPerInitial = 21 * 28
)

// initials are the compatibility jamo for the 19 leading consonants, in
// syllable block order.
var initials = []rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ', 'ㅅ',
	'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

var initialIndex = func() map[rune]int {
	m := make(map[rune]int, len(initials))
	for i, r := range initials {
		m[r] = i
	}
	return m
}()

func isSyllable(r rune) bool { return r >= syllableBase && r <= syllableLast }

// Signature replaces each Hangul syllable with its leading consonant and
// lower-cases everything else.
func Signature(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isSyllable(r) {
			b.WriteRune(initials[(r-syllableBase)/syllablesPerInitial])
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// IsInitialQuery reports whether q is non-empty and made only of leading
// consonant jamo.
func IsInitialQuery(q string) bool {
	if q == "" {
		return false
	}
	for _, r := range q {
		if _, ok := initialIndex[r]; !ok {
			return false
		}
	}
	return true
}

// SyllableRange returns the half-open string range [from, to) covering
// every syllable whose leading consonant is initial.
func SyllableRange(initial rune) (from, to string, ok bool) {
	i, ok := initialIndex[initial]
	if !ok {
		return "", "", false
	}
	lo := rune(syllableBase + i*syllablesPerInitial)
	hi := lo + syllablesPerInitial
	return string(lo), string(hi), true
}

// Matches reports whether name's signature contains the query's signature.
func Matches(name, query string) bool {
	return strings.Contains(Signature(name), Signature(query))
}
