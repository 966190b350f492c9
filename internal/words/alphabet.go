package words

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Supported language codes. The first is the default.
const (
	Arabic  = "ar"
	English = "en"
)

// Languages lists the supported language codes.
var Languages = []string{Arabic, English}

const (
	arabicKeyboard = "أبجدهوزحطيكلمنسعفصقرشتثخذضظغ"
	latinKeyboard  = "abcdefghijklmnopqrstuvwxyz"
)

// Alphabet returns the keyboard letters shown for lang.
func Alphabet(lang string) []string {
	src := latinKeyboard
	if lang == Arabic {
		src = arabicKeyboard
	}
	out := make([]string, 0, len(src))
	for _, r := range src {
		out = append(out, string(r))
	}
	return out
}

// IsLetter reports whether r is a guessable letter: Latin a–z or the
// Arabic range alef-with-hamza-above (U+0623) to yeh (U+064A).
func IsLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'أ' && r <= 'ي')
}

// Lower lowercases s using the rules of lang.
func Lower(lang, s string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	return cases.Lower(tag).String(s)
}

// Supported reports whether lang is a known language code.
func Supported(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}
