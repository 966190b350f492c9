// Package daily picks the word of the day.
// A pick depends only on the UTC date, the salt and the word list's language
// and category, so every player of one language sees the same word on the
// same day while each language gets its own.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strings"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Key is the HMAC message for one list on one day, e.g. "2026-10-19/ar/animals".
// An empty category means the whole language list.
func Key(t time.Time, lang, category string) string {
	parts := []string{DateKey(t), lang}
	if category != "" {
		parts = append(parts, category)
	}
	return strings.Join(parts, "/")
}

// Pick returns the index of the day's word in a list of n words.
func Pick(t time.Time, salt, lang, category string, n int) int {
	if n <= 0 {
		return 0
	}
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(Key(t, lang, category)))
	sum := mac.Sum(nil)
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}
