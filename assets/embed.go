// Package assets embeds the default word lists and SQL migrations so the
// server runs without any files next to the binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed words/*.json sql/*.sql
var FS embed.FS

// WordList returns the raw JSON word list for a language code.
func WordList(lang string) ([]byte, error) {
	return FS.ReadFile("words/words-" + lang + ".json")
}

// Migrations returns the SQL migrations rooted at their directory.
func Migrations() fs.FS {
	sub, _ := fs.Sub(FS, "sql")
	return sub
}
