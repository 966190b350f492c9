// internal/words/words.go
//
// Per-language word source for the game engine.
//
// Responsibilities:
//   - Load one word list per language, once, from WORDS_DIR or the embedded defaults.
//   - Report readiness so callers can refuse to start rounds before the load completes.
//   - Fall back to a tiny built-in list when a language cannot be loaded.
//
// File format (words-<lang>.json): either a JSON array of words or an object
// mapping category name to an array of words. Words are trimmed, lowercased,
// and dropped unless every rune is a guessable letter.

package words

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/assets"
)

var (
	// ErrNotReady is returned before the one-time load has completed.
	ErrNotReady = errors.New("word source not ready")

	// ErrConfiguration means a language has no usable words.
	ErrConfiguration = errors.New("word source misconfigured")
)

var fallback = []string{"hangman", "game", "javascript", "programming"}

// Fallback returns the built-in minimal word list.
func Fallback() []string {
	return append([]string(nil), fallback...)
}

// list is one loaded language.
type list struct {
	all        []string
	categories map[string][]string
	err        error
}

// Source serves word lists keyed by language code.
type Source struct {
	dir         string
	defaultLang string

	once  sync.Once
	ready atomic.Bool
	mu    sync.RWMutex
	lists map[string]list
}

// NewSource creates an unloaded source. dir may be empty to use embedded lists.
func NewSource(dir, defaultLang string) *Source {
	if !Supported(defaultLang) {
		defaultLang = Languages[0]
	}
	return &Source{dir: dir, defaultLang: defaultLang, lists: make(map[string]list)}
}

// Load reads every supported language exactly once. Per-language failures are
// recorded (and served as ErrConfiguration later), not returned; the returned
// error is the joined set of failures for logging.
func (s *Source) Load(ctx context.Context) error {
	var errs []error
	s.once.Do(func() {
		defer s.ready.Store(true)
		for _, lang := range Languages {
			if err := ctx.Err(); err != nil {
				s.set(lang, list{err: fmt.Errorf("%w: %s: %v", ErrConfiguration, lang, err)})
				errs = append(errs, err)
				continue
			}
			l := s.read(lang)
			if l.err != nil {
				errs = append(errs, l.err)
			} else {
				log.Info().Str("lang", lang).Int("words", len(l.all)).Msg("word list loaded")
			}
			s.set(lang, l)
		}
	})
	return errors.Join(errs...)
}

// Ready reports whether Load has completed.
func (s *Source) Ready() bool { return s.ready.Load() }

// Resolve maps unknown language codes to the default language.
func (s *Source) Resolve(lang string) string {
	if Supported(lang) {
		return lang
	}
	return s.defaultLang
}

// Words returns the full list for lang.
func (s *Source) Words(lang string) ([]string, error) {
	l, err := s.get(lang)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), l.all...), nil
}

// Category returns the words of one category for lang.
func (s *Source) Category(lang, category string) ([]string, error) {
	l, err := s.get(lang)
	if err != nil {
		return nil, err
	}
	ws, ok := l.categories[category]
	if !ok || len(ws) == 0 {
		return nil, fmt.Errorf("%w: %s: unknown category %q", ErrConfiguration, lang, category)
	}
	return append([]string(nil), ws...), nil
}

// Categories returns the category names for lang, sorted. A flat list has none.
func (s *Source) Categories(lang string) ([]string, error) {
	l, err := s.get(lang)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(l.categories))
	for name := range l.categories {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Source) get(lang string) (list, error) {
	if !s.Ready() {
		return list{}, ErrNotReady
	}
	lang = s.Resolve(lang)
	s.mu.RLock()
	l, ok := s.lists[lang]
	s.mu.RUnlock()
	if !ok {
		return list{}, fmt.Errorf("%w: %s: not loaded", ErrConfiguration, lang)
	}
	if l.err != nil {
		return list{}, l.err
	}
	return l, nil
}

func (s *Source) set(lang string, l list) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[lang] = l
}

// read loads and normalizes one language.
func (s *Source) read(lang string) list {
	var (
		raw []byte
		err error
	)
	if s.dir != "" {
		raw, err = os.ReadFile(filepath.Join(s.dir, "words-"+lang+".json"))
	} else {
		raw, err = assets.WordList(lang)
	}
	if err != nil {
		return list{err: fmt.Errorf("%w: %s: %v", ErrConfiguration, lang, err)}
	}

	cats, err := parse(raw)
	if err != nil {
		return list{err: fmt.Errorf("%w: %s: %v", ErrConfiguration, lang, err)}
	}

	l := list{categories: make(map[string][]string, len(cats))}
	seen := make(map[string]struct{})
	for name, ws := range cats {
		norm := normalize(lang, ws)
		if len(norm) == 0 {
			continue
		}
		l.categories[name] = norm
		for _, w := range norm {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			l.all = append(l.all, w)
		}
	}
	sort.Strings(l.all)
	if len(l.all) == 0 {
		l.err = fmt.Errorf("%w: %s: word list is empty", ErrConfiguration, lang)
	}
	return l
}

// parse accepts either ["w", ...] or {"category": ["w", ...]}.
// A flat array is stored under the empty category name.
func parse(raw []byte) (map[string][]string, error) {
	var flat []string
	if err := json.Unmarshal(raw, &flat); err == nil {
		return map[string][]string{"": flat}, nil
	}
	var byCat map[string][]string
	if err := json.Unmarshal(raw, &byCat); err != nil {
		return nil, err
	}
	return byCat, nil
}

// normalize trims and lowercases, keeping only words made of guessable letters.
func normalize(lang string, ws []string) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		w = Lower(lang, strings.TrimSpace(w))
		if w != "" && allLetters(w) {
			out = append(out, w)
		}
	}
	return out
}

func allLetters(s string) bool {
	for _, r := range s {
		if !IsLetter(r) {
			return false
		}
	}
	return true
}
