package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/ledger"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

type harness struct {
	srv    *Server
	src    *words.Source
	ledger *ledger.Ledger
}

func newHarness(t *testing.T, load bool) *harness {
	t.Helper()
	h := build(t, map[string]string{
		"words-en.json": `["cat"]`,
		"words-ar.json": `["قمر"]`,
	})
	if load {
		if err := h.src.Load(context.Background()); err != nil {
			t.Fatalf("load words: %v", err)
		}
	}
	return h
}

// build writes the given word files and wires a server over them. Words are
// not loaded.
func build(t *testing.T, files map[string]string, opts ...game.Option) *harness {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	src := words.NewSource(dir, words.English)
	led := ledger.New(ledger.NewKVPersister(store.NewMemoryStore()))
	opts = append([]game.Option{game.WithLanguage(words.English)}, opts...)
	sess := game.NewSession(src, led, opts...)
	return &harness{srv: New(sess, led, src, Options{}), src: src, ledger: led}
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func (h *harness) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.srv.Router().ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: bad json %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func TestNotReady(t *testing.T) {
	h := newHarness(t, false)
	code, body := h.do(t, http.MethodGet, "/health", "")
	if code != http.StatusOK || body["wordsReady"] != false {
		t.Fatalf("health = %d %v", code, body)
	}
	code, body = h.do(t, http.MethodPost, "/game/new", "")
	if code != http.StatusServiceUnavailable || body["error"] != "not_ready" {
		t.Fatalf("new before ready = %d %v", code, body)
	}
}

func TestPlayToWin(t *testing.T) {
	h := newHarness(t, true)

	if code, body := h.do(t, http.MethodGet, "/game", ""); code != http.StatusNotFound || body["error"] != "no_round" {
		t.Fatalf("info without round = %d %v", code, body)
	}

	code, body := h.do(t, http.MethodPost, "/game/new", `{"language":"en"}`)
	if code != http.StatusOK || body["display"] != "_ _ _" {
		t.Fatalf("new = %d %v", code, body)
	}

	if code, _ := h.do(t, http.MethodPost, "/game/guess", `not json`); code != http.StatusBadRequest {
		t.Fatalf("bad json = %d", code)
	}
	if code, body := h.do(t, http.MethodPost, "/game/guess", `{"letter":"12"}`); code != http.StatusBadRequest || body["error"] != "invalid_input" {
		t.Fatalf("invalid = %d %v", code, body)
	}

	h.do(t, http.MethodPost, "/game/guess", `{"letter":"c"}`)
	if code, body := h.do(t, http.MethodPost, "/game/guess", `{"letter":"c"}`); code != http.StatusConflict || body["error"] != "duplicate_guess" {
		t.Fatalf("duplicate = %d %v", code, body)
	}
	h.do(t, http.MethodPost, "/game/guess", `{"letter":"a"}`)
	code, body = h.do(t, http.MethodPost, "/game/guess", `{"letter":"t"}`)
	if code != http.StatusOK || body["status"] != "won" {
		t.Fatalf("winning guess = %d %v", code, body)
	}
	evs, _ := body["events"].([]any)
	if len(evs) < 2 {
		t.Fatalf("events = %v", body["events"])
	}
	first, _ := evs[0].(map[string]any)
	if first["type"] != "guess-correct" || first["cue"] != "click" {
		t.Fatalf("first event = %v", first)
	}

	if code, body := h.do(t, http.MethodPost, "/game/guess", `{"letter":"z"}`); code != http.StatusConflict || body["error"] != "round_closed" {
		t.Fatalf("after win = %d %v", code, body)
	}

	code, body = h.do(t, http.MethodGet, "/stats", "")
	if code != http.StatusOK || body["totalWins"] != float64(1) || body["winRate"] != float64(100) {
		t.Fatalf("stats = %d %v", code, body)
	}
}

func TestHintsAndGiveUp(t *testing.T) {
	h := newHarness(t, true)
	h.do(t, http.MethodPost, "/game/new", "")

	code, body := h.do(t, http.MethodPost, "/game/hint", "")
	if code != http.StatusOK || body["letter"] == "" {
		t.Fatalf("hint = %d %v", code, body)
	}
	for h.ledger.ConsumeHint() {
	}
	if code, body := h.do(t, http.MethodPost, "/game/hint", ""); code != http.StatusPaymentRequired || body["error"] != "no_hints" {
		t.Fatalf("hint without balance = %d %v", code, body)
	}

	code, body = h.do(t, http.MethodPost, "/hints/buy", `{}`)
	if code != http.StatusOK || body["hintsBalance"] != float64(ledger.DefaultHintGrant) {
		t.Fatalf("buy = %d %v", code, body)
	}
	code, body = h.do(t, http.MethodPost, "/hints/buy", `{"amount":2}`)
	if body["hintsBalance"] != float64(ledger.DefaultHintGrant+2) {
		t.Fatalf("buy 2 = %d %v", code, body)
	}

	code, body = h.do(t, http.MethodPost, "/game/giveup", "")
	if code != http.StatusOK || body["status"] != "lost" || body["word"] != "cat" {
		t.Fatalf("giveup = %d %v", code, body)
	}
	if code, _ := h.do(t, http.MethodPost, "/game/giveup", ""); code != http.StatusConflict {
		t.Fatalf("second giveup = %d", code)
	}

	code, body = h.do(t, http.MethodPost, "/stats/reset", "")
	if code != http.StatusOK || body["totalGames"] != float64(0) || body["hintsBalance"] != float64(ledger.DefaultHintGrant) {
		t.Fatalf("reset = %d %v", code, body)
	}
}

func TestAchievementsList(t *testing.T) {
	h := newHarness(t, true)
	req := httptest.NewRequest(http.MethodGet, "/achievements", nil)
	rec := httptest.NewRecorder()
	h.srv.Router().ServeHTTP(rec, req)

	var list []ledger.Achievement
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != len(ledger.AchievementIDs()) || list[0].ID != "firstWin" || list[0].Unlocked {
		t.Fatalf("achievements = %+v", list)
	}
}

func TestAlphabetAndDaily(t *testing.T) {
	h := newHarness(t, true)
	code, body := h.do(t, http.MethodGet, "/alphabet?lang=ar", "")
	letters, _ := body["letters"].([]any)
	if code != http.StatusOK || len(letters) != 28 {
		t.Fatalf("alphabet = %d %v", code, body)
	}

	if body["language"] != "ar" {
		t.Fatalf("alphabet language = %v", body["language"])
	}
	for _, q := range []string{"/alphabet", "/alphabet?lang=zz"} {
		code, body = h.do(t, http.MethodGet, q, "")
		if code != http.StatusOK || body["language"] != "en" {
			t.Fatalf("%s = %d %v", q, code, body)
		}
	}

	code, body = h.do(t, http.MethodGet, "/daily", "")
	if code != http.StatusOK || len(body["date"].(string)) != len("2006-01-02") {
		t.Fatalf("daily info = %d %v", code, body)
	}
	if code, body := h.do(t, http.MethodPost, "/daily/new", `{"language":`); code != http.StatusBadRequest || body["error"] != "bad_json" {
		t.Fatalf("daily bad json = %d %v", code, body)
	}
	code, body = h.do(t, http.MethodPost, "/daily/new", `{"language":"ar"}`)
	if code != http.StatusOK || body["daily"] != true || body["language"] != "ar" {
		t.Fatalf("daily new = %d %v", code, body)
	}
}

func TestCORSAndNotFound(t *testing.T) {
	h := newHarness(t, true)
	req := httptest.NewRequest(http.MethodOptions, "/game/new", nil)
	rec := httptest.NewRecorder()
	h.srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("preflight = %d %v", rec.Code, rec.Header())
	}

	code, body := h.do(t, http.MethodGet, "/nope", "")
	if code != http.StatusNotFound || body["error"] != "not_found" {
		t.Fatalf("404 = %d %v", code, body)
	}
}

func TestDailyDateFromSessionClock(t *testing.T) {
	clock := fixedClock{t: time.Date(2031, 1, 2, 23, 30, 0, 0, time.UTC)}
	h := build(t, map[string]string{"words-en.json": `["cat"]`, "words-ar.json": `["قمر"]`}, game.WithClock(clock))
	code, body := h.do(t, http.MethodGet, "/daily", "")
	if code != http.StatusOK || body["date"] != "2031-01-02" {
		t.Fatalf("daily info = %d %v", code, body)
	}
}

func TestCategoryRounds(t *testing.T) {
	h := build(t, map[string]string{
		"words-en.json": `{"food":["pie"],"animals":["dog"]}`,
		"words-ar.json": `[]`,
	})
	if err := h.src.Load(context.Background()); err == nil {
		t.Fatal("expected load error for empty arabic list")
	}

	code, body := h.do(t, http.MethodGet, "/categories?lang=en", "")
	cats, _ := body["categories"].([]any)
	if code != http.StatusOK || len(cats) != 2 || cats[0] != "animals" || cats[1] != "food" || body["selected"] != "" {
		t.Fatalf("categories = %d %v", code, body)
	}

	code, body = h.do(t, http.MethodPost, "/game/new", `{"category":"food"}`)
	if code != http.StatusOK || body["category"] != "food" {
		t.Fatalf("new in food = %d %v", code, body)
	}
	if _, body = h.do(t, http.MethodPost, "/game/giveup", ""); body["word"] != "pie" {
		t.Fatalf("food word = %v", body["word"])
	}

	// The selection sticks until replaced.
	h.do(t, http.MethodPost, "/game/new", "")
	if _, body = h.do(t, http.MethodPost, "/game/giveup", ""); body["word"] != "pie" {
		t.Fatalf("second food word = %v", body["word"])
	}

	code, body = h.do(t, http.MethodPost, "/game/new", `{"category":"space"}`)
	if code != http.StatusOK || body["category"] != nil {
		t.Fatalf("new in unknown category = %d %v", code, body)
	}
	_, body = h.do(t, http.MethodPost, "/game/giveup", "")
	if w := body["word"]; w != "pie" && w != "dog" {
		t.Fatalf("fallback word = %v", w)
	}

	code, body = h.do(t, http.MethodGet, "/categories?lang=ar", "")
	if code != http.StatusServiceUnavailable || body["error"] != "misconfigured" {
		t.Fatalf("categories for broken list = %d %v", code, body)
	}
}

func TestMalformedBodies(t *testing.T) {
	h := newHarness(t, true)

	if code, body := h.do(t, http.MethodPost, "/game/new", `{"language":`); code != http.StatusBadRequest || body["error"] != "bad_json" {
		t.Fatalf("new bad json = %d %v", code, body)
	}
	if code, body := h.do(t, http.MethodGet, "/game", ""); code != http.StatusNotFound || body["error"] != "no_round" {
		t.Fatalf("round started by a bad body = %d %v", code, body)
	}

	if code, body := h.do(t, http.MethodPost, "/hints/buy", `nope`); code != http.StatusBadRequest || body["error"] != "bad_json" {
		t.Fatalf("buy bad json = %d %v", code, body)
	}
	if got := h.ledger.HintsBalance(); got != ledger.DefaultHintGrant {
		t.Fatalf("balance after bad body = %d", got)
	}

	code, body := h.do(t, http.MethodPost, "/hints/buy", "  ")
	if code != http.StatusOK || body["hintsBalance"] != float64(2*ledger.DefaultHintGrant) {
		t.Fatalf("buy with empty body = %d %v", code, body)
	}
	if code, _ := h.do(t, http.MethodPost, "/game/new", ""); code != http.StatusOK {
		t.Fatalf("new with empty body = %d", code)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	h := newHarness(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.srv.Start(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
