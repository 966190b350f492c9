package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenStoreMemory(t *testing.T) {
	kv, closeStore := openStore("")
	if err := kv.Put(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := closeStore(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpenStoreClosesDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "hangman.db")
	kv, closeStore := openStore(path)
	if _, err := os.Stat(path); err != nil {
		t.Skipf("sqlite unavailable, got memory store: %v", err)
	}

	if err := kv.Put(ctx, "gameStats", []byte(`{}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := closeStore(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := kv.Put(ctx, "gameStats", []byte(`{}`)); err == nil {
		t.Fatal("Put succeeded on a closed database")
	}
}
