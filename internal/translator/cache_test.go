package translator

import (
	"path/filepath"
	"testing"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache := NewCache(filepath.Join(t.TempDir(), "cache", "translations.db"))
	if err := cache.Connect(); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)

	if _, ok := cache.Lookup("hello", "en", "fa"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	cache.Store("hello", "en", "fa", "سلام")
	got, ok := cache.Lookup("hello", "en", "fa")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != "سلام" {
		t.Errorf("Lookup = %q", got)
	}
}

func TestCacheKeyedByLanguagePair(t *testing.T) {
	cache := newTestCache(t)
	cache.Store("bonjour", "fr", "fa", "x")

	if _, ok := cache.Lookup("bonjour", "en", "fa"); ok {
		t.Error("hit with wrong source language")
	}
	if _, ok := cache.Lookup("bonjour", "fr", "en"); ok {
		t.Error("hit with wrong target language")
	}
}

func TestCacheStoreReplaces(t *testing.T) {
	cache := newTestCache(t)
	cache.Store("text", "en", "fa", "first")
	cache.Store("text", "en", "fa", "second")

	got, ok := cache.Lookup("text", "en", "fa")
	if !ok || got != "second" {
		t.Errorf("Lookup = %q, %v; want \"second\"", got, ok)
	}
}

func TestCacheConnectIdempotent(t *testing.T) {
	cache := newTestCache(t)
	if err := cache.Connect(); err != nil {
		t.Fatalf("second Connect() failed: %v", err)
	}
}

func TestCacheClosedMisses(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "translations.db"))
	if _, ok := cache.Lookup("anything", "en", "fa"); ok {
		t.Error("disconnected cache should miss")
	}
	// Store on a disconnected cache must not panic.
	cache.Store("anything", "en", "fa", "x")
}
