package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	key := RequestKey("ollama", "llama3.1", "system", "prompt")
	if err := c.Set(key, []byte("cached response"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get(key)
	if !found {
		t.Fatal("expected cache hit")
	}
	if string(got) != "cached response" {
		t.Errorf("got %q", got)
	}

	if _, found := c.Get(RequestKey("ollama", "mistral", "system", "prompt")); found {
		t.Error("different model must miss the cache")
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	key := "podtrace:v1:abcdef"
	if err := c.Set(key, []byte("stale"), time.Nanosecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, found := c.Get(key); found {
		t.Error("expired entry must miss")
	}
	if _, err := os.Stat(c.entryPath(key)); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}
}

func TestDiskCacheCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	key := "podtrace:v1:abcdef"
	path := c.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{torn"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, found := c.Get(key); found {
		t.Error("corrupt entry must miss")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed from disk")
	}
}

func TestDiskCacheDeleteAndClear(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("one", []byte("1"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.Set("two", []byte("2"), time.Minute); err != nil {
		t.Fatal(err)
	}

	if err := c.Delete("one"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("one"); found {
		t.Error("deleted entry must miss")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Get("two"); found {
		t.Error("cleared entry must miss")
	}
}
