package utils

import (
	"testing"
	"time"
)

func TestCacheExpiry(t *testing.T) {
	c := NewCache[string](10, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("movie:597", "Titanic")
	if v, ok := c.Get("movie:597"); !ok || v != "Titanic" {
		t.Fatalf("Expected cached Titanic, got %q (ok=%v)", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("movie:597"); ok {
		t.Error("Expected entry to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be evicted, len=%d", c.Len())
	}
}

func TestCacheEviction(t *testing.T) {
	c := NewCache[int](2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("Expected oldest entry to be evicted")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Expected c=3, got %d (ok=%v)", v, ok)
	}

	c.Delete("c")
	if _, ok := c.Get("c"); ok {
		t.Error("Expected deleted entry to be gone")
	}
}
