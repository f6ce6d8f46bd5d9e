package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRU[int](2, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v", v, ok)
	}

	// "a" was just used, so adding "c" evicts "b"
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a should survive eviction, got %d, %v", v, ok)
	}
}

func TestLRUOverwrite(t *testing.T) {
	c := NewLRU[string](2, time.Minute)
	c.Set("k", "old")
	c.Set("k", "new")
	if v, _ := c.Get("k"); v != "new" {
		t.Fatalf("Get(k) = %q, want new", v)
	}
	if c.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[int](4, time.Nanosecond)
	c.Set("k", 1)
	time.Sleep(time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestLRUClear(t *testing.T) {
	c := NewLRU[int](4, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("Size() after Clear = %d", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss after Clear")
	}
}
