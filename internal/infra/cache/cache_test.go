package cache_test

import (
	"testing"
	"time"

	"github.com/netigo/netigo-go/internal/infra/cache"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("key1", "value1")
	val, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val != "value1" {
		t.Errorf("expected 'value1', got '%s'", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	_, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[string](50 * time.Millisecond)

	c.Set("key1", "value1")
	time.Sleep(100 * time.Millisecond)

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("key1", "value1")
	c.Delete("key1")

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestCache_KeysSkipExpired(t *testing.T) {
	c := cache.New[time.Time](60 * time.Millisecond)

	c.Set("alice", time.Now())
	time.Sleep(90 * time.Millisecond)
	c.Set("bob", time.Now())
	c.Set("carol", time.Now())

	keys := c.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 unexpired keys, got %d: %v", len(keys), keys)
	}
	if keys[0] != "bob" || keys[1] != "carol" {
		t.Errorf("expected sorted [bob carol], got %v", keys)
	}
}
