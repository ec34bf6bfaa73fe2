package cache

import (
	"testing"
	"time"
)

func TestNewCache(t *testing.T) {
	c := NewCache()
	if c == nil {
		t.Fatal("NewCache returned nil")
	}
}

func TestGetInstance(t *testing.T) {
	inst := GetInstance()
	if inst == nil {
		t.Fatal("GetInstance returned nil")
	}
	if GetInstance() != inst {
		t.Error("GetInstance should return same instance")
	}
}

func TestSet_Get(t *testing.T) {
	c := NewCache()
	key := "test-set-get"
	c.Set(key, "val", 0, nil)
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get: want true")
	}
	if got != "val" {
		t.Errorf("Get = %v, want val", got)
	}
}

func TestGet_Missing(t *testing.T) {
	c := NewCache()
	_, ok := c.Get("nonexistent-key-xyz")
	if ok {
		t.Error("Get missing key: want false")
	}
}

func TestGet_Expired(t *testing.T) {
	c := NewCache()
	key := "test-expired"
	c.Set(key, "v", 1, nil)
	// Force expiry by rewriting with an already-past deadline
	c.m.Store(key, cacheItem{Value: "v", ExpiresAt: time.Now().Add(-time.Second).UnixNano()})
	if _, ok := c.Get(key); ok {
		t.Error("Get expired key: want false")
	}
}

func TestDelete(t *testing.T) {
	c := NewCache()
	key := "test-delete"
	c.Set(key, "x", 0, nil)
	c.Delete(key)
	if _, ok := c.Get(key); ok {
		t.Error("Delete: key should be gone")
	}
}

func TestSetN_GetN_DeleteN(t *testing.T) {
	c := NewCache()
	c.SetN([]interface{}{"a", "b"}, "composite-val", 0, nil)
	got, ok := c.GetN("a", "b")
	if !ok || got != "composite-val" {
		t.Errorf("GetN = %v, %v; want composite-val, true", got, ok)
	}
	c.DeleteN("a", "b")
	if _, ok = c.GetN("a", "b"); ok {
		t.Error("DeleteN: key should be gone")
	}
}

func TestTagKey_GetKeysByTag_DeleteByTag(t *testing.T) {
	c := NewCache()
	key1, key2 := "tag-k1", "tag-k2"
	c.Set(key1, "v1", 0, []string{"t1"})
	c.Set(key2, "v2", 0, []string{"t1"})

	keys := c.GetKeysByTag("t1")
	if len(keys) != 2 {
		t.Errorf("GetKeysByTag = %d keys, want 2", len(keys))
	}

	c.DeleteByTag("t1")
	if _, ok := c.Get(key1); ok {
		t.Error("DeleteByTag: key1 should be gone")
	}
	if _, ok := c.Get(key2); ok {
		t.Error("DeleteByTag: key2 should be gone")
	}
	if got := c.GetKeysByTag("t1"); len(got) != 0 {
		t.Errorf("GetKeysByTag after DeleteByTag = %d keys, want 0", len(got))
	}
}
