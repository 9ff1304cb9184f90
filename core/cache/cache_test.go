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
	c := GetInstance()
	key := "test-set-get"
	c.Set(key, "val", 0, nil)
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get: want true")
	}
	if got != "val" {
		t.Errorf("Get = %v, want val", got)
	}
	c.Delete(key)
}

func TestGet_Missing(t *testing.T) {
	c := GetInstance()
	_, ok := c.Get("nonexistent-key-xyz")
	if ok {
		t.Error("Get missing key: want false")
	}
}

func TestSet_TTLExpiry(t *testing.T) {
	c := NewCache()
	c.Set("ttl-key", "v", 1, nil)
	if _, ok := c.Get("ttl-key"); !ok {
		t.Fatal("value should be readable before expiry")
	}
	// force the deadline into the past instead of sleeping
	v, _ := c.m.Load("ttl-key")
	item := v.(cacheItem)
	item.ExpiresAt = time.Now().Add(-time.Second).UnixNano()
	c.m.Store("ttl-key", item)
	if _, ok := c.Get("ttl-key"); ok {
		t.Error("expired value should not be returned")
	}
	if _, ok := c.m.Load("ttl-key"); ok {
		t.Error("expired value should be evicted on read")
	}
}

func TestDelete(t *testing.T) {
	c := GetInstance()
	key := "test-delete"
	c.Set(key, "x", 0, nil)
	c.Delete(key)
	_, ok := c.Get(key)
	if ok {
		t.Error("Delete: key should be gone")
	}
}

func TestSetN_GetN_DeleteN(t *testing.T) {
	c := GetInstance()
	c.SetN([]interface{}{"a", "b"}, "composite-val", 0, nil)
	got, ok := c.GetN("a", "b")
	if !ok || got != "composite-val" {
		t.Errorf("GetN = %v, %v; want composite-val, true", got, ok)
	}
	c.DeleteN("a", "b")
	_, ok = c.GetN("a", "b")
	if ok {
		t.Error("DeleteN: key should be gone")
	}
}

func TestTagKey_DeleteByTag(t *testing.T) {
	c := GetInstance()
	key1, key2, other := "tag-k1", "tag-k2", "tag-other"
	c.Set(key1, "v1", 0, []string{"t1"})
	c.Set(key2, "v2", 0, []string{"t1"})
	c.Set(other, "v3", 0, []string{"t9"})
	defer c.Delete(other)

	c.DeleteByTag("t1")
	if _, ok := c.Get(key1); ok {
		t.Error("DeleteByTag: key1 should be gone")
	}
	if _, ok := c.Get(key2); ok {
		t.Error("DeleteByTag: key2 should be gone")
	}
	if _, ok := c.Get(other); !ok {
		t.Error("DeleteByTag: other tag must survive")
	}
}
