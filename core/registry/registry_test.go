package registry

import "testing"

func TestSetGet(t *testing.T) {
	r := New()
	r.SetGlobal("k", 42)
	v, ok := r.GetGlobal("k")
	if !ok || v != 42 {
		t.Errorf("GetGlobal = %v, %v; want 42, true", v, ok)
	}
	if _, ok := r.GetGlobal("missing"); ok {
		t.Error("GetGlobal missing key: want false")
	}
}

func TestLockPanicsOnSet(t *testing.T) {
	r := New()
	r.SetGlobal("k", "v1")
	r.Lock("k")
	if !r.IsLocked("k") {
		t.Fatal("IsLocked after Lock: want true")
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("SetGlobal on locked key should panic")
			}
		}()
		r.SetGlobal("k", "v2")
	}()

	// other keys stay writable
	r.SetGlobal("other", 1)
}

func TestUnlockForTesting(t *testing.T) {
	r := New()
	r.SetGlobal("k", 1)
	r.Lock("k")
	r.UnlockForTesting("k")
	if r.IsLocked("k") {
		t.Fatal("key still locked after UnlockForTesting")
	}
	r.SetGlobal("k", 2)
	if v, _ := r.GetGlobal("k"); v != 2 {
		t.Errorf("GetGlobal = %v, want 2", v)
	}
}
