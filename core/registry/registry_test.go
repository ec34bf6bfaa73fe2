package registry

import "testing"

func TestRegistry_SetGet(t *testing.T) {
	r := NewRegistry()
	r.SetGlobal("k", 42)
	v, ok := r.GetGlobal("k")
	if !ok || v.(int) != 42 {
		t.Errorf("GetGlobal = %v, %v; want 42, true", v, ok)
	}
}

func TestRegistry_Get_Missing(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.GetGlobal("nope"); ok {
		t.Error("want ok=false for missing key")
	}
}

func TestRegistry_Lock_PanicsOnSet(t *testing.T) {
	r := NewRegistry()
	r.SetGlobal("k", 1)
	r.Lock("k")
	if !r.IsLocked("k") {
		t.Fatal("IsLocked = false after Lock")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic on SetGlobal after Lock")
		}
	}()
	r.SetGlobal("k", 2)
}

func TestRegistry_UnlockForTesting(t *testing.T) {
	r := NewRegistry()
	r.SetGlobal("k", 1)
	r.Lock("k")
	r.UnlockForTesting("k")
	r.SetGlobal("k", 2) // must not panic
	v, _ := r.GetGlobal("k")
	if v.(int) != 2 {
		t.Errorf("value = %v, want 2", v)
	}
}
