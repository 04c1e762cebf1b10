package store

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestBoltStore_GetSetDelete(t *testing.T) {
	st := newTestStore(t)

	if _, ok, err := st.Get("missing"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := st.Set("k", "v1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if v, ok, _ := st.Get("k"); !ok || v != "v1" {
		t.Errorf("expected v1, got %q ok=%v", v, ok)
	}

	// Overwrite is silent.
	if err := st.Set("k", "v2"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if v, _, _ := st.Get("k"); v != "v2" {
		t.Errorf("expected overwrite to v2, got %q", v)
	}

	if err := st.Delete("k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := st.Get("k"); ok {
		t.Error("expected key gone after delete")
	}

	// Deleting an absent key is fine.
	if err := st.Delete("k"); err != nil {
		t.Errorf("delete of absent key failed: %v", err)
	}
}

func TestBoltStore_KeysPrefix(t *testing.T) {
	st := newTestStore(t)

	for _, k := range []string{"embedding:cat", "embedding:dog", "labels:result", "words"} {
		if err := st.Set(k, "x"); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := st.Keys("embedding:")
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 embedding keys, got %v", keys)
	}
	if keys[0] != "embedding:cat" || keys[1] != "embedding:dog" {
		t.Errorf("unexpected keys: %v", keys)
	}
}
