package cache

import (
	"testing"
	"time"
)

func TestKeyJoinsWithColon(t *testing.T) {
	got := Key("engine1", "src/app.ts", "fp123")
	want := "engine1:src/app.ts:fp123"
	if got != want {
		t.Fatalf("Key() = %q, want %q", got, want)
	}
}

func TestFingerprintIsOrderIndependent(t *testing.T) {
	a := Fingerprint("drift=7", "coupling=15", "window=50")
	b := Fingerprint("window=50", "drift=7", "coupling=15")
	if a != b {
		t.Fatalf("Fingerprint not order-independent: %q != %q", a, b)
	}
}

func TestManagerGetSetMiss(t *testing.T) {
	m := NewManager(nil)

	if _, ok := m.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	m.Set("k", 42)
	v, ok := m.Get("k")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if v.(int) != 42 {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestManagerBoundedAtMaxEntries(t *testing.T) {
	m := NewManager(nil)
	for i := 0; i < MaxEntries+20; i++ {
		m.Set(Key("k", string(rune('a'+i%26)), time.Duration(i).String()), i)
	}
	if m.Len() > MaxEntries {
		t.Fatalf("cache grew to %d entries, want <= %d", m.Len(), MaxEntries)
	}
}

func TestManagerDeleteAndPurge(t *testing.T) {
	m := NewManager(nil)
	m.Set("a", 1)
	m.Set("b", 2)
	m.Delete("a")
	if _, ok := m.Get("a"); ok {
		t.Fatal("expected miss after Delete")
	}
	m.Purge()
	if m.Len() != 0 {
		t.Fatalf("Len() after Purge = %d, want 0", m.Len())
	}
}
