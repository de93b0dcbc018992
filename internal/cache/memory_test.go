package cache

import (
	"fmt"
	"slices"
	"sync"
	"testing"
)

func TestMemory_FetchAbsent(t *testing.T) {
	t.Parallel()
	m := NewMemory[string]()

	if _, ok := m.Fetch("missing"); ok {
		t.Error("should not find a key that was never set")
	}

	m.Set("present", []string{"A"})
	if _, ok := m.Fetch("missing"); ok {
		t.Error("should not find a key that was never set")
	}
}

func TestMemory_SetOwnsCopy(t *testing.T) {
	t.Parallel()
	m := NewMemory[string]()

	in := []string{"Train A", "Train B"}
	m.Set("08:00:00", in)
	in[0] = "mutated"

	got, ok := m.Fetch("08:00:00")
	if !ok {
		t.Fatal("should find key")
	}
	if !slices.Equal(got, []string{"Train A", "Train B"}) {
		t.Errorf("got %v, want original values", got)
	}

	// Mutating a fetched slice must not leak back either.
	got[1] = "mutated"
	again, _ := m.Fetch("08:00:00")
	if again[1] != "Train B" {
		t.Errorf("fetched slice aliases stored value: %v", again)
	}
}

func TestMemory_SetReplaces(t *testing.T) {
	t.Parallel()
	m := NewMemory[int]()

	m.Set("k", []int{1, 2, 3})
	m.Set("k", []int{4})

	got, _ := m.Fetch("k")
	if !slices.Equal(got, []int{4}) {
		t.Errorf("got %v, want [4]", got)
	}
	if m.Len() != 1 {
		t.Errorf("len = %d, want 1", m.Len())
	}
}

func TestMemory_EmptyIsPresent(t *testing.T) {
	t.Parallel()
	m := NewMemory[string]()

	m.Set("empty", nil)
	got, ok := m.Fetch("empty")
	if !ok {
		t.Fatal("empty value should still be present")
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestMemory_Keys(t *testing.T) {
	t.Parallel()
	m := NewMemory[int]()

	for _, k := range []string{"c", "a", "b"} {
		m.Set(k, []int{1})
	}

	if got := m.Keys(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("keys = %v, want [a b c]", got)
	}
}

func TestMemory_DeletePurge(t *testing.T) {
	t.Parallel()
	m := NewMemory[int]()

	m.Set("a", []int{1})
	m.Set("b", []int{2})

	m.Delete("a")
	m.Delete("never-set")
	if _, ok := m.Fetch("a"); ok {
		t.Error("should not find deleted key")
	}
	if _, ok := m.Fetch("b"); !ok {
		t.Error("delete should not touch other keys")
	}

	m.Purge()
	if m.Len() != 0 {
		t.Errorf("len after purge = %d, want 0", m.Len())
	}
}

func TestMemory_ConcurrentDisjointSets(t *testing.T) {
	t.Parallel()
	m := NewMemory[string]()

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for w := range writers {
		wg.Go(func() {
			for i := range perWriter {
				k := fmt.Sprintf("w%d-k%d", w, i)
				m.Set(k, []string{k})
				m.Keys()
			}
		})
	}
	wg.Wait()

	keys := m.Keys()
	if len(keys) != writers*perWriter {
		t.Fatalf("keys = %d, want %d", len(keys), writers*perWriter)
	}
	for _, k := range keys {
		v, ok := m.Fetch(k)
		if !ok || len(v) != 1 || v[0] != k {
			t.Errorf("key %q = %v, want [%s]", k, v, k)
		}
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	s, err := New[int](0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Memory[int]); !ok {
		t.Errorf("New(0) = %T, want *Memory[int]", s)
	}

	s, err = New[int](16)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Bounded[int]); !ok {
		t.Errorf("New(16) = %T, want *Bounded[int]", s)
	}

	if _, err := New[int](-1); err == nil {
		t.Error("negative size should fail")
	}
}
