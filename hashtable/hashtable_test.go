package hashtable

import "testing"

func TestSetGetDel(t *testing.T) {
	ht := MkHash(8)
	if _, inserted := ht.Set("a", 1); !inserted {
		t.Fatal("Set() reported an existing key for a brand-new table")
	}
	v, ok := ht.Get("a")
	if !ok || v.(int) != 1 {
		t.Fatalf("Get(\"a\") = (%v, %v), want (1, true)", v, ok)
	}
	ht.Del("a")
	if _, ok := ht.Get("a"); ok {
		t.Fatal("Get() still finds a key after Del()")
	}
}

func TestSetRejectsDuplicateKey(t *testing.T) {
	ht := MkHash(8)
	ht.Set("k", 1)
	v, inserted := ht.Set("k", 2)
	if inserted {
		t.Fatal("Set() reported a fresh insert for an existing key")
	}
	if v.(int) != 1 {
		t.Fatalf("Set() returned %v for an existing key, want the prior value 1", v)
	}
	got, _ := ht.Get("k")
	if got.(int) != 1 {
		t.Fatalf("Get(\"k\") = %v after a rejected overwrite, want 1", got)
	}
}

func TestSizeTracksLiveEntries(t *testing.T) {
	ht := MkHash(4)
	ht.Set("x", 1)
	ht.Set("y", 2)
	if ht.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", ht.Size())
	}
	ht.Del("x")
	if ht.Size() != 1 {
		t.Fatalf("Size() = %d after one Del(), want 1", ht.Size())
	}
}

func TestGetMissingKeyFails(t *testing.T) {
	ht := MkHash(4)
	if _, ok := ht.Get("missing"); ok {
		t.Fatal("Get() found a key that was never set")
	}
}

func TestIterVisitsEveryEntry(t *testing.T) {
	ht := MkHash(4)
	want := map[string]int{"a": 1, "b": 2, "c": 3}
	for k, v := range want {
		ht.Set(k, v)
	}
	seen := map[string]int{}
	ht.Iter(func(k, v interface{}) bool {
		seen[k.(string)] = v.(int)
		return false
	})
	if len(seen) != len(want) {
		t.Fatalf("Iter() visited %d entries, want %d", len(seen), len(want))
	}
	for k, v := range want {
		if seen[k] != v {
			t.Fatalf("Iter() saw %s=%d, want %d", k, seen[k], v)
		}
	}
}
