package fieldset

import (
	"sync"
	"testing"
)

func TestUse_Caches(t *testing.T) {
	a, err := Use[mini]()
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}
	b, _ := Use[mini]()
	if a != b {
		t.Error("Use() built a second registry for the same type")
	}
}

func TestUse_Concurrent(t *testing.T) {
	Reset()

	var wg sync.WaitGroup
	regs := make([]*Registry[tagged], 16)
	for i := range regs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			regs[i] = MustUse[tagged]()
		}(i)
	}
	wg.Wait()

	for _, r := range regs[1:] {
		if r != regs[0] {
			t.Fatal("concurrent Use() returned different registries")
		}
	}
}

func TestReset_ClearsCache(t *testing.T) {
	a := MustUse[mini]()
	Reset()
	b := MustUse[mini]()
	if a == b {
		t.Error("Reset() did not clear the cache")
	}
}
