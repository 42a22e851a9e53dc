package cmd

import (
	"fmt"
	"sort"
	"sync"
	"testing"
)

func TestPendingSetMarkAndDrain(t *testing.T) {
	p := newPendingSet()

	p.mark("crate.png")
	p.mark("barrel.png")
	p.mark("crate.png")

	got := p.drain()
	sort.Strings(got)
	want := []string{"barrel.png", "crate.png"}
	if len(got) != len(want) {
		t.Fatalf("drain() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("drain()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if left := p.drain(); len(left) != 0 {
		t.Errorf("second drain() = %v, want empty", left)
	}
}

// A burst of watcher events must be safe to mark while the debounce
// timer drains on its own goroutine. Run with -race.
func TestPendingSetConcurrentMarkAndDrain(t *testing.T) {
	p := newPendingSet()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 400; i++ {
			p.mark(fmt.Sprintf("asset-%02d.png", i%10))
		}
	}()

	drained := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		for _, name := range p.drain() {
			drained[name] = struct{}{}
		}
	}
	wg.Wait()

	// Anything still marked survives to the next drain.
	for _, name := range p.drain() {
		drained[name] = struct{}{}
	}

	if len(drained) != 10 {
		t.Errorf("drained %d distinct names, want 10", len(drained))
	}
}
