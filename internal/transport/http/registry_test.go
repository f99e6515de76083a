package http

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistryEmitSurvivesConcurrentRemove(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("conn-%d", i)
		ch := r.Add(id)
		go func() {
			for range ch {
			}
		}()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Emit(id, "round_results", j)
			}
		}()
		go func() {
			defer wg.Done()
			r.Remove(id)
		}()
		wg.Wait()

		// After removal the connection is gone and further emits are no-ops.
		r.Emit(id, "game_over", nil)
		r.Remove(id)
	}
}

func TestRegistryDropsOldestWhenFull(t *testing.T) {
	r := NewRegistry()
	ch := r.Add("conn-1")

	for i := 1; i <= 33; i++ {
		r.Emit("conn-1", "event", i)
	}

	if len(ch) != 32 {
		t.Fatalf("expected full channel of 32, got %d", len(ch))
	}
	first := <-ch
	if first.Payload.(int) != 2 {
		t.Fatalf("expected oldest event dropped, front is %v", first.Payload)
	}
	var last outboundMessage
	for len(ch) > 0 {
		last = <-ch
	}
	if last.Payload.(int) != 33 {
		t.Fatalf("expected newest event kept, tail is %v", last.Payload)
	}
}

func TestRegistryEmitToUnknownConnection(t *testing.T) {
	r := NewRegistry()
	r.Emit("nobody", "error", nil)
	r.Remove("nobody")
}
