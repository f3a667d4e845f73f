package version_test

import (
	"sync"
	"testing"

	"github.com/netigo/netigo-go/internal/version"
)

func TestCounter_StartsAtOne(t *testing.T) {
	c := version.NewCounter()
	if got := c.Current(); got != 1 {
		t.Fatalf("expected initial value 1, got %d", got)
	}
}

func TestCounter_BumpIncrementsByExactlyOne(t *testing.T) {
	c := version.NewCounter()

	before := c.Current()
	scopes := []string{
		version.ScopeTransactions,
		version.ScopeNotes,
		version.ScopeRecurring,
		version.ScopeCategories,
		version.ScopeTransactions,
	}
	for _, scope := range scopes {
		c.Bump(scope)
	}

	if got := c.Current(); got != before+int64(len(scopes)) {
		t.Errorf("expected %d after %d bumps, got %d", before+int64(len(scopes)), len(scopes), got)
	}
}

func TestCounter_SubscribersSeeTypedEvents(t *testing.T) {
	c := version.NewCounter()

	var events []version.DataChanged
	c.Subscribe(func(e version.DataChanged) {
		events = append(events, e)
	})

	c.Bump(version.ScopeNotes)
	c.Bump(version.ScopeTransactions)

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Scope != version.ScopeNotes || events[0].Version != 2 {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[1].Scope != version.ScopeTransactions || events[1].Version != 3 {
		t.Errorf("unexpected second event: %+v", events[1])
	}
}

func TestCounter_MonotonicUnderConcurrency(t *testing.T) {
	c := version.NewCounter()

	const goroutines = 8
	const bumpsEach = 250

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < bumpsEach; j++ {
				c.Bump(version.ScopeTransactions)
			}
		}()
	}
	wg.Wait()

	want := int64(1 + goroutines*bumpsEach)
	if got := c.Current(); got != want {
		t.Errorf("expected %d, got %d", want, got)
	}
}

func TestCounter_Reset(t *testing.T) {
	c := version.NewCounter()
	c.Bump(version.ScopeNotes)
	c.Reset()
	if got := c.Current(); got != 1 {
		t.Errorf("expected 1 after reset, got %d", got)
	}
}
