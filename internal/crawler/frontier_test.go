package crawler

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontierAdmitAndTake(t *testing.T) {
	f := NewFrontier(10)

	assert.Equal(t, AdmissionAccepted, f.TryAdmit("http://example.com/a"))
	assert.Equal(t, AdmissionAccepted, f.TryAdmit("http://example.com/b"))
	assert.Equal(t, 2, f.Admitted())
	assert.Equal(t, 2, f.QueueLen())

	u, ok := f.Take()
	require.True(t, ok)
	assert.Equal(t, "http://example.com/a", u)

	u, ok = f.Take()
	require.True(t, ok)
	assert.Equal(t, "http://example.com/b", u)

	_, ok = f.Take()
	assert.False(t, ok)
}

func TestFrontierDuplicate(t *testing.T) {
	f := NewFrontier(10)

	assert.Equal(t, AdmissionAccepted, f.TryAdmit("http://example.com/page"))
	assert.Equal(t, AdmissionDuplicate, f.TryAdmit("http://example.com/page"))
	// A fragment variant is the same page.
	assert.Equal(t, AdmissionDuplicate, f.TryAdmit("http://example.com/page#section"))
	// Case variants of the host too.
	assert.Equal(t, AdmissionDuplicate, f.TryAdmit("http://EXAMPLE.com/page"))

	assert.Equal(t, 1, f.Admitted())
}

func TestFrontierBudget(t *testing.T) {
	f := NewFrontier(2)

	assert.Equal(t, AdmissionAccepted, f.TryAdmit("http://example.com/1"))
	assert.Equal(t, AdmissionAccepted, f.TryAdmit("http://example.com/2"))
	assert.Equal(t, AdmissionBudgetExhausted, f.TryAdmit("http://example.com/3"))
	// Duplicates still report duplicate, not budget.
	assert.Equal(t, AdmissionDuplicate, f.TryAdmit("http://example.com/1"))

	assert.Equal(t, 2, f.Admitted())
}

func TestFrontierFIFOOrder(t *testing.T) {
	f := NewFrontier(100)

	var want []string
	for i := 0; i < 20; i++ {
		u := fmt.Sprintf("http://example.com/page-%02d", i)
		want = append(want, u)
		require.Equal(t, AdmissionAccepted, f.TryAdmit(u))
	}

	var got []string
	for {
		u, ok := f.Take()
		if !ok {
			break
		}
		got = append(got, u)
	}
	assert.Equal(t, want, got, "dequeue order must match admission order")
}

// Concurrent admission of overlapping URL sets must never double-admit
// a key or push the admitted count past the budget.
func TestFrontierConcurrentAdmission(t *testing.T) {
	const (
		budget     = 50
		goroutines = 16
		urls       = 200
	)

	f := NewFrontier(budget)

	var wg sync.WaitGroup
	accepted := make([]int, goroutines)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < urls; i++ {
				// All goroutines offer the same URL set.
				if f.TryAdmit(fmt.Sprintf("http://example.com/p%d", i)) == AdmissionAccepted {
					accepted[g]++
				}
			}
		}(g)
	}
	wg.Wait()

	total := 0
	for _, n := range accepted {
		total += n
	}

	assert.Equal(t, budget, total, "each key admitted at most once, up to the budget")
	assert.Equal(t, budget, f.Admitted())
	assert.Equal(t, budget, f.QueueLen())
}
