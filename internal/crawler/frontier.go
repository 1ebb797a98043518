package crawler

import "sync"

// Frontier holds the FIFO queue of URLs awaiting a fetch attempt and
// the set of every URL key admitted during the session. All mutation
// goes through TryAdmit and Take; the seen set only grows and the
// admitted counter never exceeds the page budget.
type Frontier struct {
	mu       sync.Mutex
	queue    []string
	seen     map[string]struct{}
	admitted int
	maxPages int
}

// NewFrontier creates an empty frontier with the given page budget.
func NewFrontier(maxPages int) *Frontier {
	return &Frontier{
		seen:     make(map[string]struct{}),
		maxPages: maxPages,
	}
}

// TryAdmit offers a discovered URL for eventual fetching. The key
// computation, seen-set membership check, budget check, insert,
// counter increment and enqueue form one critical section, so
// concurrent callers can neither double-admit a key nor push the
// admitted count past the budget.
func (f *Frontier) TryAdmit(rawURL string) Admission {
	key := NormalizeURL(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.seen[key]; ok {
		return AdmissionDuplicate
	}
	if f.admitted >= f.maxPages {
		return AdmissionBudgetExhausted
	}

	f.seen[key] = struct{}{}
	f.admitted++
	f.queue = append(f.queue, rawURL)
	return AdmissionAccepted
}

// Take removes and returns the head of the queue. Dequeue order is
// FIFO relative to admission order, which yields the breadth-first
// traversal approximation.
func (f *Frontier) Take() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	u := f.queue[0]
	f.queue = f.queue[1:]
	return u, true
}

// QueueLen returns the number of URLs awaiting a fetch attempt.
func (f *Frontier) QueueLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Admitted returns the number of URLs ever admitted.
func (f *Frontier) Admitted() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admitted
}
