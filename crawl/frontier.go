package crawl

import (
	"container/heap"
	"sync"

	"github.com/fwojciec/catmap/bloom"
)

// CategoryRef is one category queued for exploration.
type CategoryRef struct {
	Label    string
	URL      string
	Kind     CategoryKind
	Depth    int
	Priority int
}

// Frontier is an in-memory category frontier with priority queue and
// Bloom filter deduplication over canonical category URLs. Navigation
// trees routinely list the same landing page under several parents;
// the frontier makes sure it is explored once.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.SeenSet
	queue *refHeap
	seq   int
}

// NewFrontier creates a new Frontier sized for n expected categories
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &refHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewSeenSet(n, fpRate),
		queue: h,
	}
}

// Push adds a category to the frontier.
// Returns false if its URL has already been seen.
func (f *Frontier) Push(ref CategoryRef) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.Seen(ref.URL) {
		return false
	}
	f.seen.Record(ref.URL)

	f.seq++
	heap.Push(f.queue, queuedRef{CategoryRef: ref, seq: f.seq})
	return true
}

// Pop returns the next category by priority, then shallowest depth,
// then insertion order. The bool result is false if the frontier is
// empty.
func (f *Frontier) Pop() (CategoryRef, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return CategoryRef{}, false
	}
	q, _ := heap.Pop(f.queue).(queuedRef)
	return q.CategoryRef, true
}

// Len returns the number of categories in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been queued before.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Seen(url)
}

// queuedRef pairs a CategoryRef with its insertion sequence so equal
// priorities pop deterministically.
type queuedRef struct {
	CategoryRef
	seq int
}

// refHeap implements heap.Interface for the category priority queue.
// Higher priority refs are popped first.
type refHeap []queuedRef

func (h refHeap) Len() int { return len(h) }

func (h refHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	if h[i].Depth != h[j].Depth {
		return h[i].Depth < h[j].Depth
	}
	return h[i].seq < h[j].seq
}

func (h refHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *refHeap) Push(x any) {
	q, _ := x.(queuedRef)
	*h = append(*h, q)
}

func (h *refHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
