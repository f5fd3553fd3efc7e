package autodiff

import (
	"container/heap"
	"fmt"
	"slices"

	"k8s.io/klog/v2"
)

// SortOption configures Sort.
type SortOption func(*sortConfig)

type sortConfig struct {
	less func(a, b NodeID) bool
}

// WithLess sets the tie-break among nodes that are ready at the same time.
// The default prefers the lowest NodeID, i.e. declaration order.
func WithLess(less func(a, b NodeID) bool) SortOption {
	return func(c *sortConfig) {
		c.less = less
	}
}

// Sort orders the nodes of adj so that every producer precedes all of its
// consumers.
//
// It repeatedly removes a node that is not the target of any edge from a
// remaining node. Edge targets missing from adj are treated as nodes without
// consumers. Returns ErrCycleDetected if nodes remain but none is ready.
func Sort(adj Adjacency, opts ...SortOption) ([]NodeID, error) {
	cfg := sortConfig{less: func(a, b NodeID) bool { return a < b }}
	for _, opt := range opts {
		opt(&cfg)
	}

	// pending counts unresolved producer edges per node.
	pending := make(map[NodeID]int, len(adj))
	for id, consumers := range adj {
		if _, ok := pending[id]; !ok {
			pending[id] = 0
		}
		for _, c := range consumers {
			pending[c]++
		}
	}

	ready := &readyQueue{less: cfg.less}
	for id, n := range pending {
		if n == 0 {
			ready.ids = append(ready.ids, id)
		}
	}
	heap.Init(ready)

	order := make([]NodeID, 0, len(pending))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(NodeID)
		order = append(order, id)
		delete(pending, id)
		for _, c := range adj[id] {
			pending[c]--
			if pending[c] == 0 {
				heap.Push(ready, c)
			}
		}
	}

	if len(pending) > 0 {
		stuck := make([]NodeID, 0, len(pending))
		for id := range pending {
			stuck = append(stuck, id)
		}
		slices.Sort(stuck)
		return nil, fmt.Errorf("%w: %d nodes unresolved %v", ErrCycleDetected, len(stuck), stuck)
	}

	klog.V(4).InfoS("Sorted graph", "nodes", len(order))
	return order, nil
}

// readyQueue is a min-heap of nodes with no pending producers.
type readyQueue struct {
	ids  []NodeID
	less func(a, b NodeID) bool
}

func (q *readyQueue) Len() int           { return len(q.ids) }
func (q *readyQueue) Less(i, j int) bool { return q.less(q.ids[i], q.ids[j]) }
func (q *readyQueue) Swap(i, j int)      { q.ids[i], q.ids[j] = q.ids[j], q.ids[i] }
func (q *readyQueue) Push(x any)         { q.ids = append(q.ids, x.(NodeID)) }

func (q *readyQueue) Pop() any {
	last := q.ids[len(q.ids)-1]
	q.ids = q.ids[:len(q.ids)-1]
	return last
}
