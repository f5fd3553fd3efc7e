package autodiff

import (
	"fmt"
	"slices"

	"k8s.io/klog/v2"
)

// Adjacency maps every node reachable from a feed to its direct consumers.
// Terminal nodes map to an empty list. It is a traversal aid derived from the
// nodes' own links and is rebuilt before every ordering.
type Adjacency map[NodeID][]NodeID

// Build injects the fed values into their leaves and returns the adjacency of
// every node reachable forward from them.
//
// Feed keys are visited in ascending ID order, breadth first. A node whose
// edges are already recorded is not expanded again. A nil feed value leaves
// the leaf's current value in place. Nothing is assigned if any key is
// invalid.
func (g *Graph) Build(feed Feed) (Adjacency, error) {
	keys := make([]NodeID, 0, len(feed))
	for id := range feed {
		keys = append(keys, id)
	}
	slices.Sort(keys)

	for _, id := range keys {
		n, err := g.Node(id)
		if err != nil {
			return nil, fmt.Errorf("feed: %w", err)
		}
		if !n.IsLeaf() {
			return nil, fmt.Errorf("feed %s: %w", n, ErrNotLeaf)
		}
	}
	for _, id := range keys {
		if v := feed[id]; v != nil {
			g.nodes[id].value = v
		}
	}

	adj := make(Adjacency)
	queue := slices.Clone(keys)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := adj[id]; seen {
			continue
		}
		consumers := g.nodes[id].Consumers()
		adj[id] = consumers
		queue = append(queue, consumers...)
	}

	klog.V(4).InfoS("Built graph adjacency", "feed", len(keys), "reachable", len(adj))
	return adj, nil
}

// TopologicalSort builds the adjacency for feed and returns its topological
// order.
func (g *Graph) TopologicalSort(feed Feed, opts ...SortOption) ([]NodeID, error) {
	adj, err := g.Build(feed)
	if err != nil {
		return nil, err
	}
	return Sort(adj, opts...)
}
