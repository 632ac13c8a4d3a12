package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/nngen/internal/ir"
)

// graphIndex is the positional view of a graph used by every compiler stage.
// Nodes are addressed by their index in the input slice.
type graphIndex struct {
	nodes    []ir.Node
	index    map[string]int // node ID → position
	succ     [][]int        // successors per node, edge order
	incoming [][]int        // sources per node, edge order
	inDegree []int
	dropped  []int    // indices into the edge slice of edges with an unknown endpoint
	names    []string // identifier fragment per node, empty for sentinel inputs
}

// buildIndex constructs adjacency and in-degree from the edges whose
// endpoints both resolve. Duplicate node IDs are rejected.
func buildIndex(g ir.Graph) (*graphIndex, error) {
	gi := &graphIndex{
		nodes:    g.Nodes,
		index:    make(map[string]int, len(g.Nodes)),
		succ:     make([][]int, len(g.Nodes)),
		incoming: make([][]int, len(g.Nodes)),
		inDegree: make([]int, len(g.Nodes)),
	}

	var dups []string
	for i, n := range g.Nodes {
		if _, seen := gi.index[n.ID]; seen {
			dups = append(dups, n.ID)
			continue
		}
		gi.index[n.ID] = i
	}
	if len(dups) > 0 {
		return nil, &CompileError{
			Kind:    KindDuplicateNode,
			Message: fmt.Sprintf("duplicate node id(s): %s", quoteJoin(dups)),
			Nodes:   dups,
		}
	}

	for i, e := range g.Edges {
		src, okSrc := gi.index[e.Source]
		tgt, okTgt := gi.index[e.Target]
		if !okSrc || !okTgt {
			gi.dropped = append(gi.dropped, i)
			continue
		}
		gi.succ[src] = append(gi.succ[src], tgt)
		gi.incoming[tgt] = append(gi.incoming[tgt], src)
		gi.inDegree[tgt]++
	}

	gi.assignNames()
	return gi, nil
}

// topoOrder runs Kahn's algorithm. The queue is seeded with zero in-degree
// nodes in input order; newly freed successors join the back.
// It returns the order and the nodes that could not be placed.
func (gi *graphIndex) topoOrder() (order []int, remaining []int) {
	inDegree := make([]int, len(gi.inDegree))
	copy(inDegree, gi.inDegree)

	queue := make([]int, 0, len(gi.nodes))
	for i, d := range inDegree {
		if d == 0 {
			queue = append(queue, i)
		}
	}

	order = make([]int, 0, len(gi.nodes))
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)

		for _, v := range gi.succ[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	if len(order) < len(gi.nodes) {
		placed := make([]bool, len(gi.nodes))
		for _, i := range order {
			placed[i] = true
		}
		for i := range gi.nodes {
			if !placed[i] {
				remaining = append(remaining, i)
			}
		}
	}
	return order, remaining
}

// ids maps node positions to node IDs.
func (gi *graphIndex) ids(positions []int) []string {
	out := make([]string, len(positions))
	for i, p := range positions {
		out[i] = gi.nodes[p].ID
	}
	return out
}

// TopologicalOrder returns node IDs in execution order.
// It fails with a CompileError when the graph has a cycle or duplicate IDs.
func TopologicalOrder(g ir.Graph) ([]string, error) {
	gi, err := buildIndex(g)
	if err != nil {
		return nil, err
	}
	order, remaining := gi.topoOrder()
	if len(remaining) > 0 {
		return nil, gi.cycleError(remaining)
	}
	return gi.ids(order), nil
}

func quoteJoin(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = fmt.Sprintf("%q", id)
	}
	return strings.Join(quoted, ", ")
}
