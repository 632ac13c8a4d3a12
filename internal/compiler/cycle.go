package compiler

import (
	"fmt"
	"slices"
)

// cycleError builds the CyclicGraph error for the nodes Kahn could not place.
//
// The unplaced set contains every node on a cycle plus everything downstream
// of one. Cycle paths are recovered with Tarjan's algorithm over that
// residual subgraph:
//  1. Find strongly connected components among unplaced nodes
//  2. Keep components of size > 1 and self-loops
//  3. Report the shortest cycle through each component's first node
func (gi *graphIndex) cycleError(remaining []int) *CompileError {
	inResidual := make([]bool, len(gi.nodes))
	for _, p := range remaining {
		inResidual[p] = true
	}

	var cycles [][]string
	for _, scc := range gi.tarjanSCC(remaining, inResidual) {
		if len(scc) > 1 || gi.hasSelfLoop(scc[0]) {
			cycles = append(cycles, gi.ids(gi.cyclePath(scc)))
		}
	}

	msg := fmt.Sprintf("%d of %d node(s) could not be ordered", len(remaining), len(gi.nodes))
	return &CompileError{
		Kind:    KindCyclicGraph,
		Message: msg,
		Nodes:   gi.ids(remaining),
		Cycles:  cycles,
	}
}

// hasSelfLoop checks if a node has an edge to itself.
func (gi *graphIndex) hasSelfLoop(node int) bool {
	return slices.Contains(gi.succ[node], node)
}

// tarjanSCC finds strongly connected components restricted to the residual
// nodes. Components are returned sorted by their smallest input position,
// and each component is sorted by position, so output is deterministic.
func (gi *graphIndex) tarjanSCC(nodes []int, inResidual []bool) [][]int {
	var (
		index   = 0
		stack   []int
		indices = make(map[int]int)
		lowlink = make(map[int]int)
		onStack = make(map[int]bool)
		sccs    [][]int
	)

	var strongConnect func(int)
	strongConnect = func(v int) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range gi.succ[v] {
			if !inResidual[w] {
				continue
			}
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root: pop its component
		if lowlink[v] == indices[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.Sort(scc)
			sccs = append(sccs, scc)
		}
	}

	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	slices.SortFunc(sccs, func(a, b []int) int { return a[0] - b[0] })
	return sccs
}

// cyclePath returns the shortest cycle through the component's first node,
// found by breadth-first search inside the component. The start node is
// repeated at the end: [a, b, a].
func (gi *graphIndex) cyclePath(scc []int) []int {
	start := scc[0]
	if gi.hasSelfLoop(start) {
		return []int{start, start}
	}

	member := make(map[int]bool, len(scc))
	for _, n := range scc {
		member[n] = true
	}

	parent := map[int]int{start: -1}
	queue := []int{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range gi.succ[u] {
			if !member[v] {
				continue
			}
			if v == start {
				path := []int{start}
				for n := u; n != start; n = parent[n] {
					path = append(path, n)
				}
				path = append(path, start)
				slices.Reverse(path[1 : len(path)-1])
				return path
			}
			if _, seen := parent[v]; !seen {
				parent[v] = u
				queue = append(queue, v)
			}
		}
	}

	// Unreachable for a strongly connected component.
	return []int{start}
}
