package compiler

import (
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/nngen/internal/ir"
)

// assignNames gives every layer node a distinct identifier fragment, in
// input order. The first node to claim a fragment keeps SafeIdentifier(id);
// later nodes mapping to the same fragment get a _2, _3, ... suffix.
// Sentinel inputs bind to RootInput and get no name.
func (gi *graphIndex) assignNames() {
	gi.names = make([]string, len(gi.nodes))
	taken := make(map[string]bool, len(gi.nodes))
	for i, n := range gi.nodes {
		if n.IsSentinelInput() {
			continue
		}
		base := SafeIdentifier(n.ID)
		name := base
		for k := 2; taken[name]; k++ {
			name = base + "_" + strconv.Itoa(k)
		}
		taken[name] = true
		gi.names[i] = name
	}
}

// renamed reports whether the node at pos did not get its plain fragment.
func (gi *graphIndex) renamed(pos int) bool {
	return gi.names[pos] != "" && gi.names[pos] != SafeIdentifier(gi.nodes[pos].ID)
}

// normalizedTwins maps each node position to the earlier node whose ID is
// the same text under NFC but differs byte-wise. Such IDs look identical in
// the editor while addressing different nodes.
func (gi *graphIndex) normalizedTwins() map[int]int {
	first := make(map[string]int, len(gi.nodes))
	twins := make(map[int]int)
	for i, n := range gi.nodes {
		key := norm.NFC.String(n.ID)
		if j, ok := first[key]; ok {
			twins[i] = j
			continue
		}
		first[key] = i
	}
	return twins
}

// NodeIdentifiers returns the identifier fragment the compiler uses for each
// node of g, by input position. Sentinel inputs get "". Duplicate IDs fail
// like Compile.
func NodeIdentifiers(g ir.Graph) ([]string, error) {
	gi, err := buildIndex(g)
	if err != nil {
		return nil, err
	}
	return gi.names, nil
}
