package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/nngen/internal/compiler"
	"github.com/roach88/nngen/internal/ir"
)

// PropertyError is a compiler property violated by a graph.
type PropertyError struct {
	Property string
	Detail   string
}

// Error implements the error interface.
func (e *PropertyError) Error() string {
	return fmt.Sprintf("property %s violated: %s", e.Property, e.Detail)
}

// CheckProperties verifies the graph-independent compiler properties for g
// and returns one message per violation.
func CheckProperties(g ir.Graph) []string {
	var errs []error

	first, firstErr := compiler.Compile(g)
	second, secondErr := compiler.Compile(g)
	if (firstErr == nil) != (secondErr == nil) || (firstErr == nil && first.Code != second.Code) {
		errs = append(errs, &PropertyError{"determinism", "two compilations of the same graph differ"})
	}

	if firstErr != nil {
		if compiler.Generate(g) != compiler.CycleMarker {
			errs = append(errs, &PropertyError{"structural_marker", "failed compilation does not yield the cycle marker"})
		}
		return messages(errs)
	}

	errs = append(errs, checkOrder(g, first.Order)...)
	errs = append(errs, checkEmission(g, first.Code)...)
	return messages(errs)
}

// checkOrder verifies that every node appears once and every resolvable
// edge points forward.
func checkOrder(g ir.Graph, order []string) []error {
	var errs []error
	if len(order) != len(g.Nodes) {
		errs = append(errs, &PropertyError{"completeness",
			fmt.Sprintf("order has %d node(s), graph has %d", len(order), len(g.Nodes))})
	}

	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range g.Edges {
		src, okSrc := pos[e.Source]
		tgt, okTgt := pos[e.Target]
		if okSrc && okTgt && src >= tgt {
			errs = append(errs, &PropertyError{"topological_validity",
				fmt.Sprintf("edge %s → %s runs backwards", e.Source, e.Target)})
		}
	}
	return errs
}

// checkEmission verifies sentinel passthrough and unknown-type tolerance.
func checkEmission(g ir.Graph, code string) []error {
	names, err := compiler.NodeIdentifiers(g)
	if err != nil {
		return []error{err}
	}

	var errs []error
	layers := 0
	for i, n := range g.Nodes {
		if n.IsSentinelInput() {
			continue
		}
		layers++
		if !strings.Contains(code, "self.layer_"+names[i]+"(") {
			errs = append(errs, &PropertyError{"invocation",
				fmt.Sprintf("layer node %q is never invoked", n.ID)})
		}
		if !compiler.IsKnownLayerType(n.LayerType()) &&
			!strings.Contains(code, "# Unknown layer type: "+n.LayerType()) {
			errs = append(errs, &PropertyError{"unknown_type_tolerance",
				fmt.Sprintf("node %q of unknown type %q has no marker comment", n.ID, n.LayerType())})
		}
	}

	// Input nodes emit nothing, so every invocation belongs to a layer node
	if got := strings.Count(code, " = self.layer_"); got != layers {
		errs = append(errs, &PropertyError{"sentinel_passthrough",
			fmt.Sprintf("%d invocation(s) for %d layer node(s)", got, layers)})
	}
	return errs
}

func messages(errs []error) []string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return msgs
}
