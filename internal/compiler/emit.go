package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/nngen/internal/ir"
)

// RootInput is the forward() argument that sentinel input nodes bind to.
const RootInput = "x"

const (
	layerPrefix  = "layer_"
	outputPrefix = "out_"
	bodyIndent   = "        "
)

// stepKind is the outcome of processing one node.
type stepKind int

const (
	// stepBound: sentinel input, bound to RootInput, nothing emitted.
	stepBound stepKind = iota
	// stepDeclared: known layer type, field declared and invoked.
	stepDeclared
	// stepCommented: unknown layer type, declaration commented out, still invoked.
	stepCommented
)

// step is the per-node result of emission.
type step struct {
	kind        stepKind
	node        int
	declaration string // __init__ line, empty for stepBound
	invocation  string // forward line, empty for stepBound
	input       string // variable read by the invocation
	output      string // variable bound for successors
}

// emitter carries the variable bindings for a single compilation.
type emitter struct {
	gi       *graphIndex
	bindings map[int]string // node position → output variable
}

func newEmitter(gi *graphIndex) *emitter {
	return &emitter{gi: gi, bindings: make(map[int]string, len(gi.nodes))}
}

// emit processes one node in execution order.
func (em *emitter) emit(pos int) step {
	node := em.gi.nodes[pos]
	if node.IsSentinelInput() {
		em.bindings[pos] = RootInput
		return step{kind: stepBound, node: pos, output: RootInput}
	}

	safe := em.gi.names[pos]
	field := layerPrefix + safe

	s := step{kind: stepDeclared, node: pos}
	layerType := node.LayerType()
	if IsKnownLayerType(layerType) {
		s.declaration = fmt.Sprintf("%sself.%s = %s(%s)", bodyIndent, field, layerType, formatParams(node.Data.Params))
	} else {
		s.kind = stepCommented
		s.declaration = fmt.Sprintf("%s# Unknown layer type: %s", bodyIndent, layerType)
	}

	s.input = em.inputFor(pos)
	s.output = outputPrefix + safe
	em.bindings[pos] = s.output
	s.invocation = fmt.Sprintf("%s%s = self.%s(%s)", bodyIndent, s.output, field, s.input)
	return s
}

// inputFor resolves the variable feeding a node: the binding of the source
// of its first incoming edge, or RootInput when there is no edge or the
// source has no binding. Further incoming edges are ignored.
func (em *emitter) inputFor(pos int) string {
	sources := em.gi.incoming[pos]
	if len(sources) == 0 {
		return RootInput
	}
	if v, ok := em.bindings[sources[0]]; ok {
		return v
	}
	return RootInput
}

// outputOf returns the variable bound to a node, or RootInput.
func (em *emitter) outputOf(pos int) string {
	if v, ok := em.bindings[pos]; ok {
		return v
	}
	return RootInput
}

// formatParams renders name=value pairs in insertion order.
func formatParams(params ir.Params) string {
	parts := make([]string, len(params))
	for i, p := range params {
		lit := ir.ParamNull{}.Literal()
		if p.Value != nil {
			lit = p.Value.Literal()
		}
		parts[i] = p.Name + "=" + lit
	}
	return strings.Join(parts, ", ")
}

// SafeIdentifier turns a node ID into an identifier fragment by replacing
// every character outside [A-Za-z0-9_] with an underscore.
func SafeIdentifier(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
