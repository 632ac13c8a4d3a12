// Package harness runs graph scenarios through the compiler and checks the
// result against declared expectations and golden programs.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: fan_out
//	description: "Two heads on one input, only the last is returned"
//	graph:
//	  nodes:
//	    - id: in
//	      type: input
//	      data: {layerType: input, label: Input}
//	    - id: head_a
//	      data: {layerType: nn.ReLU}
//	  edges:
//	    - {source: in, target: head_a}
//	expect:
//	  order: [in, head_a]
//	  output: head_a
//	  contains: ["return out_head_a"]
//	  diagnostics: []
//
// Every expect key is optional. An absent key is not checked; an empty
// diagnostics list asserts that there are none. error names a structural
// failure kind (cyclic_graph, duplicate_node).
//
// # Properties
//
// Besides the declared expectations every run checks the compiler
// properties that must hold for any graph: repeated compilation is
// byte-identical, the order respects every edge, sentinel inputs declare no
// layer, and unknown layer types are still invoked.
//
// # Golden Programs
//
// The generated program, or the cycle marker, is compared byte for byte to
// golden/<scenario-file>.golden next to the scenario. RunWithGolden does the
// same through goldie for use in go test.
package harness
