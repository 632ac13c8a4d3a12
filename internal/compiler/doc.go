// Package compiler turns an editor graph into a PyTorch model definition.
//
// The pass is:
//  1. Build adjacency and in-degree from edges whose endpoints both exist
//  2. Order nodes with Kahn's algorithm, FIFO tie-break in input order
//  3. Reject graphs that cannot be fully ordered (cycles) with CompileError
//  4. Emit one declaration and one invocation per layer node
//  5. Assemble the program around the emitted lines
//
// Compile is pure: no I/O, no shared state, no randomness. Identical input
// produces byte-identical output and concurrent calls need no coordination.
//
// Local problems never abort compilation. An unknown layer type becomes a
// comment, a dangling edge is dropped, a layer with no input reads the root
// input variable. Diagnose reports each of these as a Diagnostic.
package compiler
