// Package ir provides the intermediate representation of an editor graph.
//
// A Graph is the node/edge payload produced by the visual editor. The
// compiler reads it and never mutates it. This package contains type
// definitions, ordered decoding for JSON and YAML, literal rendering and
// content hashing. All other internal packages import ir; ir imports nothing
// internal.
//
// Key design constraints:
//   - Params keep their insertion order through every decode and encode path
//   - Float params keep their source literal so emission is verbatim
//   - GraphHash covers node and edge order because order changes output
package ir
