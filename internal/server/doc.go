// Package server exposes the compiler over HTTP.
//
// Routes:
//   - POST /generate: compile an editor graph, respond {"code": ...}
//   - GET /: the editor page, <static>/index.html
//   - GET /static/: files under the static directory
//   - GET /healthz: liveness
//
// Identical graphs compiled concurrently share one compilation, keyed by
// ir.GraphHash. When a Recorder is configured every compilation is appended
// to the history.
package server
