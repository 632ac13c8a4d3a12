package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/roach88/nngen/internal/compiler"
	"github.com/roach88/nngen/internal/ir"
	"github.com/roach88/nngen/internal/store"
)

// GraphHashHeader carries the graph hash of a /generate request.
const GraphHashHeader = "X-Graph-Hash"

// Request error kinds, alongside compiler.ErrorKind values.
const (
	KindBadRequest      = "bad_request"
	KindPayloadTooLarge = "payload_too_large"
)

// GenerateResponse is the body of POST /generate.
//
// Code always holds either the program or compiler.CycleMarker, so editors
// that only read "code" keep working. Error is set on structural failures.
type GenerateResponse struct {
	Code        string                `json:"code"`
	Diagnostics []compiler.Diagnostic `json:"diagnostics,omitempty"`
	Error       *ErrorBody            `json:"error,omitempty"`
}

// ErrorBody describes why no program was produced.
type ErrorBody struct {
	Kind    string     `json:"kind"`
	Message string     `json:"message"`
	Nodes   []string   `json:"nodes,omitempty"`
	Cycles  [][]string `json:"cycles,omitempty"`
}

// generateRequest is the editor payload. Both lists are required; an
// empty graph is sent as {"nodes": [], "edges": []}.
type generateRequest struct {
	Nodes *[]ir.Node `json:"nodes"`
	Edges *[]ir.Edge `json:"edges"`
}

func (r generateRequest) graph() (ir.Graph, error) {
	var missing []string
	if r.Nodes == nil {
		missing = append(missing, "nodes")
	}
	if r.Edges == nil {
		missing = append(missing, "edges")
	}
	if len(missing) > 0 {
		return ir.Graph{}, fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	return ir.Graph{Nodes: *r.Nodes, Edges: *r.Edges}, nil
}

// outcome is the shared result of one compilation.
type outcome struct {
	res *compiler.Result
	err error
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req generateRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, GenerateResponse{Error: &ErrorBody{
				Kind:    KindPayloadTooLarge,
				Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			}})
			return
		}
		writeJSON(w, http.StatusBadRequest, GenerateResponse{Error: &ErrorBody{
			Kind:    KindBadRequest,
			Message: fmt.Sprintf("decode graph: %v", err),
		}})
		return
	}
	g, err := req.graph()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, GenerateResponse{Error: &ErrorBody{
			Kind:    KindBadRequest,
			Message: err.Error(),
		}})
		return
	}

	out, hash := s.compile(r.Context(), g)
	if hash != "" {
		w.Header().Set(GraphHashHeader, hash)
	}

	if out.err != nil {
		resp := GenerateResponse{Code: compiler.CycleMarker}
		var ce *compiler.CompileError
		if errors.As(out.err, &ce) {
			resp.Error = &ErrorBody{
				Kind:    string(ce.Kind),
				Message: ce.Message,
				Nodes:   ce.Nodes,
				Cycles:  ce.Cycles,
			}
		} else {
			resp.Error = &ErrorBody{Kind: "internal", Message: out.err.Error()}
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		Code:        out.res.Code,
		Diagnostics: out.res.Diagnostics,
	})
}

// compile runs the compiler once per distinct graph among concurrent
// requests. The graph hash is returned for logging; it is empty when the
// graph could not be hashed, in which case no deduplication happens.
func (s *Server) compile(ctx context.Context, g ir.Graph) (outcome, string) {
	hash, err := ir.GraphHash(g)
	if err != nil {
		s.log.WithError(err).Warn("graph hash failed, compiling without dedup")
		res, cerr := compiler.Compile(g)
		return outcome{res: res, err: cerr}, ""
	}

	v, _, shared := s.flight.Do(hash, func() (any, error) {
		res, cerr := compiler.Compile(g)
		s.record(context.WithoutCancel(ctx), hash, g, res, cerr)
		return outcome{res: res, err: cerr}, nil
	})

	fields := logrus.Fields{"graph_hash": hash, "nodes": len(g.Nodes), "edges": len(g.Edges), "shared": shared}
	out := v.(outcome)
	if out.err != nil {
		s.log.WithFields(fields).WithError(out.err).Debug("compilation failed")
	} else {
		s.log.WithFields(fields).WithField("diagnostics", len(out.res.Diagnostics)).Debug("compiled")
	}
	return out, hash
}

func (s *Server) record(ctx context.Context, hash string, g ir.Graph, res *compiler.Result, err error) {
	if s.recorder == nil {
		return
	}
	c, werr := s.recorder.WriteCompilation(ctx, store.NewCompilation(hash, g, res, err))
	if werr != nil {
		s.log.WithError(werr).WithField("graph_hash", hash).Warn("record compilation")
		return
	}
	s.log.WithFields(logrus.Fields{"id": c.ID, "seq": c.Seq}).Debug("recorded compilation")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.StaticDir, "index.html"))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
