package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/nngen/internal/compiler"
	"github.com/roach88/nngen/internal/ir"
)

// Scenario is one graph with its expected compilation outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Graph is the editor payload to compile.
	Graph ir.Graph `yaml:"graph"`

	// Expect lists the checks to run. Absent keys are skipped.
	Expect Expect `yaml:"expect"`
}

// Expect declares the expected outcome of compiling a scenario graph.
type Expect struct {
	// Error is the expected structural error kind. Empty means success.
	Error string `yaml:"error,omitempty"`

	// Order is the exact execution order.
	Order []string `yaml:"order,omitempty"`

	// Output is the node ID forward() returns; "" for the empty graph.
	Output *string `yaml:"output,omitempty"`

	// Contains lists substrings the program must contain.
	Contains []string `yaml:"contains,omitempty"`

	// NotContains lists substrings the program must not contain.
	NotContains []string `yaml:"not_contains,omitempty"`

	// Diagnostics is the exact list of diagnostic codes. An empty list
	// asserts a clean graph; nil skips the check.
	Diagnostics []string `yaml:"diagnostics,omitempty"`
}

var diagnosticCode = regexp.MustCompile(`^[EW][0-9]{3}$`)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "not_contain:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every scenario file under dir, in file name order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	files, err := FindScenarioFiles(dir, "")
	if err != nil {
		return nil, err
	}

	scenarios := make([]*Scenario, 0, len(files))
	seen := make(map[string]string, len(files))
	for _, f := range files {
		s, err := LoadScenario(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		if prev, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", f, s.Name, prev)
		}
		seen[s.Name] = f
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// FindScenarioFiles finds all YAML scenario files under dir. A non-empty
// filter is a glob matched against the file name without extension.
// Files under golden/ directories are skipped.
func FindScenarioFiles(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	for i, n := range s.Graph.Nodes {
		if n.ID == "" {
			return fmt.Errorf("graph.nodes[%d]: id is required", i)
		}
	}
	for i, e := range s.Graph.Edges {
		if e.Source == "" || e.Target == "" {
			return fmt.Errorf("graph.edges[%d]: source and target are required", i)
		}
	}

	x := s.Expect
	switch compiler.ErrorKind(x.Error) {
	case "":
	case compiler.KindCyclicGraph, compiler.KindDuplicateNode:
		if len(x.Order) > 0 || x.Output != nil {
			return fmt.Errorf("expect: order and output cannot be combined with error")
		}
	default:
		return fmt.Errorf("expect.error: unknown kind %q", x.Error)
	}

	for i, code := range x.Diagnostics {
		if !diagnosticCode.MatchString(code) {
			return fmt.Errorf("expect.diagnostics[%d]: malformed code %q", i, code)
		}
	}

	return nil
}
