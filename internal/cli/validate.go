package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/nngen/internal/compiler"
	"github.com/roach88/nngen/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                  `json:"valid"`
	GraphHash   string                `json:"graph_hash,omitempty"`
	Nodes       int                   `json:"nodes"`
	Edges       int                   `json:"edges"`
	Order       []string              `json:"order,omitempty"`
	Diagnostics []compiler.Diagnostic `json:"diagnostics,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <graph-file>",
		Short: "Check a graph without generating code",
		Long: `Report every finding about a graph: structural errors that prevent
compilation and warnings about edges, inputs and layer types that
compile with a fallback. Prints the execution order when one exists.

Exit codes:
  0 - Graph compiles (warnings allowed)
  1 - Graph has structural errors
  2 - Command error (missing file, decode failure)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	g, err := LoadGraph(path)
	if err != nil {
		code, message := loadErrorParts(err)
		_ = formatter.Error(code, message, nil)
		return WrapExitError(ExitCommandError, code, err)
	}

	diags := compiler.Diagnose(g)
	result := ValidationResult{
		Valid:       !compiler.HasErrors(diags),
		Nodes:       len(g.Nodes),
		Edges:       len(g.Edges),
		Diagnostics: diags,
	}
	if hash, err := ir.GraphHash(g); err == nil {
		result.GraphHash = hash
	}
	if result.Valid {
		// Cannot fail once Diagnose reported no errors
		result.Order, _ = compiler.TopologicalOrder(g)
	}

	if formatter.Format == "json" {
		return outputValidateJSON(formatter, result)
	}
	return outputValidateText(formatter, result)
}

func outputValidateJSON(formatter *OutputFormatter, result ValidationResult) error {
	if result.Valid {
		return formatter.Success(result)
	}

	first := firstError(result.Diagnostics)
	if err := formatter.encode(CLIResponse{
		Status: "error",
		Data:   result,
		Error:  &CLIError{Code: first.Code, Message: first.Message},
	}); err != nil {
		return err
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", first.Code, first.Message))
}

func outputValidateText(formatter *OutputFormatter, result ValidationResult) error {
	w := formatter.Writer

	if result.Valid {
		fmt.Fprintf(w, "✓ Graph is valid (%d node(s), %d edge(s))\n", result.Nodes, result.Edges)
	} else {
		fmt.Fprintf(w, "✗ Graph is invalid (%d node(s), %d edge(s))\n", result.Nodes, result.Edges)
	}

	if len(result.Diagnostics) > 0 {
		fmt.Fprintln(w)
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "  %-7s %s\n", d.Level, d.Error())
		}
	}

	if len(result.Order) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Order: %s\n", strings.Join(result.Order, " → "))
	}
	formatter.VerboseLog("Graph hash %s", result.GraphHash)

	if !result.Valid {
		first := firstError(result.Diagnostics)
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", first.Code, first.Message))
	}
	return nil
}

// firstError returns the first error-level diagnostic.
func firstError(diags []compiler.Diagnostic) compiler.Diagnostic {
	for _, d := range diags {
		if d.Level == compiler.LevelError {
			return d
		}
	}
	return compiler.Diagnostic{Code: ErrCodeGeneric, Message: "unknown error"}
}
