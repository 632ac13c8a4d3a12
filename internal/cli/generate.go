package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nngen/internal/compiler"
	"github.com/roach88/nngen/internal/ir"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Output string // output file path
}

// GenerateResult is the JSON payload of a successful generate.
type GenerateResult struct {
	GraphHash   string                `json:"graph_hash"`
	Code        string                `json:"code"`
	Order       []string              `json:"order"`
	Output      string                `json:"output"`
	Diagnostics []compiler.Diagnostic `json:"diagnostics,omitempty"`
	File        string                `json:"file,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <graph-file>",
		Short: "Compile a graph file to a PyTorch model",
		Long: `Compile a layer graph to a PyTorch nn.Module definition.

The graph file is the editor payload as .json, or the same shape as
.yaml/.yml or .cue. The program is printed to stdout unless --output is
given. Warnings go to stderr.

Exit codes:
  0 - Program generated
  1 - Graph cannot be compiled (cycle, duplicate node IDs)
  2 - Command error (missing file, decode failure)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runGenerate(opts *GenerateOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	g, err := LoadGraph(path)
	if err != nil {
		code, message := loadErrorParts(err)
		_ = formatter.Error(code, message, nil)
		return WrapExitError(ExitCommandError, code, err)
	}
	formatter.VerboseLog("Loaded %d node(s), %d edge(s) from %s", len(g.Nodes), len(g.Edges), path)

	res, err := compiler.Compile(g)
	if err != nil {
		var ce *compiler.CompileError
		if !errors.As(err, &ce) {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "compilation failed", err)
		}
		return outputStructuralError(formatter, ce)
	}

	hash, err := ir.GraphHash(g)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("hashing graph: %v", err), nil)
		return WrapExitError(ExitCommandError, "hashing graph", err)
	}
	formatter.VerboseLog("Graph hash %s", hash)

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(res.Code), 0o644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(GenerateResult{
			GraphHash:   hash,
			Code:        res.Code,
			Order:       res.Order,
			Output:      res.Output,
			Diagnostics: res.Diagnostics,
			File:        opts.Output,
		})
	}

	errW := formatter.GetErrWriter()
	for _, d := range res.Diagnostics {
		fmt.Fprintf(errW, "warning %s\n", d.Error())
	}

	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "✓ Wrote %s (%d node(s), %d warning(s))\n",
			opts.Output, len(res.Order), len(res.Diagnostics))
		return nil
	}
	fmt.Fprint(formatter.Writer, res.Code)
	return nil
}

// outputStructuralError reports a graph that cannot be compiled.
func outputStructuralError(formatter *OutputFormatter, ce *compiler.CompileError) error {
	code := structuralErrorCode(ce)

	if formatter.Format == "json" {
		_ = formatter.Error(code, ce.Error(), ce)
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", code, ce.Error())
	}

	return WrapExitError(ExitFailure, code, ce)
}
