package harness

import (
	"errors"
	"fmt"

	"github.com/roach88/nngen/internal/compiler"
)

// Run compiles the scenario graph and evaluates expectations and
// properties. Failed checks are reported in Result.Errors; the returned
// error is reserved for scenarios that cannot be run at all.
func Run(scenario *Scenario) (*Result, error) {
	if scenario == nil {
		return nil, errors.New("nil scenario")
	}

	result := NewResult()
	res, err := compiler.Compile(scenario.Graph)
	switch {
	case err == nil:
		result.Code = res.Code
		result.Order = res.Order
		result.Output = res.Output
		result.Diagnostics = diagnosticCodes(res.Diagnostics)
	case compiler.IsStructural(err):
		var ce *compiler.CompileError
		errors.As(err, &ce)
		result.Code = compiler.CycleMarker
		result.ErrorKind = string(ce.Kind)
		result.Diagnostics = diagnosticCodes(compiler.Diagnose(scenario.Graph))
	default:
		return nil, fmt.Errorf("compile %s: %w", scenario.Name, err)
	}

	for _, msg := range EvaluateExpect(result, scenario.Expect) {
		result.AddError(msg)
	}
	for _, msg := range CheckProperties(scenario.Graph) {
		result.AddError(msg)
	}

	return result, nil
}

func diagnosticCodes(diags []compiler.Diagnostic) []string {
	codes := make([]string, len(diags))
	for i, d := range diags {
		codes[i] = d.Code
	}
	return codes
}
