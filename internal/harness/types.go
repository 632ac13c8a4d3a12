package harness

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation and property holds.
	Pass bool `json:"pass"`

	// Code is the generated program, or the cycle marker on a structural error.
	Code string `json:"code"`

	// Order is the execution order. Empty on a structural error.
	Order []string `json:"order"`

	// Output is the node whose variable forward() returns.
	Output string `json:"output"`

	// ErrorKind is the structural error kind, if any.
	ErrorKind string `json:"error_kind,omitempty"`

	// Diagnostics lists diagnostic codes in report order.
	Diagnostics []string `json:"diagnostics"`

	// Errors contains failed expectation messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Order:       []string{},
		Diagnostics: []string{},
		Errors:      []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
