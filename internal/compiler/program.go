package compiler

import "strings"

// ModelClass is the name of the generated nn.Module subclass.
const ModelClass = "GeneratedModel"

// preamble is the fixed import block, followed by a blank line.
var preamble = []string{
	"import torch",
	"import torch.nn as nn",
	"import torch.nn.functional as F",
	"",
}

// Program is an assembled model definition.
type Program struct {
	Declarations []string // __init__ body lines, already indented
	Invocations  []string // forward body lines, already indented
	Output       string   // variable returned from forward
}

// String renders the program. An empty __init__ body gets a pass
// statement so the block stays syntactically valid.
func (p Program) String() string {
	var b strings.Builder
	for _, line := range preamble {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString("class " + ModelClass + "(nn.Module):\n")
	b.WriteString("    def __init__(self):\n")
	b.WriteString("        super(" + ModelClass + ", self).__init__()\n")
	if len(p.Declarations) == 0 {
		b.WriteString(bodyIndent + "pass\n")
	}
	for _, line := range p.Declarations {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString("    def forward(self, " + RootInput + "):\n")
	for _, line := range p.Invocations {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	output := p.Output
	if output == "" {
		output = RootInput
	}
	b.WriteString(bodyIndent + "return " + output + "\n")
	return b.String()
}
