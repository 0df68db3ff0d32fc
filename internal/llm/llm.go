// Package llm provides the code-generation collaborator: an interface for
// turning prompts into scripts plus the Anthropic-backed implementation.
package llm

import "context"

// CodeGenerator produces a script from a prompt. It is used both for the
// initial generation and for every correction round.
type CodeGenerator interface {
	GenerateCode(ctx context.Context, prompt string) (string, error)
}
