// Package llm provides the text-generation client and its retry policy.
//
// The generation capability is treated as opaque: a prompt goes in, text
// comes out, or the call fails. The only failure kind handled specially is
// transient overload, which is retried with exponential backoff.
package llm

import "context"

// Generator produces text for a fully assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
