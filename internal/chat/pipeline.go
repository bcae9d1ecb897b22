// Package chat implements the retrieve-augment-generate request pipeline:
// validate → load records → build prompt → generate → extract sources.
//
// Steps run strictly in this order, once per request; data flows forward
// only, and no step calls back into an earlier one.
package chat

import (
	"context"
	"fmt"

	"github.com/periplo/periplo/internal/catalog"
	"github.com/periplo/periplo/internal/llm"
	"github.com/periplo/periplo/internal/log"
	"github.com/periplo/periplo/internal/prompt"
)

// Result is the outcome of one successful request.
type Result struct {
	Text    string
	Sources []Source
}

// Pipeline composes the request flow. It is stateless apart from the
// injected collaborators and safe for concurrent use.
type Pipeline struct {
	store   *catalog.Store
	builder *prompt.Builder
	gen     llm.Generator
	logger  log.Logger
}

// NewPipeline creates a pipeline from its collaborators.
func NewPipeline(store *catalog.Store, builder *prompt.Builder, gen llm.Generator, logger log.Logger) *Pipeline {
	return &Pipeline{store: store, builder: builder, gen: gen, logger: logger}
}

// Handle runs one request through the pipeline.
//
// A validation failure returns ErrInvalidInput before any I/O. Any later
// failure returns a wrapped error naming the failed step; callers map
// these to server errors.
func (p *Pipeline) Handle(ctx context.Context, category, query string) (*Result, error) {
	if err := ValidateInput(category, query); err != nil {
		return nil, err
	}

	records, err := p.store.Load(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("loading category %q: %w", category, err)
	}

	promptText, err := p.builder.Build(category, records, query)
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}

	text, err := p.gen.Generate(ctx, promptText)
	if err != nil {
		return nil, fmt.Errorf("generating response: %w", err)
	}

	sources := ExtractSources(text, records)
	p.logger.Info("request completed",
		"category", category,
		"records", len(records),
		"sources", len(sources))

	return &Result{Text: text, Sources: sources}, nil
}
