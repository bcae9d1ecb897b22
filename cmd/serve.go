package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/periplo/periplo/api"
	"github.com/periplo/periplo/internal/catalog"
	"github.com/periplo/periplo/internal/chat"
	"github.com/periplo/periplo/internal/config"
	"github.com/periplo/periplo/internal/llm"
	"github.com/periplo/periplo/internal/log"
	"github.com/periplo/periplo/internal/prompt"
)

// runServe wires the request pipeline and runs the HTTP server until ctx
// is cancelled. Wiring order follows the data flow: catalog and prompt
// resources, then the generation client, then the pipeline, then HTTP.
func runServe(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	client, err := llm.NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"), cfg.ModelName)
	if err != nil {
		return fmt.Errorf("initializing Gemini client: %w", err)
	}
	logger.Info("Gemini model initialized", "model", cfg.ModelName)

	generator := llm.NewRetrying(client, llm.DefaultRetryConfig(), logger.With("component", "llm"))
	store := catalog.NewStore(cfg.DataDir, cfg.CacheTTL, logger.With("component", "catalog"))
	builder := prompt.NewBuilder(cfg.DataDir)
	pipeline := chat.NewPipeline(store, builder, generator, logger.With("component", "chat"))

	srv := api.NewServer(pipeline, api.Options{
		RateLimit:  cfg.RateLimit,
		RateBurst:  cfg.RateBurst,
		TrustProxy: cfg.TrustProxy,
	}, logger.With("component", "api"))

	return srv.Run(ctx, cfg.Addr)
}
