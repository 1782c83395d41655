package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/procode-bot/server/internal/agent/graph"
	"github.com/procode-bot/server/internal/agent/graph/nodes"
	"github.com/procode-bot/server/internal/agent/model"
	"github.com/procode-bot/server/internal/agent/repo"
	"github.com/procode-bot/server/internal/core"
	"github.com/procode-bot/server/internal/knowledge"
	"github.com/procode-bot/server/internal/pricing"
	"github.com/procode-bot/server/internal/proposal"
	"github.com/procode-bot/server/internal/server"
	logx "github.com/procode-bot/server/pkg/logger"
	pkgredis "github.com/procode-bot/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config
	HTTP  server.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Reasoning    model.ReasoningModelConfig
	Drafting     model.DraftingModelConfig
	Proposal     model.ProposalConfig
	Notifier     model.NotifierConfig
	Conversation model.ConversationConfig
	Knowledge    knowledge.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	rdb, err := cfg.Redis.New()
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		logx.Fatal().Err(err).Str("ttl", cfg.Conversation.TTL).Msg("Invalid CONVERSATION_TTL")
	}

	client, err := nodes.NewGenAIClient(ctx, cfg.APIKey, cfg.BaseURL)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	retriever, err := knowledge.NewRetriever(client, cfg.Knowledge)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to connect to Qdrant")
	}
	defer retriever.Close()

	renderer, err := proposal.NewPDFRenderer(cfg.Proposal.OutputDir)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to prepare proposal output directory")
	}

	runner, err := graph.BuildProposalGraph(ctx, graph.Config{
		Client:         client,
		ReasoningModel: cfg.Reasoning,
		DraftingModel:  cfg.Drafting,
		Proposal:       cfg.Proposal,
		Conversation:   cfg.Conversation,
		Store:          repo.NewRedisCheckpointStore(rdb, ttl),
		Collaborators: nodes.Collaborators{
			Retriever: retriever,
			Pricer:    pricing.NewTable(),
			Renderer:  renderer,
			Notifier:  proposal.NewEmailNotifier(cfg.Notifier),
		},
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build graph")
	}

	srv := server.New(cfg.HTTP, runner)
	if err := srv.ListenAndServe(ctx); err != nil {
		logx.Fatal().Err(err).Msg("HTTP server exited")
	}
	logx.Info().Msg("Shutdown complete")
}
