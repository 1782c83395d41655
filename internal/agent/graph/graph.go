package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/procode-bot/server/internal/agent/graph/conversations"
	"github.com/procode-bot/server/internal/agent/graph/nodes"
	"github.com/procode-bot/server/internal/agent/graph/observers"
	"github.com/procode-bot/server/internal/agent/model"
	logx "github.com/procode-bot/server/pkg/logger"
)

// Runner executes one conversational turn against the compiled graph.
type Runner interface {
	Invoke(ctx context.Context, in model.TurnInput) (model.TurnResult, error)
}

// Config holds everything needed to compose the full proposal graph
// end-to-end. This is a convenience layer over GraphConfig that also
// constructs the ChatModels and the StateManager.
type Config struct {
	Client         *genai.Client
	ReasoningModel model.ReasoningModelConfig
	DraftingModel  model.DraftingModelConfig
	Proposal       model.ProposalConfig
	Conversation   model.ConversationConfig
	Store          model.CheckpointStore
	Collaborators  nodes.Collaborators
}

// GraphConfig holds all configuration needed to build the graph.
type GraphConfig struct {
	ChatModels    *nodes.ChatModels
	StateManager  *conversations.StateManager
	Collaborators *nodes.Collaborators
	Proposal      *model.ProposalConfig
	MaxRunSteps   int
}

// GraphBuilder handles the construction of the conversation graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.TurnInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.TurnInput, *schema.Message]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.TurnInput) (model.TurnResult, error) {
	started := time.Now()
	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return model.TurnResult{}, err
	}
	if out == nil {
		return model.TurnResult{}, nil
	}

	res := model.TurnResult{Reply: out.Content}
	if p, ok := out.Extra["pdf_path"].(string); ok {
		res.PDFPath = p
	}

	logx.Debug().
		Str("thread_id", in.ThreadID).
		Dur("elapsed", time.Since(started)).
		Bool("proposal_generated", res.PDFPath != "").
		Msg("Turn completed")
	return res, nil
}

// BuildProposalGraph composes the ChatModels and StateManager, builds the
// graph, and returns a Runner.
func BuildProposalGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("checkpoint store is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		Client:       cfg.Client,
		ReasoningCfg: &cfg.ReasoningModel,
		DraftingCfg:  &cfg.DraftingModel,
	})
	if err != nil {
		return nil, err
	}

	mm := conversations.NewStateManager(cfg.Store)

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:    cms,
		StateManager:  mm,
		Collaborators: &cfg.Collaborators,
		Proposal:      &cfg.Proposal,
		MaxRunSteps:   cfg.Conversation.MaxRunSteps,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Proposal graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled conversation graph.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.TurnInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Reasoning == nil || config.ChatModels.Drafting == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.StateManager == nil {
		return nil, fmt.Errorf("state manager is nil")
	}
	if config.Collaborators == nil || config.Proposal == nil {
		return nil, fmt.Errorf("collaborators/proposal config is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.TurnInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeTurnLoader,
		nodes.NewTurnLoaderNode(b.config.StateManager),
		compose.WithStatePreHandler(nodes.NewTurnLoaderPreHandler()),
	)

	b.graph.AddChatModelNode(nodes.NodeReasoning,
		nodes.NewReasoningChatModelNode(b.config.ChatModels.Reasoning),
		compose.WithStatePreHandler(nodes.NewReasoningPreHandler(b.config.StateManager)),
		compose.WithStatePostHandler(nodes.NewReasoningPostHandler(b.config.StateManager, b.config.ChatModels.ReasoningModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeToolExecutor,
		nodes.NewToolExecutorNode(b.config.StateManager, b.config.Collaborators),
	)

	b.graph.AddLambdaNode(nodes.NodeDrafting,
		nodes.NewDraftingNode(
			b.config.StateManager,
			b.config.Collaborators,
			b.config.ChatModels.Drafting,
			b.config.ChatModels.DraftingModelName,
			b.config.Proposal,
		),
	)
}

// addEdges creates the main flow connections between nodes. Tool results feed
// straight back into reasoning, which forms the directive loop.
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeTurnLoader},
		{nodes.NodeTurnLoader, nodes.NodeReasoning},
		{nodes.NodeToolExecutor, nodes.NodeReasoning},
		{nodes.NodeDrafting, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the directive routing branch off the reasoning node.
func (b *GraphBuilder) addBranches() error {
	directiveBranch := compose.NewGraphBranch(
		nodes.NewReasoningCondition(),
		map[string]bool{
			nodes.NodeToolExecutor: true,
			nodes.NodeDrafting:     true,
			compose.END:            true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeReasoning, directiveBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding directive branch")
		return fmt.Errorf("error adding directive branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.TurnInput, *schema.Message], error) {
	// Limit total run steps to stop a model that keeps emitting directives.
	maxSteps := b.config.MaxRunSteps
	if maxSteps < 20 {
		maxSteps = 20
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
