package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/procode-bot/server/internal/agent/model"
	logx "github.com/procode-bot/server/pkg/logger"
)

// Node names in the conversation graph.
const (
	NodeTurnLoader   = "turn_loader"
	NodeReasoning    = "reasoning"
	NodeToolExecutor = "tool_execution"
	NodeDrafting     = "drafting"
)

// ChatModelConfig holds the configuration for chat model creation.
type ChatModelConfig struct {
	Client       *genai.Client
	ReasoningCfg *model.ReasoningModelConfig
	DraftingCfg  *model.DraftingModelConfig
}

// ChatModels holds the reasoning model driving the conversation loop and the
// drafting model used for the one-off proposal expansion.
type ChatModels struct {
	Reasoning          *gemini.ChatModel
	Drafting           *gemini.ChatModel
	ReasoningModelName string
	DraftingModelName  string
}

// NewGenAIClient creates the shared Gemini API client. The composition root
// owns its lifecycle and passes it to both the chat models and the
// embedding-based retriever.
func NewGenAIClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return client, nil
}

// NewChatModels creates the reasoning and drafting chat models on a shared client.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("genai client is nil")
	}

	reasoning, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      config.Client,
		Model:       config.ReasoningCfg.Model,
		Temperature: &config.ReasoningCfg.Temperature,
		MaxTokens:   &config.ReasoningCfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating reasoning model")
		return nil, fmt.Errorf("error creating reasoning model: %w", err)
	}

	drafting, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      config.Client,
		Model:       config.DraftingCfg.Model,
		Temperature: &config.DraftingCfg.Temperature,
		MaxTokens:   &config.DraftingCfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating drafting model")
		return nil, fmt.Errorf("error creating drafting model: %w", err)
	}

	return &ChatModels{
		Reasoning:          reasoning,
		Drafting:           drafting,
		ReasoningModelName: config.ReasoningCfg.Model,
		DraftingModelName:  config.DraftingCfg.Model,
	}, nil
}

// NewReasoningChatModelNode exposes the reasoning model as a graph node.
func NewReasoningChatModelNode(chatModel *gemini.ChatModel) *gemini.ChatModel {
	return chatModel
}
