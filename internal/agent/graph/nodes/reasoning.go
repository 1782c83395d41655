package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/procode-bot/server/internal/agent/graph/conversations"
	"github.com/procode-bot/server/internal/agent/graph/parsers"
	"github.com/procode-bot/server/internal/agent/graph/prompts"
	"github.com/procode-bot/server/internal/agent/model"
	logx "github.com/procode-bot/server/pkg/logger"
)

// NewReasoningPreHandler builds the model context for a reasoning call: the
// persisted history plus the per-turn tool instruction block. The block is
// never checkpointed; it exists only for this one model call.
func NewReasoningPreHandler(mm *conversations.StateManager) func(context.Context, []*schema.Message, *model.AppState) ([]*schema.Message, error) {
	return func(ctx context.Context, in []*schema.Message, s *model.AppState) ([]*schema.Message, error) {
		if s.State == nil {
			return nil, fmt.Errorf("missing conversation state before reasoning")
		}

		instructions, err := prompts.RenderTurnInstructions(ctx)
		if err != nil {
			return nil, fmt.Errorf("render turn instructions: %w", err)
		}

		logx.Debug().Str("thread_id", s.ThreadID).Msg("AI thinking...")
		return mm.ReasoningContext(s.State, instructions), nil
	}
}

// NewReasoningPostHandler classifies the model's raw reply into a routing
// token, appends the reply to the transcript (directives included, nothing is
// stripped from what the user can see), and checkpoints. It also accounts
// LLM usage cost for the call.
func NewReasoningPostHandler(mm *conversations.StateManager, modelName string) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		if out == nil {
			return nil, fmt.Errorf("reasoning model returned nil message")
		}

		accountUsage(out, state, NodeReasoning, modelName)

		route := parsers.Classify(out.Content)
		state.NextStep = route

		reply := schema.AssistantMessage(out.Content, nil)
		if err := mm.Append(ctx, state.State, reply); err != nil {
			logx.Error().Err(err).Str("thread_id", state.ThreadID).Msg("Failed to checkpoint assistant reply")
			return nil, err
		}

		logx.Debug().
			Str("thread_id", state.ThreadID).
			Str("next_step", route).
			Msg("Reasoning step routed")
		return out, nil
	}
}

// NewReasoningCondition routes on the latest assistant text alone, so the
// decision is reproducible from the transcript: tool directives loop through
// the executor, the finalize directive goes to drafting, anything else ends
// the turn and waits for the user.
func NewReasoningCondition() func(context.Context, *schema.Message) (string, error) {
	return func(ctx context.Context, input *schema.Message) (string, error) {
		switch parsers.Classify(input.Content) {
		case model.RouteLookup, model.RoutePricing:
			return NodeToolExecutor, nil
		case model.RouteDraft:
			return NodeDrafting, nil
		default:
			logx.Debug().Msg("No directive - waiting for user")
			return compose.END, nil
		}
	}
}

// accountUsage computes cost for one model call and accumulates it in state.
func accountUsage(out *schema.Message, state *model.AppState, node, modelName string) {
	if !model.CostEnabled() || out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}

	pricing := model.ResolvePricing(modelName)
	inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
	if out.Extra == nil {
		out.Extra = map[string]any{}
	}
	out.Extra["usage_cost"] = map[string]any{
		"currency":          "USD",
		"model":             modelName,
		"prompt_tokens":     out.ResponseMeta.Usage.PromptTokens,
		"completion_tokens": out.ResponseMeta.Usage.CompletionTokens,
		"total_tokens":      out.ResponseMeta.Usage.TotalTokens,
		"input_cost":        inC,
		"output_cost":       outC,
		"total_cost":        totalC,
	}

	state.TotalCostUSD += totalC
	out.Extra["usage_cost_total_usd"] = state.TotalCostUSD

	logx.Debug().
		Str("thread_id", state.ThreadID).
		Str("node", node).
		Str("model", modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}
