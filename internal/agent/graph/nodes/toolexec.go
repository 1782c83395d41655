package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/procode-bot/server/internal/agent/graph/conversations"
	"github.com/procode-bot/server/internal/agent/graph/parsers"
	"github.com/procode-bot/server/internal/agent/model"
	logx "github.com/procode-bot/server/pkg/logger"
)

// NewToolExecutorNode performs exactly one tool action per pass: it parses
// the directive payload out of the latest assistant message, invokes the
// matching collaborator, reduces the result into the transcript, and hands
// control back to reasoning. Collaborator failures never abort the turn;
// they become labeled error messages and the loop continues.
func NewToolExecutorNode(mm *conversations.StateManager, deps *Collaborators) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in *schema.Message) ([]*schema.Message, error) {
		var st *model.ConversationState
		var route string
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			st = s.State
			route = s.NextStep
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("access turn state: %w", err)
		}
		if st == nil {
			return nil, fmt.Errorf("missing conversation state in tool execution")
		}

		result := executeDirective(ctx, deps, st, in.Content, route)
		if result != nil {
			if err := mm.Append(ctx, st, result); err != nil {
				return nil, err
			}
		}

		return st.Messages, nil
	})
}

// executeDirective dispatches one directive against the collaborators and
// mutates the conversation state accordingly. It returns the message to
// append, or nil for a no-op routing token.
func executeDirective(ctx context.Context, deps *Collaborators, st *model.ConversationState, content, route string) *schema.Message {
	switch route {
	case model.RouteLookup:
		payload, err := parsers.Payload(content, parsers.DirectiveLookup)
		if err != nil {
			logx.Warn().Err(err).Str("thread_id", st.ThreadID).Msg("Malformed lookup directive")
			return schema.AssistantMessage(fmt.Sprintf("LOOKUP ERROR: could not read the search query (%v).", err), nil)
		}

		data, err := deps.Retriever.RetrieveSimilarProjects(ctx, payload)
		if err != nil {
			logx.Error().Err(err).Str("thread_id", st.ThreadID).Str("query", payload).Msg("Knowledge lookup failed")
			// RagContext keeps its previous value on failure.
			return schema.AssistantMessage("LOOKUP ERROR: having trouble reaching the knowledge base right now.", nil)
		}

		st.RagContext = data
		return schema.AssistantMessage(fmt.Sprintf("RAG RESULT: %s", data), nil)

	case model.RoutePricing:
		payload, err := parsers.Payload(content, parsers.DirectiveCalculate)
		if err != nil {
			logx.Warn().Err(err).Str("thread_id", st.ThreadID).Msg("Malformed calculate directive")
			return schema.AssistantMessage("PRICING ERROR: could not read hours and level. Please provide them again.", nil)
		}

		hours := parsers.Hours(payload)
		level := parsers.Level(payload)
		price := deps.Pricer.ProjectPrice(hours, level)

		st.ProjectPrice = price
		st.PriceSet = true

		logx.Debug().
			Str("thread_id", st.ThreadID).
			Int("hours", hours).
			Str("level", level).
			Int("price", price).
			Msg("Price calculated")
		return schema.AssistantMessage(
			fmt.Sprintf("PRICING RESULT: Calculated cost: INR %d (for %d hours @ %s level).", price, hours, level), nil)

	default:
		// Unexpected token: no-op, reasoning takes over again.
		logx.Debug().Str("route", route).Msg("Tool executor received non-tool token")
		return nil
	}
}
