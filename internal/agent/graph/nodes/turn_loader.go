package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/procode-bot/server/internal/agent/graph/conversations"
	"github.com/procode-bot/server/internal/agent/model"
	logx "github.com/procode-bot/server/pkg/logger"
)

// Collaborators bundles the injected external dependencies the orchestrator
// steps call out to. All of them are constructed at process startup; the
// graph never reaches for ambient globals.
type Collaborators struct {
	Retriever model.KnowledgeRetriever
	Pricer    model.PriceEvaluator
	Renderer  model.DocumentRenderer
	Notifier  model.ProposalNotifier
}

// NewTurnLoaderPreHandler resets the per-turn graph state before anything runs.
func NewTurnLoaderPreHandler() func(context.Context, model.TurnInput, *model.AppState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.AppState) (model.TurnInput, error) {
		s.ThreadID = in.ThreadID
		s.NextStep = ""
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewTurnLoaderNode loads the thread's checkpoint, records the incoming user
// message, and seeds the reasoning step. A persistence failure here is fatal
// to the turn and surfaces to the caller as a request failure.
func NewTurnLoaderNode(mm *conversations.StateManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnInput) ([]*schema.Message, error) {
		userText := conversations.ComposeUserText(in.Query, in.AttachmentText)

		st, err := mm.BeginTurn(ctx, in.ThreadID, userText)
		if err != nil {
			return nil, fmt.Errorf("begin turn: %w", err)
		}

		err = compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			s.State = st
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("seed turn state: %w", err)
		}

		logx.Debug().
			Str("thread_id", in.ThreadID).
			Int("history_len", len(st.Messages)).
			Msg("Turn started")

		return st.Messages, nil
	})
}
