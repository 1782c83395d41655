package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/procode-bot/server/internal/agent/graph/conversations"
	"github.com/procode-bot/server/internal/agent/graph/parsers"
	"github.com/procode-bot/server/internal/agent/graph/prompts"
	"github.com/procode-bot/server/internal/agent/model"
	"github.com/procode-bot/server/internal/pricing"
	logx "github.com/procode-bot/server/pkg/logger"
)

const pendingPriceLabel = "pending"

// draftingOutcome captures what actually happened to the document so the
// final transcript message reflects reality rather than assumed success.
type draftingOutcome struct {
	PriceLabel string
	Recipient  string
	PDFPath    string
	RenderOK   bool
	Delivery   model.DeliveryStatus
}

// NewDraftingNode assembles the proposal, expands it to HTML with one more
// model call, renders and sends it, then ends the turn. Render and send
// failures do not abort the turn; they change the reported outcome.
func NewDraftingNode(mm *conversations.StateManager, deps *Collaborators, draftModel *gemini.ChatModel, draftModelName string, cfg *model.ProposalConfig) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in *schema.Message) (*schema.Message, error) {
		var st *model.ConversationState
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			st = s.State
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("access turn state: %w", err)
		}
		if st == nil {
			return nil, fmt.Errorf("missing conversation state in drafting")
		}

		outcome := draftingOutcome{
			PriceLabel: priceLabel(st),
			Recipient:  resolveRecipient(st.Messages, cfg.BrandName, cfg.DefaultRecipient),
		}

		promptText, err := prompts.RenderProposalPrompt(ctx, *cfg, prompts.ProposalVars{
			Requirements: requirementsSummary(st.Messages),
			PriceLabel:   outcome.PriceLabel,
			Notes:        lookupNotes(st),
		})
		if err != nil {
			logx.Error().Err(err).Str("thread_id", st.ThreadID).Msg("Proposal prompt render failed")
			return finishDrafting(ctx, mm, st, schema.AssistantMessage(
				"I'm having trouble assembling the proposal document right now. Please try again.", nil))
		}

		htmlMsg, err := draftModel.Generate(ctx, []*schema.Message{schema.UserMessage(promptText)})
		if err != nil {
			logx.Error().Err(err).Str("thread_id", st.ThreadID).Msg("Proposal drafting model call failed")
			return finishDrafting(ctx, mm, st, schema.AssistantMessage(
				"I'm having trouble writing the proposal right now. Please try again.", nil))
		}
		accountDraftUsage(ctx, htmlMsg, draftModelName)

		html := parsers.StripHTMLFence(htmlMsg.Content)

		pdfPath, renderErr := deps.Renderer.CreatePDF(ctx, html)
		if renderErr == nil && pdfPath != "" {
			outcome.RenderOK = true
			outcome.PDFPath = pdfPath
			st.PDFPath = pdfPath
			outcome.Delivery = deps.Notifier.SendProposal(ctx, pdfPath, []string{outcome.Recipient})
		} else if renderErr != nil {
			logx.Error().Err(renderErr).Str("thread_id", st.ThreadID).Msg("Proposal rendering failed")
		}

		summary := schema.AssistantMessage(summariseDrafting(outcome), nil)
		if outcome.PDFPath != "" {
			summary.Extra = map[string]any{"pdf_path": outcome.PDFPath}
		}
		return finishDrafting(ctx, mm, st, summary)
	})
}

// finishDrafting appends the summary, checkpoints, and marks the turn ended.
// A persistence failure here is fatal to the turn.
func finishDrafting(ctx context.Context, mm *conversations.StateManager, st *model.ConversationState, summary *schema.Message) (*schema.Message, error) {
	if err := mm.Append(ctx, st, summary); err != nil {
		return nil, err
	}
	err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
		s.NextStep = model.RouteEnd
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mark turn end: %w", err)
	}
	return summary, nil
}

// summariseDrafting words the final message from the collaborators' actual
// status instead of claiming success unconditionally.
func summariseDrafting(o draftingOutcome) string {
	switch {
	case !o.RenderOK:
		return fmt.Sprintf("I prepared your proposal for %s but ran into trouble generating the document. Please try again shortly.", o.PriceLabel)
	case !o.Delivery.Success:
		return fmt.Sprintf("Proposal generated for %s, but sending it to %s failed (%s). The document is ready and I can retry once you confirm the address.", o.PriceLabel, o.Recipient, o.Delivery.Detail)
	default:
		return fmt.Sprintf("Proposal generated for %s and sent to %s!", o.PriceLabel, o.Recipient)
	}
}

// priceLabel formats the stored price with grouped thousands, or the pending
// sentinel when no price was ever computed.
func priceLabel(st *model.ConversationState) string {
	if !st.PriceSet {
		return pendingPriceLabel
	}
	return "₹" + pricing.FormatGrouped(st.ProjectPrice)
}

func lookupNotes(st *model.ConversationState) string {
	if st.RagContext == "" {
		return "Standard terms apply."
	}
	return st.RagContext
}

// requirementsSummary takes the second-to-last message as the agreed
// requirements recap, falling back to a placeholder for short transcripts.
func requirementsSummary(messages []*schema.Message) string {
	if len(messages) >= 3 {
		return messages[len(messages)-2].Content
	}
	return "Client project"
}

// resolveRecipient scans newest-first for the candidate message: one that
// contains an "@" and is not the agent talking about itself (brand name
// present). Only the first candidate is considered; if it yields no
// email-shaped token, the fixed default wins.
func resolveRecipient(messages []*schema.Message, brandName, fallback string) string {
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg == nil || !strings.Contains(msg.Content, "@") || strings.Contains(msg.Content, brandName) {
			continue
		}
		if email, ok := parsers.Email(msg.Content); ok {
			return email
		}
		break
	}
	return fallback
}

// accountDraftUsage logs cost for the out-of-graph drafting model call and
// folds it into the turn total.
func accountDraftUsage(ctx context.Context, out *schema.Message, modelName string) {
	_ = compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
		accountUsage(out, s, NodeDrafting, modelName)
		return nil
	})
}
