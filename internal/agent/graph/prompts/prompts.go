package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/procode-bot/server/internal/agent/model"
)

//go:embed template/system_prompt.txt
var systemPreamble string

//go:embed template/turn_instructions.txt
var turnInstructions string

//go:embed template/proposal_prompt.txt
var proposalPrompt string

// SystemPreamble returns the fixed instruction preamble inserted once as the
// first message of every conversation.
func SystemPreamble() string {
	return strings.TrimSpace(systemPreamble)
}

// RenderTurnInstructions renders the per-turn tool instruction block via the
// Eino prompt component so prompt callbacks fire. The block is appended to
// the model context for a single call and never persisted.
func RenderTurnInstructions(ctx context.Context) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(strings.TrimSpace(turnInstructions))},
	})
	if err != nil {
		return "", fmt.Errorf("turn instructions render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("turn instructions render: empty result")
	}
	return msgs[0].Content, nil
}

// ProposalVars feeds the proposal document template.
type ProposalVars struct {
	Requirements string
	PriceLabel   string
	Notes        string
}

// RenderProposalPrompt renders the document-generation request handed to the
// drafting model, combining the turn's data with the fixed brand template.
func RenderProposalPrompt(ctx context.Context, cfg model.ProposalConfig, vars ProposalVars) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.UserMessage(proposalPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"Requirements":   vars.Requirements,
		"PriceLabel":     vars.PriceLabel,
		"Notes":          vars.Notes,
		"BrandName":      cfg.BrandName,
		"LogoURL":        cfg.LogoURL,
		"CompanyName":    cfg.CompanyName,
		"CompanyAddress": cfg.CompanyAddress,
		"CompanyContact": cfg.CompanyContact,
	})
	if err != nil {
		return "", fmt.Errorf("proposal prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("proposal prompt render: empty result")
	}
	return msgs[0].Content, nil
}
