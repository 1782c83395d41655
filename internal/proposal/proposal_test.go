package proposal

import (
	"context"
	"strings"
	"testing"

	"github.com/procode-bot/server/internal/agent/model"
)

func TestSendProposalMissingConfiguration(t *testing.T) {
	n := NewEmailNotifier(model.NotifierConfig{})

	status := n.SendProposal(context.Background(), "somewhere.pdf", []string{"a@b.com"})
	if status.Success {
		t.Fatal("expected failure without SMTP configuration")
	}
	if !strings.Contains(status.Detail, "SMTP") {
		t.Errorf("detail does not name the problem: %q", status.Detail)
	}
}

func TestSendProposalMissingFile(t *testing.T) {
	n := NewEmailNotifier(model.NotifierConfig{
		Host:        "smtp.example.com",
		SenderEmail: "bot@example.com",
	})

	status := n.SendProposal(context.Background(), "/does/not/exist.pdf", []string{"a@b.com"})
	if status.Success {
		t.Fatal("expected failure for missing attachment")
	}
	if !strings.Contains(status.Detail, "not found") {
		t.Errorf("detail does not report missing file: %q", status.Detail)
	}
}

func TestSendProposalNoRecipients(t *testing.T) {
	n := NewEmailNotifier(model.NotifierConfig{
		Host:        "smtp.example.com",
		SenderEmail: "bot@example.com",
	})

	if status := n.SendProposal(context.Background(), "x.pdf", nil); status.Success {
		t.Fatal("expected failure without recipients")
	}
}

func TestWithStylesheet(t *testing.T) {
	got := withStylesheet("<h1>Proposal</h1>")
	if !strings.Contains(got, "<style>") || !strings.Contains(got, "price-box") {
		t.Error("stylesheet not injected")
	}
	if !strings.Contains(got, "<h1>Proposal</h1>") {
		t.Error("body content lost")
	}

	full := "<html><body><p>done</p></body></html>"
	if got := withStylesheet(full); got != full {
		t.Error("complete document was rewrapped")
	}
}
