package proposal

import (
	"context"
	"fmt"
	"os"
	"strings"

	mail "github.com/wneessen/go-mail"

	"github.com/procode-bot/server/internal/agent/model"
	logx "github.com/procode-bot/server/pkg/logger"
)

const proposalBody = `<html>
<body>
<h2>Hello!</h2>
<p>Please find attached the project proposal generated based on your requirements.</p>
<p>Best regards,<br>ProCode Team</p>
</body>
</html>`

// EmailNotifier delivers proposal PDFs over SMTP. It reports outcomes as
// structured statuses and never panics: missing configuration, a missing
// file, and transport failures all come back as an error status.
type EmailNotifier struct {
	cfg model.NotifierConfig
}

func NewEmailNotifier(cfg model.NotifierConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

func (n *EmailNotifier) SendProposal(ctx context.Context, pdfPath string, recipients []string) model.DeliveryStatus {
	if n.cfg.Host == "" || n.cfg.SenderEmail == "" {
		return errorStatus("missing SMTP host or sender email in configuration")
	}
	if len(recipients) == 0 {
		return errorStatus("no recipients provided")
	}
	if _, err := os.Stat(pdfPath); err != nil {
		return errorStatus(fmt.Sprintf("attachment %q not found", pdfPath))
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(n.cfg.SenderName, n.cfg.SenderEmail); err != nil {
		return errorStatus(fmt.Sprintf("invalid sender address: %v", err))
	}
	if err := msg.To(recipients...); err != nil {
		return errorStatus(fmt.Sprintf("invalid recipient address: %v", err))
	}
	msg.Subject(n.cfg.Subject)
	msg.SetBodyString(mail.TypeTextHTML, proposalBody)
	msg.AttachFile(pdfPath)

	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}

	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return errorStatus(fmt.Sprintf("create smtp client: %v", err))
	}

	logx.Debug().Strs("recipients", recipients).Str("attachment", pdfPath).Msg("Sending proposal email")
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		logx.Error().Err(err).Msg("Proposal delivery failed")
		return errorStatus(fmt.Sprintf("send email: %v", err))
	}

	return model.DeliveryStatus{
		Success: true,
		Detail:  fmt.Sprintf("delivered to %s", strings.Join(recipients, ", ")),
	}
}

func errorStatus(detail string) model.DeliveryStatus {
	return model.DeliveryStatus{Success: false, Detail: detail}
}

var _ model.ProposalNotifier = (*EmailNotifier)(nil)
var _ model.DocumentRenderer = (*PDFRenderer)(nil)
