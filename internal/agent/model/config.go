package model

// ================ Config ================

type ConversationConfig struct {
	// TTL is the checkpoint expiry, extended on every touch. "0" disables expiry.
	TTL string `envconfig:"CONVERSATION_TTL" default:"0"`

	// MaxRunSteps bounds a single graph invocation. This is an engine safety
	// ceiling, not a per-turn directive quota.
	MaxRunSteps int `envconfig:"CONVERSATION_MAX_RUN_STEPS" default:"40"`
}

type ReasoningModelConfig struct {
	Model       string  `envconfig:"REASONING_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"REASONING_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"REASONING_TEMPERATURE" default:"0.3"`
}

type DraftingModelConfig struct {
	Model       string  `envconfig:"DRAFTING_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"DRAFTING_MAX_TOKENS" default:"4000"`
	Temperature float32 `envconfig:"DRAFTING_TEMPERATURE" default:"0.4"`
}

// ProposalConfig carries the brand identity baked into the proposal template
// and the delivery fallbacks used while drafting.
type ProposalConfig struct {
	BrandName      string `envconfig:"PROPOSAL_BRAND_NAME" default:"ProCode Bot"`
	CompanyName    string `envconfig:"PROPOSAL_COMPANY_NAME" default:"ProCodeHub Pvt Ltd"`
	CompanyAddress string `envconfig:"PROPOSAL_COMPANY_ADDRESS" default:"123 Kalikaparameshwari complex, Durgigudi, Shivamogga, Karnataka - 577201"`
	CompanyContact string `envconfig:"PROPOSAL_COMPANY_CONTACT" default:"+91 98765 43210 | Email: procodehub@gmail.com"`
	LogoURL        string `envconfig:"PROPOSAL_LOGO_URL"`

	// DefaultRecipient receives the proposal when no address can be extracted
	// from the transcript.
	DefaultRecipient string `envconfig:"PROPOSAL_DEFAULT_RECIPIENT" default:"sanjuhoskal@gmail.com"`

	OutputDir string `envconfig:"PROPOSAL_OUTPUT_DIR" default:"generated_proposals"`
}

// NotifierConfig holds SMTP delivery settings.
type NotifierConfig struct {
	Host        string `envconfig:"SMTP_HOST"`
	Port        int    `envconfig:"SMTP_PORT" default:"587"`
	Username    string `envconfig:"SMTP_USERNAME"`
	Password    string `envconfig:"SMTP_PASSWORD"`
	SenderEmail string `envconfig:"SMTP_SENDER_EMAIL"`
	SenderName  string `envconfig:"SMTP_SENDER_NAME" default:"ProCode Bot"`
	Subject     string `envconfig:"SMTP_SUBJECT" default:"Your Custom Project Proposal - ProCode Bot"`
}
