package probe

import (
	"context"
	"net/http"
	"net/url"

	"github.com/resend/resend-go/v2"
	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/types"
)

// EmailProbe checks outbound email. SMTP credentials are only checked for
// presence; a Resend key is verified by listing the account's domains.
type EmailProbe struct {
	HTTPClient *http.Client
	// BaseURL overrides the Resend API endpoint.
	BaseURL string
	Clock   Clock
}

func NewEmailProbe(client *http.Client) *EmailProbe {
	return &EmailProbe{HTTPClient: client}
}

func (p *EmailProbe) Kind() Kind { return KindEmail }

func (p *EmailProbe) Check(ctx context.Context, cfg *config.Config) types.ProbeResult {
	if cfg.Email.ResendAPIKey == "" {
		if cfg.SMTPConfigured() {
			return types.ProbeResult{Status: types.ProbeStatusConfigured, Message: "SMTP credentials present"}
		}
		return notConfigured("Email is not configured")
	}

	client := resend.NewCustomClient(p.HTTPClient, cfg.Email.ResendAPIKey)
	if p.BaseURL != "" {
		u, err := url.Parse(p.BaseURL)
		if err != nil {
			return unhealthy("invalid email provider URL", err)
		}
		client.BaseURL = u
	}

	clock := clockOrReal(p.Clock)
	start := clock.Now()
	domains, err := client.Domains.ListWithContext(ctx)
	elapsed := clock.Since(start)
	if err != nil {
		return unhealthy("email provider rejected the request", err).WithResponseTime(elapsed)
	}

	message := "email provider reachable"
	if len(domains.Data) == 0 {
		message = "email provider reachable; no sending domains verified"
	}
	return types.ProbeResult{Status: types.ProbeStatusHealthy, Message: message}.WithResponseTime(elapsed)
}
