package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/types"
)

// AIMissingKeyMessage is reported when no provider key is configured.
const AIMissingKeyMessage = "AI provider API key is not configured"

// AIProbe lists models on an OpenAI-compatible provider.
type AIProbe struct {
	Client *http.Client
	Clock  Clock
}

func NewAIProbe(client *http.Client) *AIProbe {
	if client == nil {
		client = &http.Client{}
	}
	return &AIProbe{Client: client}
}

func (p *AIProbe) Kind() Kind { return KindAI }

func (p *AIProbe) Check(ctx context.Context, cfg *config.Config) types.ProbeResult {
	if cfg.AI.APIKey == "" {
		return notConfigured(AIMissingKeyMessage)
	}

	timeout := cfg.Health.AITimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientConfig := openai.DefaultConfig(cfg.AI.APIKey)
	clientConfig.BaseURL = cfg.AI.BaseURL
	clientConfig.HTTPClient = p.Client
	client := openai.NewClientWithConfig(clientConfig)

	clock := clockOrReal(p.Clock)
	start := clock.Now()
	_, err := client.ListModels(ctx)
	elapsed := clock.Since(start)
	if err != nil {
		if status, ok := providerStatus(err); ok {
			return unhealthy(fmt.Sprintf("AI provider returned status %d", status), err).WithResponseTime(elapsed)
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return unhealthy(fmt.Sprintf("AI provider did not respond within %dms", timeout.Milliseconds()), err).WithResponseTime(elapsed)
		}
		return unhealthy("AI provider request failed", err).WithResponseTime(elapsed)
	}
	return latencyResult(elapsed, cfg.Health.AIBudget(), "AI provider reachable")
}

// providerStatus extracts the HTTP status of a failed provider response.
func providerStatus(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}
