package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"support-relay/internal/domain"
	"support-relay/internal/ports/output"
	"support-relay/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// FallbackReply replaces a completion whose response carried no usable text
const FallbackReply = "Sorry, try again!"

// CompletionSettings holds the fixed sampling parameters sent with every call
type CompletionSettings struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// DefaultCompletionSettings favors short, deterministic answers
func DefaultCompletionSettings() CompletionSettings {
	return CompletionSettings{
		Model:       "gpt-4o-mini",
		Temperature: 0.2,
		MaxTokens:   400,
	}
}

// CompletionGateway struct - Wraps the language-model exchange
type CompletionGateway struct {
	client   output.CompletionClient
	settings CompletionSettings
	metrics  *metrics.Collector
}

// NewCompletionGateway func - Creates new completion gateway. Zero settings fields take defaults.
func NewCompletionGateway(client output.CompletionClient, settings CompletionSettings, collector *metrics.Collector) *CompletionGateway {
	defaults := DefaultCompletionSettings()
	if settings.Model == "" {
		settings.Model = defaults.Model
	}
	if settings.Temperature <= 0 {
		settings.Temperature = defaults.Temperature
	}
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = defaults.MaxTokens
	}
	return &CompletionGateway{
		client:   client,
		settings: settings,
		metrics:  collector,
	}
}

// Complete sends the system prompt followed by history and returns the first choice.
// An empty or choice-less answer, or an upstream JSON error body, yields FallbackReply
// with Fallback set.
func (g *CompletionGateway) Complete(ctx context.Context, history []domain.Turn, profile domain.BusinessProfile) (domain.Completion, error) {
	request := g.buildRequest(history, profile)

	start := time.Now()
	response, err := g.client.ChatCompletion(ctx, request)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, domain.ErrEmptyCompletion):
		g.metrics.ObserveCompletion("fallback", elapsed)
		logrus.Warnf("Completion returned no choices, using fallback reply")
		return domain.Completion{Text: FallbackReply, Fallback: true}, nil
	case errors.Is(err, domain.ErrUpstreamRejected):
		g.metrics.ObserveCompletion("fallback", elapsed)
		logrus.Warnf("Completion request rejected, using fallback reply: %v", err)
		return domain.Completion{Text: FallbackReply, Fallback: true}, nil
	case err != nil:
		g.metrics.ObserveCompletion("error", elapsed)
		return domain.Completion{}, err
	}

	text := strings.TrimSpace(response.Content)
	if text == "" {
		g.metrics.ObserveCompletion("fallback", elapsed)
		logrus.Warnf("Completion returned empty content (model=%s), using fallback reply", response.Model)
		return domain.Completion{Text: FallbackReply, Fallback: true}, nil
	}

	g.metrics.ObserveCompletion("ok", elapsed)
	return domain.Completion{Text: text}, nil
}

// buildRequest prepends the system instruction to the conversation history
func (g *CompletionGateway) buildRequest(history []domain.Turn, profile domain.BusinessProfile) domain.ChatCompletionRequest {
	messages := make([]domain.ChatMessage, 0, len(history)+1)
	messages = append(messages, domain.ChatMessage{
		Role:    domain.ChatMessageRoleSystem,
		Content: BuildSystemPrompt(profile),
	})
	messages = append(messages, history...)

	temperature := g.settings.Temperature
	maxTokens := g.settings.MaxTokens
	return domain.ChatCompletionRequest{
		Model:       g.settings.Model,
		Messages:    messages,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}
}

// BuildSystemPrompt embeds the business profile verbatim and the answering rules
func BuildSystemPrompt(profile domain.BusinessProfile) string {
	name := profile.CompanyName

	var b strings.Builder
	fmt.Fprintf(&b, "You are the official customer support AI of %s.\n", name)
	b.WriteString("Answer ONLY using the company's real information:\n\n")
	fmt.Fprintf(&b, "Company Name: %s\n", name)
	fmt.Fprintf(&b, "Tagline: %s\n", profile.Tagline)
	fmt.Fprintf(&b, "Services: %s\n", strings.Join(profile.Services, ", "))
	fmt.Fprintf(&b, "Email: %s\n", profile.Email)
	fmt.Fprintf(&b, "Phone: %s\n", profile.Phone)
	fmt.Fprintf(&b, "WhatsApp: %s\n", profile.WhatsApp)
	fmt.Fprintf(&b, "Location: %s\n\n", profile.Location)
	fmt.Fprintf(&b, "About Us: %s\n", profile.About)
	fmt.Fprintf(&b, "Pricing Info: %s\n\n", profile.PricingInfo)
	b.WriteString("Rules:\n")
	fmt.Fprintf(&b, "- ALWAYS speak as %s support team.\n", name)
	b.WriteString("- NEVER invent details not provided.\n")
	b.WriteString("- If user asks for services, use the services list.\n")
	b.WriteString("- If user asks for pricing, use Pricing Info.\n")
	b.WriteString("- If user asks for contact, give Email, WhatsApp, Phone.\n")
	b.WriteString("- If user wants a project, guide them politely.\n")
	b.WriteString("- If user says \"send mail\", \"mail this\", \"contact me\", say:\n")
	b.WriteString("  \"I can forward this message to our support team.\"\n")
	b.WriteString("- Keep messages short, friendly & professional.\n")
	return b.String()
}
