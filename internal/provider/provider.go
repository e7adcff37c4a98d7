// Package provider talks to the model backends that emit critique text for
// a round: the two debating agents (role A, role B).
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/kodevadam/crucible/internal/critique"
	"github.com/kodevadam/crucible/internal/telemetry"
)

// errAPIKeyRequired is returned when an API key is needed but not provided.
var errAPIKeyRequired = errors.New("provider: ANTHROPIC_API_KEY required")

// RoundProposer asks a model to critique a proposal and returns its raw
// critique text, parsed separately by the caller into critique.RawCritique
// values. Kept narrow so test doubles don't need to know about HTTP retries
// or token accounting.
type RoundProposer interface {
	ProposeCritique(ctx context.Context, in ProposalInput) (string, error)
}

// ProposalInput bundles what a model needs to critique a proposal for one
// round: the proposal text itself, its own prior critiques (for continuity
// across rounds), and the counterpart role's open items.
type ProposalInput struct {
	ProposalID       string
	Round            int
	Role             critique.Role
	ProposalText     string
	OwnPriorRounds    []string
	CounterpartOpen  []critique.CritiqueItem
}

// anthropicClient implements RoundProposer against the Anthropic Messages
// API, with bounded exponential-backoff retry and OTel instrumentation.
type anthropicClient struct {
	client     anthropic.Client
	model      anthropic.Model
	maxElapsed time.Duration
}

// NewAnthropicProposer builds a RoundProposer backed by Claude. Env var
// ANTHROPIC_API_KEY takes precedence over an explicit apiKey argument.
func NewAnthropicProposer(apiKey string, model anthropic.Model) (RoundProposer, error) {
	if envKey := os.Getenv("ANTHROPIC_API_KEY"); envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w", errAPIKeyRequired)
	}
	if model == "" {
		model = anthropic.ModelClaude3_5HaikuLatest
	}

	metricsOnce.Do(initMetrics)

	return &anthropicClient{
		client:     anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:      model,
		maxElapsed: 30 * time.Second,
	}, nil
}

var metricsOnce sync.Once
var roundMetrics struct {
	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
	duration     metric.Float64Histogram
}

func initMetrics() {
	m := telemetry.Meter("github.com/kodevadam/crucible/provider")
	roundMetrics.inputTokens, _ = m.Int64Counter("crucible.provider.input_tokens",
		metric.WithDescription("Anthropic API input tokens consumed per critique call"),
		metric.WithUnit("{token}"))
	roundMetrics.outputTokens, _ = m.Int64Counter("crucible.provider.output_tokens",
		metric.WithDescription("Anthropic API output tokens generated per critique call"),
		metric.WithUnit("{token}"))
	roundMetrics.duration, _ = m.Float64Histogram("crucible.provider.request.duration",
		metric.WithDescription("Anthropic API request duration"),
		metric.WithUnit("ms"))
}

// ProposeCritique renders the critique prompt for in and calls the model,
// retrying transient failures with exponential backoff (§5 concurrency —
// each role's model call is independent and may be retried without
// affecting the other role's in-flight call).
func (c *anthropicClient) ProposeCritique(ctx context.Context, in ProposalInput) (string, error) {
	tracer := telemetry.Tracer("github.com/kodevadam/crucible/provider")
	ctx, span := tracer.Start(ctx, "anthropic.messages.new")
	defer span.End()
	span.SetAttributes(
		attribute.String("crucible.proposal_id", in.ProposalID),
		attribute.Int("crucible.round", in.Round),
		attribute.String("crucible.role", string(in.Role)),
	)

	prompt := renderCritiquePrompt(in)
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.maxElapsed
	bctx := backoff.WithContext(b, ctx)

	var text string
	op := func() error {
		t0 := time.Now()
		message, err := c.client.Messages.New(ctx, params)
		ms := float64(time.Since(t0).Milliseconds())
		if err != nil {
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}

		modelAttr := attribute.String("crucible.model", string(c.model))
		if roundMetrics.inputTokens != nil {
			roundMetrics.inputTokens.Add(ctx, message.Usage.InputTokens, metric.WithAttributes(modelAttr))
			roundMetrics.outputTokens.Add(ctx, message.Usage.OutputTokens, metric.WithAttributes(modelAttr))
			roundMetrics.duration.Record(ctx, ms, metric.WithAttributes(modelAttr))
		}

		if len(message.Content) == 0 || message.Content[0].Type != "text" {
			return backoff.Permanent(fmt.Errorf("provider: unexpected response shape"))
		}
		text = message.Content[0].Text
		return nil
	}

	if err := backoff.Retry(op, bctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("provider: propose critique: %w", err)
	}
	return text, nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}

func renderCritiquePrompt(in ProposalInput) string {
	prompt := fmt.Sprintf(critiquePromptTemplate, in.Role, in.Round, in.ProposalText)
	for _, item := range in.CounterpartOpen {
		prompt += fmt.Sprintf("\n- [%s] %s (severity=%s)", critique.DisplayID(item.ID), item.Title, item.Severity)
	}
	return prompt
}

const critiquePromptTemplate = `You are role %s, round %d, critiquing the following proposal. Raise concrete concerns with a severity (blocking, important, minor) and a short title and detail. Reference derived_from when a concern refines one already raised.

Proposal:
%s

Open counterpart concerns to consider:`
