package provider

import (
	"context"
	"strings"
	"testing"

	"github.com/kodevadam/crucible/internal/critique"
)

func TestRenderCritiquePromptIncludesCounterpartConcerns(t *testing.T) {
	prompt := renderCritiquePrompt(ProposalInput{
		ProposalID:   "p1",
		Round:        2,
		Role:         critique.RoleB,
		ProposalText: "Switch the queue to at-least-once delivery.",
		CounterpartOpen: []critique.CritiqueItem{
			{ID: "blk_" + strings.Repeat("a", 64), Title: "Ordering guarantees unclear", Severity: critique.SeverityImportant},
		},
	})

	if !strings.Contains(prompt, "role B, round 2") {
		t.Fatalf("expected role/round header, got: %s", prompt)
	}
	if !strings.Contains(prompt, "Ordering guarantees unclear") {
		t.Fatalf("expected counterpart concern title, got: %s", prompt)
	}
}

func TestIsRetryableRejectsNilAndContextErrors(t *testing.T) {
	if isRetryable(nil) {
		t.Fatalf("nil error must not be retryable")
	}
	if isRetryable(context.Canceled) || isRetryable(context.DeadlineExceeded) {
		t.Fatalf("context cancellation and deadline errors must not be retryable")
	}
}

func TestNewAnthropicProposerRequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewAnthropicProposer("", ""); err == nil {
		t.Fatalf("expected error when no API key is available")
	}
}
