package provider

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kodevadam/crucible/internal/critique"
)

// RoundProposals holds each role's raw critique text for one round.
type RoundProposals struct {
	A string
	B string
}

// FanOutRound asks both roles to critique the same proposal concurrently —
// the host-side fan-out spec.md §5 describes ("the host may fan out LLM
// calls concurrently"). The core itself is never involved here; each
// role's ProcessCritiqueRound call still happens serially once the host has
// both texts in hand and has parsed them into raw critiques.
func FanOutRound(ctx context.Context, proposer RoundProposer, proposalID string, round int, proposalText string, aPrior, bPrior []string) (RoundProposals, error) {
	g, gctx := errgroup.WithContext(ctx)
	var out RoundProposals

	g.Go(func() error {
		text, err := proposer.ProposeCritique(gctx, ProposalInput{
			ProposalID:     proposalID,
			Round:          round,
			Role:           critique.RoleA,
			ProposalText:   proposalText,
			OwnPriorRounds: aPrior,
		})
		out.A = text
		return err
	})
	g.Go(func() error {
		text, err := proposer.ProposeCritique(gctx, ProposalInput{
			ProposalID:     proposalID,
			Round:          round,
			Role:           critique.RoleB,
			ProposalText:   proposalText,
			OwnPriorRounds: bPrior,
		})
		out.B = text
		return err
	})

	if err := g.Wait(); err != nil {
		return RoundProposals{}, err
	}
	return out, nil
}
