package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kodevadam/crucible/internal/critique"
	"github.com/kodevadam/crucible/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var roundCmd = &cobra.Command{
	Use:   "round",
	Short: "Ingest and inspect critique rounds",
}

var (
	ingestProposalID string
	ingestRole       string
	ingestRound      int
)

var roundIngestCmd = &cobra.Command{
	Use:   "ingest <critiques.json>",
	Short: "Validate and mint one role's raw critiques for a round",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoundIngest(cmd.Context(), args[0])
	},
}

var roundStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the active set, pending ⚑ gates, and convergence state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoundStatus(cmd.Context())
	},
}

func init() {
	roundIngestCmd.Flags().StringVar(&ingestProposalID, "proposal", "", "proposal ID (required)")
	roundIngestCmd.Flags().StringVar(&ingestRole, "role", "", "A or B (required)")
	roundIngestCmd.Flags().IntVar(&ingestRound, "round", 0, "round number (required, positive)")
	_ = roundIngestCmd.MarkFlagRequired("proposal")
	_ = roundIngestCmd.MarkFlagRequired("role")
	_ = roundIngestCmd.MarkFlagRequired("round")

	roundStatusCmd.Flags().StringVar(&ingestProposalID, "proposal", "", "proposal ID (required)")
	_ = roundStatusCmd.MarkFlagRequired("proposal")

	roundCmd.AddCommand(roundIngestCmd)
	roundCmd.AddCommand(roundStatusCmd)
	roundCmd.AddCommand(roundWatchCmd)
}

// rawCritiqueJSON mirrors critique.RawCritique/RawDisposition in the shape
// the host reads critique text parsed from model output — one JSON array
// element per concern the model raised, parse order preserved (§6).
type rawCritiqueJSON struct {
	Severity    string            `json:"severity"`
	Title       string            `json:"title"`
	Detail      string            `json:"detail"`
	DerivedFrom []string          `json:"derived_from,omitempty"`
	Disposition *rawDispositionJSON `json:"disposition,omitempty"`
}

type rawDispositionJSON struct {
	DecidedBy               string `json:"decided_by"`
	Decision                string `json:"decision"`
	Rationale               string `json:"rationale"`
	TransformationRationale string `json:"transformation_rationale,omitempty"`
	SeverityDowngradeTo     string `json:"severity_downgrade_to,omitempty"`
}

func loadRawCritiques(path string) ([]critique.RawCritique, error) {
	data, err := os.ReadFile(path) // #nosec G304 - operator-supplied CLI argument
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var raw []rawCritiqueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := make([]critique.RawCritique, 0, len(raw))
	for _, r := range raw {
		item := critique.RawCritique{
			Severity:    critique.Severity(r.Severity),
			Title:       r.Title,
			Detail:      r.Detail,
			DerivedFrom: r.DerivedFrom,
		}
		if r.Disposition != nil {
			d := &critique.RawDisposition{
				DecidedBy:               critique.DecidedBy(r.Disposition.DecidedBy),
				Decision:                critique.Decision(r.Disposition.Decision),
				Rationale:               r.Disposition.Rationale,
				TransformationRationale: r.Disposition.TransformationRationale,
			}
			if r.Disposition.SeverityDowngradeTo != "" {
				sev := critique.Severity(r.Disposition.SeverityDowngradeTo)
				d.SeverityDowngradeTo = &sev
			}
			item.Disposition = d
		}
		out = append(out, item)
	}
	return out, nil
}

func runRoundIngest(ctx context.Context, path string) error {
	store, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	raw, err := loadRawCritiques(path)
	if err != nil {
		return err
	}

	tracer := telemetry.Tracer("github.com/kodevadam/crucible/cmd/crucible")
	ctx, span := tracer.Start(ctx, "round.ingest")
	defer span.End()
	span.SetAttributes(
		attribute.String("crucible.proposal_id", ingestProposalID),
		attribute.Int("crucible.round", ingestRound),
		attribute.String("crucible.role", ingestRole),
	)

	result, err := critique.ProcessCritiqueRound(critique.RoundInput{
		ProposalID:          ingestProposalID,
		Role:                critique.Role(ingestRole),
		Round:               ingestRound,
		RawCritiques:        raw,
		Items:               store,
		Dispositions:        store,
		ClosedItems:         closedItemsView(store, store),
		InsertItems:         store.InsertItems,
		InsertDispositions:  store.InsertDispositions,
		SimilarityThreshold: cfg.SimilarityThreshold,
	})
	if err != nil {
		return fmt.Errorf("ingest round: %w", err)
	}

	slog.Info("round ingested",
		slog.String("proposal_id", ingestProposalID),
		slog.Int("round", ingestRound),
		slog.String("role", ingestRole),
		slog.Int("minted", len(result.MintedItems)),
		slog.Int("errors", len(result.Errors)),
		slog.Int("warnings", len(result.Warnings)),
	)

	for _, item := range result.MintedItems {
		fmt.Printf("minted %s [%s] %s\n", critique.DisplayID(item.ID), item.Severity, item.Title)
	}
	for _, w := range result.Warnings {
		fmt.Println(mutedStyle.Render("warning: " + w))
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, blockingStyle.Render("error: "+e.Error()))
		}
		return fmt.Errorf("ingest round: %d structural error(s); nothing written", len(result.Errors))
	}
	return nil
}

func runRoundStatus(ctx context.Context) error {
	store, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	children := childrenMap(store)
	activeSet := critique.ComputeActiveSet(store, store, children)
	convergence := critique.ComputeConvergenceState(activeSet, store)
	pending := critique.ComputePendingFlags(store, store)

	fmt.Println(headerStyle.Render(fmt.Sprintf("proposal %s", ingestProposalID)))
	fmt.Printf("convergence: %s\n", convergenceLabel(convergence))
	fmt.Printf("active items: %d\n", len(activeSet))
	for _, id := range activeSet {
		item, ok := store.GetItem(id)
		if !ok {
			continue
		}
		fmt.Printf("  %s %s %s\n", critique.DisplayID(item.ID), severityStyle(string(item.Severity)).Render(string(item.Severity)), item.Title)
	}
	if len(pending) > 0 {
		fmt.Println(gateStyle.Render(fmt.Sprintf("⚑ pending_transformation gate open on %d item(s):", len(pending))))
		for _, id := range pending {
			fmt.Printf("  %s\n", critique.DisplayID(id))
		}
	}
	if !critique.RoundClosedForSynthesis(activeSet, store, store) {
		fmt.Println(mutedStyle.Render("round is not yet closed for synthesis"))
	}
	return nil
}

func convergenceLabel(s critique.ConvergenceState) string {
	if s == critique.ConvergenceClosed {
		return gateStyle.Render("closed")
	}
	return blockingStyle.Render("open")
}
