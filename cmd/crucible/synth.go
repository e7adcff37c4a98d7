package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kodevadam/crucible/internal/critique"
	"github.com/kodevadam/crucible/internal/synthesisplan"
)

var synthProposalID string

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Validate a synthesis write-up against the active blocking set",
}

var synthCheckCmd = &cobra.Command{
	Use:   "check <synthesis.md>",
	Short: "Report every blocking active item not mentioned in the synthesis write-up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSynthCheck(cmd.Context(), args[0])
	},
}

func init() {
	synthCheckCmd.Flags().StringVar(&synthProposalID, "proposal", "", "proposal ID (required)")
	_ = synthCheckCmd.MarkFlagRequired("proposal")
	synthCmd.AddCommand(synthCheckCmd)
}

func runSynthCheck(ctx context.Context, path string) error {
	store, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	text, err := os.ReadFile(path) // #nosec G304 - operator-supplied CLI argument
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	plan := synthesisplan.Parse(string(text))

	children := childrenMap(store)
	activeSet := critique.ComputeActiveSet(store, store, children)
	gaps := critique.ComputeSynthesisGaps(activeSet, store, plan)

	if len(gaps) == 0 {
		fmt.Println(gateStyle.Render("no synthesis gaps: every blocking active item is addressed"))
		return nil
	}

	fmt.Println(blockingStyle.Render(fmt.Sprintf("%d blocking active item(s) unaddressed in synthesis:", len(gaps))))
	for _, item := range gaps {
		fmt.Printf("  %s %s\n", critique.DisplayID(item.ID), item.Title)
	}
	return fmt.Errorf("synthesis gap: %d blocking item(s) not addressed", len(gaps))
}
