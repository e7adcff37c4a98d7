package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/kodevadam/crucible/internal/critique"
)

var gateProposalID string

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Adjudicate open ⚑ severity-downgrade gates",
}

var gateResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Walk every open pending_transformation gate and record a human decision",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGateResolve(cmd.Context())
	},
}

func init() {
	gateResolveCmd.Flags().StringVar(&gateProposalID, "proposal", "", "proposal ID (required)")
	_ = gateResolveCmd.MarkFlagRequired("proposal")
	gateCmd.AddCommand(gateResolveCmd)
	rootCmd.AddCommand(gateCmd)
}

// runGateResolve prompts a human, one gate at a time, for the final
// accepted/rejected call spec.md §4.12 says only a host or human record can
// make — a model record can never close a pending_transformation item.
// termenv reports the terminal's color profile; on a pipe or dumb terminal
// the huh form is skipped and the open gates are only listed, with no
// decision recorded.
func runGateResolve(ctx context.Context) error {
	store, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if termenv.NewOutput(os.Stdout).Profile == termenv.Ascii {
		return resolveGatesPlain(store)
	}

	pending := critique.ComputePendingFlags(store, store)
	if len(pending) == 0 {
		fmt.Println(gateStyle.Render("no open ⚑ gates"))
		return nil
	}

	for _, id := range pending {
		item, ok := store.GetItem(id)
		if !ok {
			continue
		}

		var decision string
		form := huh.NewForm(huh.NewGroup(
			huh.NewNote().
				Title(fmt.Sprintf("%s [%s] %s", critique.DisplayID(item.ID), item.Severity, item.Title)).
				Description("a severity downgrade was proposed for this item and is held open pending your decision"),
			huh.NewSelect[string]().
				Title("Resolution").
				Options(
					huh.NewOption("Accept the downgrade", string(critique.DecisionAccepted)),
					huh.NewOption("Reject the downgrade, keep original severity", string(critique.DecisionRejected)),
				).
				Value(&decision),
		))
		if err := form.Run(); err != nil {
			return fmt.Errorf("gate resolve: %w", err)
		}

		if err := recordHumanDecision(store, id, critique.Decision(decision)); err != nil {
			return fmt.Errorf("gate resolve: record decision for %s: %w", critique.DisplayID(id), err)
		}
		fmt.Printf("%s resolved: %s\n", critique.DisplayID(id), decision)
	}
	return nil
}

func resolveGatesPlain(store interface {
	critique.ItemStore
	critique.DispositionStore
}) error {
	pending := critique.ComputePendingFlags(store, store)
	if len(pending) == 0 {
		fmt.Println("no open gates")
		return nil
	}
	for _, id := range pending {
		fmt.Printf("%s open (resolve interactively, or via a scripted host decision)\n", critique.DisplayID(id))
	}
	return nil
}

type dispositionInserter interface {
	InsertDispositions(records []critique.DispositionRecord) error
}

func recordHumanDecision(store dispositionInserter, itemID string, decision critique.Decision) error {
	return store.InsertDispositions([]critique.DispositionRecord{{
		DispositionID: "disp_" + critique.DisplayID(itemID) + "_human",
		ItemID:        itemID,
		DecidedBy:     critique.DecidedByHuman,
		Decision:      decision,
		Rationale:     "human gate resolution via crucible gate resolve",
		ProposedAt:    time.Now(),
		TerminalAt:    timePtr(time.Now()),
	}})
}

func timePtr(t time.Time) *time.Time { return &t }
