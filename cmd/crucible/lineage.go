package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kodevadam/crucible/internal/critique"
)

var lineageProposalID string
var lineageRound int

var lineageCmd = &cobra.Command{
	Use:   "lineage",
	Short: "Render lineage cards for the synthesis prompt",
}

var lineageShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print one lineage card per active item",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLineageShow(cmd.Context())
	},
}

func init() {
	lineageShowCmd.Flags().StringVar(&lineageProposalID, "proposal", "", "proposal ID (required)")
	lineageShowCmd.Flags().IntVar(&lineageRound, "round", 0, "current round, used for rounds_active (required)")
	_ = lineageShowCmd.MarkFlagRequired("proposal")
	_ = lineageShowCmd.MarkFlagRequired("round")
	lineageCmd.AddCommand(lineageShowCmd)
}

func runLineageShow(ctx context.Context) error {
	store, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	children := childrenMap(store)
	activeSet := critique.ComputeActiveSet(store, store, children)

	cards := critique.BuildLineageCards(critique.LineageInput{
		ProposalID:   lineageProposalID,
		Round:        lineageRound,
		ActiveSet:    activeSet,
		Items:        store,
		Dispositions: store,
	})

	for _, card := range cards {
		fmt.Println(headerStyle.Render(fmt.Sprintf("%s [%s] %s",
			critique.DisplayID(card.Item.ID), card.Item.Severity, card.Item.Title)))
		for root, entries := range card.Lineage {
			fmt.Printf("  root %s:\n", critique.DisplayID(root))
			for _, e := range entries {
				line := fmt.Sprintf("    round %d %s %s -> %s", e.Round, e.Role, e.Title, e.Decision)
				if len(e.SupersededModelRecords) > 0 {
					line += " " + gateStyle.Render(fmt.Sprintf("(%d model record(s) superseded)", len(e.SupersededModelRecords)))
				}
				fmt.Println(line)
				for _, sup := range e.SupersededModelRecords {
					fmt.Printf("      superseded: %s decided %s at %s\n",
						sup.Record.DecidedBy, sup.Record.Decision, sup.At.Format("2006-01-02T15:04:05Z"))
				}
			}
		}
	}
	return nil
}
