package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// roundWatchCmd supplements the spec's implicit single-shot
// ProcessCritiqueRound call with an fsnotify-driven loop: every time the
// critique file is saved, it's re-ingested against the same proposal/role/
// round. A convenience around the core's own operation, not a change to
// its semantics (§9 design note on no suspension points *inside* the core —
// this loop lives entirely in the host).
var roundWatchCmd = &cobra.Command{
	Use:   "watch <critiques.json>",
	Short: "Re-ingest a critique file into the current round each time it's saved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoundWatch(cmd.Context(), args[0])
	},
}

func init() {
	roundWatchCmd.Flags().StringVar(&ingestProposalID, "proposal", "", "proposal ID (required)")
	roundWatchCmd.Flags().StringVar(&ingestRole, "role", "", "A or B (required)")
	roundWatchCmd.Flags().IntVar(&ingestRound, "round", 0, "round number (required, positive)")
	_ = roundWatchCmd.MarkFlagRequired("proposal")
	_ = roundWatchCmd.MarkFlagRequired("role")
	_ = roundWatchCmd.MarkFlagRequired("round")
}

func runRoundWatch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("round watch: new watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("round watch: watch %s: %w", dir, err)
	}
	base := filepath.Base(path)

	fmt.Printf("watching %s for changes (ctrl-c to stop)\n", path)
	if err := runRoundIngest(ctx, path); err != nil {
		fmt.Println(blockingStyle.Render(err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			fmt.Printf("%s changed, re-ingesting\n", path)
			if err := runRoundIngest(ctx, path); err != nil {
				fmt.Println(blockingStyle.Render(err.Error()))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println(blockingStyle.Render("watch error: " + err.Error()))
		}
	}
}
