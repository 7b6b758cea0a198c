// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ocean-bridge/internal/assemble"
	"github.com/pdiddy/ocean-bridge/internal/journal"
	"github.com/pdiddy/ocean-bridge/internal/task"
)

var resultCmd = &cobra.Command{
	Use:   "result [task-id]",
	Short: "Wait for a submitted task and print its sample set",
	Long: `Result resumes waiting on a task submitted earlier (see "ocean-bridge
submit"), assembles the sample set once the task completes, and updates
the task journal with the final state.`,
	Args: cobra.ExactArgs(1),
	RunE: runResult,
}

func init() {
	resultCmd.Flags().Bool("json", false, "output the sample set as JSON")
	resultCmd.Flags().Bool("raw", false, "keep raw per-shot records instead of aggregating duplicates")

	rootCmd.AddCommand(resultCmd)
}

func runResult(cmd *cobra.Command, args []string) error {
	taskID := args[0]
	asJSON, _ := cmd.Flags().GetBool("json")
	raw, _ := cmd.Flags().GetBool("raw")

	cfg := bridgeConfig()
	_, tasks, err := serviceClients(cfg)
	if err != nil {
		return err
	}

	j, err := journal.Open(cfg.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := context.Background()
	t := tasks.Handle(taskID)
	res, err := t.Await(ctx, cfg.Poll)

	// Journal whatever terminal state the wait observed, even a failure.
	if state, stateErr := t.State(ctx); stateErr == nil {
		if updateErr := j.UpdateState(ctx, taskID, string(state)); updateErr != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", updateErr)
		}
	}

	if err != nil {
		var failed *task.FailedError
		var cancelled *task.CancelledError
		switch {
		case errors.As(err, &failed), errors.As(err, &cancelled):
			return err
		default:
			return fmt.Errorf("waiting for task %s: %w", taskID, err)
		}
	}

	set, err := assemble.Assemble(res, assemble.Options{
		Aggregate:       !raw,
		EnergyTolerance: cfg.EnergyTolerance,
		Logger:          cliLogger(),
	})
	if err != nil {
		return err
	}
	return printSampleSet(set, asJSON)
}
