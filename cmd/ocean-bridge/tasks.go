// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ocean-bridge/internal/journal"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List journaled task submissions",
	Long: `Tasks lists the submissions recorded in the local task journal, newest
first, with their last observed lifecycle state.`,
	RunE: runTasks,
}

var tasksCancelCmd = &cobra.Command{
	Use:   "cancel [task-id]",
	Short: "Ask the service to cancel a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksCancel,
}

func init() {
	tasksCmd.AddCommand(tasksCancelCmd)
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	cfg := bridgeConfig()
	j, err := journal.Open(cfg.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.List(context.Background())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no tasks journaled")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-9s  %s  %s  shots=%d\n",
			e.CreatedAt.Local().Format(time.DateTime), e.State, e.TaskID, e.DeviceID, e.Shots)
	}
	return nil
}

func runTasksCancel(cmd *cobra.Command, args []string) error {
	taskID := args[0]

	cfg := bridgeConfig()
	_, tasks, err := serviceClients(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := tasks.Handle(taskID).Cancel(ctx); err != nil {
		return err
	}

	j, err := journal.Open(cfg.Journal)
	if err != nil {
		return err
	}
	defer j.Close()
	// Best effort: the task may not be in this journal.
	_ = j.UpdateState(ctx, taskID, "CANCELLING")

	fmt.Printf("cancel requested for %s\n", taskID)
	return nil
}
