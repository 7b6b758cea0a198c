// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ocean-bridge/internal/device"
	"github.com/pdiddy/ocean-bridge/internal/journal"
	"github.com/pdiddy/ocean-bridge/internal/params"
	"github.com/pdiddy/ocean-bridge/internal/sampler"
	"github.com/pdiddy/ocean-bridge/internal/task"
	"github.com/pdiddy/ocean-bridge/pkg/types"
)

var submitCmd = &cobra.Command{
	Use:   "submit [problem.yaml]",
	Short: "Submit a problem without waiting for the result",
	Long: `Submit validates the problem, creates the remote task, records it in the
local task journal, and prints the task identifier. Collect the result
later with "ocean-bridge result <task-id>".`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().String("device", "", "device identifier (required)")
	submitCmd.Flags().Int("shots", 0, "number of reads")
	submitCmd.Flags().StringArray("param", nil, "sampling parameter key=value (repeatable)")
	submitCmd.Flags().Bool("dwave", false, "interpret parameters in the D-Wave vocabulary")
	submitCmd.MarkFlagRequired("device")

	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	problem, err := readProblem(args[0])
	if err != nil {
		return err
	}
	deviceID, _ := cmd.Flags().GetString("device")
	shots, _ := cmd.Flags().GetInt("shots")
	pairs, _ := cmd.Flags().GetStringArray("param")
	dwave, _ := cmd.Flags().GetBool("dwave")

	sampleParams, err := parseParams(pairs)
	if err != nil {
		return err
	}
	if shots > 0 {
		if dwave {
			sampleParams["num_reads"] = shots
		} else {
			sampleParams[params.ShotsKey] = shots
		}
	}

	cfg := bridgeConfig()
	devices, tasks, err := serviceClients(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	t, err := submitProblem(ctx, cfg, deviceID, problem, sampleParams, dwave, devices, tasks)
	if err != nil {
		return err
	}

	j, err := journal.Open(cfg.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	entry := journal.Entry{
		TaskID:      t.ID,
		DeviceID:    deviceID,
		ProblemType: string(problem.Type),
		Shots:       shots,
		State:       string(task.StateCreated),
		Bucket:      cfg.Destination.Bucket,
		KeyPrefix:   cfg.Destination.KeyPrefix,
	}
	if err := j.Record(ctx, entry); err != nil {
		return err
	}

	fmt.Println(t.ID)
	return nil
}

func submitProblem(ctx context.Context, cfg types.BridgeConfig, deviceID string, problem types.Problem, p map[string]any, dwave bool, devices *device.Cache, tasks *task.Client) (*task.Task, error) {
	opts := []sampler.Option{
		sampler.WithPollConfig(cfg.Poll),
		sampler.WithLogger(cliLogger()),
	}

	if dwave {
		s, err := sampler.NewDWave(ctx, deviceID, cfg.Destination, devices, tasks, opts...)
		if err != nil {
			return nil, err
		}
		if problem.Type == types.ProblemQUBO {
			return s.SubmitQubo(ctx, quboTerms(problem), p)
		}
		return s.SubmitIsing(ctx, problem.Linear, problem.Quadratic, p)
	}

	s, err := sampler.New(ctx, deviceID, cfg.Destination, devices, tasks, opts...)
	if err != nil {
		return nil, err
	}
	if problem.Type == types.ProblemQUBO {
		return s.SubmitQubo(ctx, quboTerms(problem), p)
	}
	return s.SubmitIsing(ctx, problem.Linear, problem.Quadratic, p)
}
