// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ocean-bridge/internal/device"
	"github.com/pdiddy/ocean-bridge/internal/sampler"
	"github.com/pdiddy/ocean-bridge/internal/task"
	"github.com/pdiddy/ocean-bridge/pkg/types"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [problem.yaml]",
	Short: "Submit a problem and wait for its sample set",
	Long: `Sample validates the problem against the device topology, submits it as
a remote task, waits for completion, and prints the assembled sample set.

Parameters are given as repeated --param key=value flags, in the service
vocabulary by default or the D-Wave vocabulary with --dwave
(e.g. --dwave --param answer_mode=histogram --param num_reads=100).`,
	Args: cobra.ExactArgs(1),
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().String("device", "", "device identifier (required)")
	sampleCmd.Flags().Int("shots", 0, "number of reads")
	sampleCmd.Flags().StringArray("param", nil, "sampling parameter key=value (repeatable)")
	sampleCmd.Flags().Bool("dwave", false, "interpret parameters in the D-Wave vocabulary")
	sampleCmd.Flags().Bool("json", false, "output the sample set as JSON")
	sampleCmd.MarkFlagRequired("device")

	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	problem, err := readProblem(args[0])
	if err != nil {
		return err
	}
	deviceID, _ := cmd.Flags().GetString("device")
	shots, _ := cmd.Flags().GetInt("shots")
	pairs, _ := cmd.Flags().GetStringArray("param")
	dwave, _ := cmd.Flags().GetBool("dwave")
	asJSON, _ := cmd.Flags().GetBool("json")

	sampleParams, err := parseParams(pairs)
	if err != nil {
		return err
	}
	if shots > 0 {
		if dwave {
			sampleParams["num_reads"] = shots
		} else {
			sampleParams["shots"] = shots
		}
	}

	cfg := bridgeConfig()
	devices, tasks, err := serviceClients(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	set, err := runProblem(ctx, cfg, deviceID, problem, sampleParams, dwave, devices, tasks)
	if err != nil {
		return err
	}
	return printSampleSet(set, asJSON)
}

// runProblem drives the full pipeline for one problem through the
// sampler variant matching the parameter vocabulary.
func runProblem(ctx context.Context, cfg types.BridgeConfig, deviceID string, problem types.Problem, p map[string]any, dwave bool, devices *device.Cache, tasks *task.Client) (types.SampleSet, error) {
	opts := []sampler.Option{
		sampler.WithPollConfig(cfg.Poll),
		sampler.WithLogger(cliLogger()),
		sampler.WithEnergyTolerance(cfg.EnergyTolerance),
	}

	h, j := splitProblem(problem)

	if dwave {
		s, err := sampler.NewDWave(ctx, deviceID, cfg.Destination, devices, tasks, opts...)
		if err != nil {
			return types.SampleSet{}, err
		}
		if problem.Type == types.ProblemQUBO {
			return s.SampleQubo(ctx, quboTerms(problem), p)
		}
		return s.SampleIsing(ctx, h, j, p)
	}

	s, err := sampler.New(ctx, deviceID, cfg.Destination, devices, tasks, opts...)
	if err != nil {
		return types.SampleSet{}, err
	}
	if problem.Type == types.ProblemQUBO {
		return s.SampleQubo(ctx, quboTerms(problem), p)
	}
	return s.SampleIsing(ctx, h, j, p)
}

func splitProblem(p types.Problem) (map[int]float64, map[types.Edge]float64) {
	return p.Linear, p.Quadratic
}

// quboTerms folds a binary problem back into QUBO coefficient form.
func quboTerms(p types.Problem) map[types.Edge]float64 {
	q := make(map[types.Edge]float64, len(p.Linear)+len(p.Quadratic))
	for v, bias := range p.Linear {
		q[types.Edge{U: v, V: v}] = bias
	}
	for e, bias := range p.Quadratic {
		q[e] = bias
	}
	return q
}

func printSampleSet(set types.SampleSet, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	}

	fmt.Printf("variables: %v\n", set.Variables)
	fmt.Printf("vartype:   %s\n", set.Vartype)
	for _, rec := range set.Samples {
		fmt.Printf("%v  energy=%g  count=%d\n", rec.Assignment, rec.Energy, rec.Occurrences)
	}
	if best, ok := set.Lowest(); ok {
		fmt.Printf("lowest energy: %g\n", best.Energy)
	}
	return nil
}
