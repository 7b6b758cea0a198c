// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble reshapes a raw annealing result payload into the
// sample-set form callers consume: assignments over the original
// variables and domain, energies, and occurrence counts.
package assemble

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ocean-bridge/internal/task"
	"github.com/pdiddy/ocean-bridge/pkg/types"
)

// DefaultEnergyTolerance is the accepted divergence between a reported
// sample energy and the energy recomputed from the problem. Minor
// floating-point drift between the service and local arithmetic is
// expected; anything beyond this is reported as an integrity warning.
const DefaultEnergyTolerance = 1e-6

// Options controls assembly.
type Options struct {
	// Problem, when set, supplies the original biases for energy
	// recomputation and integrity checking, and fixes the target
	// variable domain. Without it energies are taken from the payload
	// as-is.
	Problem *types.Problem

	// Variables is the caller's variable set, used when the payload
	// carries no active-variable list.
	Variables []int

	// Aggregate merges duplicate assignments into one record with
	// summed occurrence counts. Leave false when the caller explicitly
	// requested raw per-shot output.
	Aggregate bool

	// EnergyTolerance overrides DefaultEnergyTolerance when positive.
	EnergyTolerance float64

	// Logger receives integrity warnings. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// Assemble decodes the payload's per-shot or per-bucket records into a
// sample set. Variable labels are resolved in precedence order: the
// payload's active-variable list, then opts.Variables (sorted), then the
// index range 0..variableCount-1. When the payload domain differs from
// the problem domain the assignments are converted (spin s = 2b-1).
// Energies diverging from recomputation beyond tolerance are logged,
// never fatal.
func Assemble(res *task.Result, opts Options) (types.SampleSet, error) {
	variables := resolveVariables(res, opts.Variables)

	vartype := res.ProblemType.Vartype()
	if opts.Problem != nil {
		vartype = opts.Problem.Type.Vartype()
	}

	tolerance := opts.EnergyTolerance
	if tolerance <= 0 {
		tolerance = DefaultEnergyTolerance
	}

	set := types.SampleSet{
		Variables: variables,
		Vartype:   vartype,
		Info: map[string]any{
			"taskMetadata":       res.TaskMetadata,
			"additionalMetadata": res.AdditionalMetadata,
		},
	}

	for i, solution := range res.Solutions {
		if len(solution) != len(variables) {
			return types.SampleSet{}, fmt.Errorf(
				"solution %d has %d values for %d variables", i, len(solution), len(variables))
		}

		assignment := convertDomain(solution, res.ProblemType.Vartype(), vartype)

		count := 1
		if i < len(res.SolutionCounts) {
			count = res.SolutionCounts[i]
		}

		rec := types.Sample{Assignment: assignment, Occurrences: count}

		var recomputed float64
		haveRecomputed := false
		if opts.Problem != nil {
			recomputed = opts.Problem.Energy(assignmentMap(variables, assignment))
			haveRecomputed = true
		}

		switch {
		case i < len(res.Values):
			rec.Energy = res.Values[i]
			if haveRecomputed && math.Abs(rec.Energy-recomputed) > tolerance {
				opts.Logger.Warn().
					Int("sample", i).
					Float64("reported", rec.Energy).
					Float64("recomputed", recomputed).
					Msg("reported energy diverges from recomputed energy")
			}
		case haveRecomputed:
			rec.Energy = recomputed
		default:
			return types.SampleSet{}, fmt.Errorf("solution %d carries no energy and no problem was supplied", i)
		}

		set.Samples = append(set.Samples, rec)
	}

	if opts.Aggregate {
		set.Samples = aggregate(set.Samples)
	}
	return set, nil
}

func resolveVariables(res *task.Result, fallback []int) []int {
	if len(res.ActiveVariables) > 0 {
		return res.ActiveVariables
	}
	if len(fallback) > 0 {
		vars := append([]int(nil), fallback...)
		sort.Ints(vars)
		return vars
	}
	vars := make([]int, res.VariableCount)
	for i := range vars {
		vars[i] = i
	}
	return vars
}

func convertDomain(solution []int, from, to types.Vartype) []int {
	out := make([]int, len(solution))
	copy(out, solution)
	if from == to {
		return out
	}
	for i, v := range out {
		if to == types.VartypeSpin {
			out[i] = 2*v - 1
		} else {
			out[i] = (v + 1) / 2
		}
	}
	return out
}

func assignmentMap(variables, assignment []int) map[int]int {
	m := make(map[int]int, len(variables))
	for i, v := range variables {
		m[v] = assignment[i]
	}
	return m
}

// aggregate merges records with identical assignments, summing counts.
// The first occurrence keeps its position and energy.
func aggregate(samples []types.Sample) []types.Sample {
	index := make(map[string]int, len(samples))
	var out []types.Sample
	for _, rec := range samples {
		key := assignmentKey(rec.Assignment)
		if i, ok := index[key]; ok {
			out[i].Occurrences += rec.Occurrences
			continue
		}
		index[key] = len(out)
		out = append(out, rec)
	}
	return out
}

func assignmentKey(assignment []int) string {
	parts := make([]string, len(assignment))
	for i, v := range assignment {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
