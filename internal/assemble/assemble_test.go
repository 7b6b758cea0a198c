// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ocean-bridge/internal/task"
	"github.com/pdiddy/ocean-bridge/pkg/types"
)

func isingProblem() types.Problem {
	return types.NewIsing(
		map[int]float64{0: -1, 4: 1},
		map[types.Edge]float64{types.NewEdge(0, 4): -0.5},
	)
}

func TestAssembleHistogram(t *testing.T) {
	res := &task.Result{
		ProblemType:     types.ProblemIsing,
		Solutions:       [][]int{{1, -1}, {-1, 1}},
		Values:          []float64{-1.5, 2.5},
		SolutionCounts:  []int{80, 20},
		VariableCount:   2,
		ActiveVariables: []int{0, 4},
	}

	p := isingProblem()
	set, err := Assemble(res, Options{Problem: &p, Aggregate: true})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 4}, set.Variables)
	assert.Equal(t, types.VartypeSpin, set.Vartype)
	require.Len(t, set.Samples, 2)
	assert.Equal(t, []int{1, -1}, set.Samples[0].Assignment)
	assert.Equal(t, 80, set.Samples[0].Occurrences)
	assert.Equal(t, 100, set.TotalOccurrences())
}

func TestAssembleRawKeepsDuplicates(t *testing.T) {
	res := &task.Result{
		ProblemType:   types.ProblemIsing,
		Solutions:     [][]int{{1, -1}, {1, -1}, {-1, 1}},
		Values:        []float64{-1.5, -1.5, 0.5},
		VariableCount: 2,
	}

	set, err := Assemble(res, Options{})
	require.NoError(t, err)

	// Raw output keeps every shot as its own record with count 1.
	require.Len(t, set.Samples, 3)
	for _, s := range set.Samples {
		assert.Equal(t, 1, s.Occurrences)
	}
	assert.Equal(t, 3, set.TotalOccurrences())
}

func TestAssembleAggregatesDuplicates(t *testing.T) {
	res := &task.Result{
		ProblemType:   types.ProblemIsing,
		Solutions:     [][]int{{1, -1}, {-1, 1}, {1, -1}},
		Values:        []float64{-1.5, 0.5, -1.5},
		VariableCount: 2,
	}

	set, err := Assemble(res, Options{Aggregate: true})
	require.NoError(t, err)

	require.Len(t, set.Samples, 2)
	// The first occurrence keeps its position; counts are summed.
	assert.Equal(t, []int{1, -1}, set.Samples[0].Assignment)
	assert.Equal(t, 2, set.Samples[0].Occurrences)
	assert.Equal(t, 1, set.Samples[1].Occurrences)
	assert.Equal(t, 3, set.TotalOccurrences())
}

func TestAssembleVariablePrecedence(t *testing.T) {
	tests := []struct {
		name string
		res  task.Result
		opts Options
		want []int
	}{
		{
			name: "payload active variables win",
			res:  task.Result{ActiveVariables: []int{2, 7}, VariableCount: 2},
			opts: Options{Variables: []int{0, 1}},
			want: []int{2, 7},
		},
		{
			name: "caller variables sorted",
			res:  task.Result{VariableCount: 3},
			opts: Options{Variables: []int{9, 3, 5}},
			want: []int{3, 5, 9},
		},
		{
			name: "index range fallback",
			res:  task.Result{VariableCount: 3},
			want: []int{0, 1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.res
			res.ProblemType = types.ProblemIsing
			set, err := Assemble(&res, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, set.Variables)
		})
	}
}

func TestAssembleConvertsBinaryToSpin(t *testing.T) {
	// QUBO payload for an Ising problem: 0/1 values become -1/+1.
	res := &task.Result{
		ProblemType:     types.ProblemQUBO,
		Solutions:       [][]int{{1, 0}},
		Values:          []float64{-1.5},
		VariableCount:   2,
		ActiveVariables: []int{0, 4},
	}

	p := isingProblem()
	set, err := Assemble(res, Options{Problem: &p})
	require.NoError(t, err)

	assert.Equal(t, types.VartypeSpin, set.Vartype)
	assert.Equal(t, []int{1, -1}, set.Samples[0].Assignment)
}

func TestAssembleConvertsSpinToBinary(t *testing.T) {
	res := &task.Result{
		ProblemType:     types.ProblemIsing,
		Solutions:       [][]int{{1, -1}},
		Values:          []float64{-1},
		VariableCount:   2,
		ActiveVariables: []int{0, 1},
	}

	p := types.NewQUBO(map[types.Edge]float64{
		types.NewEdge(0, 0): -1,
		types.NewEdge(0, 1): 2,
	})
	set, err := Assemble(res, Options{Problem: &p})
	require.NoError(t, err)

	assert.Equal(t, types.VartypeBinary, set.Vartype)
	assert.Equal(t, []int{1, 0}, set.Samples[0].Assignment)
}

func TestAssembleWarnsOnEnergyDivergence(t *testing.T) {
	res := &task.Result{
		ProblemType:     types.ProblemIsing,
		Solutions:       [][]int{{1, -1}},
		Values:          []float64{42}, // true energy is -1.5
		VariableCount:   2,
		ActiveVariables: []int{0, 4},
	}

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	p := isingProblem()
	set, err := Assemble(res, Options{Problem: &p, Logger: logger})
	require.NoError(t, err)

	// The reported energy is kept; the divergence is only logged.
	assert.Equal(t, float64(42), set.Samples[0].Energy)
	assert.Contains(t, buf.String(), "diverges")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestAssembleAcceptsEnergyWithinTolerance(t *testing.T) {
	res := &task.Result{
		ProblemType:     types.ProblemIsing,
		Solutions:       [][]int{{1, -1}},
		Values:          []float64{-1.5 + 1e-9},
		VariableCount:   2,
		ActiveVariables: []int{0, 4},
	}

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	p := isingProblem()
	_, err := Assemble(res, Options{Problem: &p, Logger: logger})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestAssembleRecomputesMissingEnergies(t *testing.T) {
	res := &task.Result{
		ProblemType:     types.ProblemIsing,
		Solutions:       [][]int{{1, -1}},
		VariableCount:   2,
		ActiveVariables: []int{0, 4},
	}

	p := isingProblem()
	set, err := Assemble(res, Options{Problem: &p})
	require.NoError(t, err)
	// h = {0:-1, 4:1}, J = {(0,4):-0.5}: -1*1 + 1*(-1) + (-0.5)*1*(-1) = -1.5
	assert.InDelta(t, -1.5, set.Samples[0].Energy, 1e-12)
}

func TestAssembleErrors(t *testing.T) {
	t.Run("solution length mismatch", func(t *testing.T) {
		res := &task.Result{
			ProblemType:     types.ProblemIsing,
			Solutions:       [][]int{{1, -1, 1}},
			Values:          []float64{0},
			ActiveVariables: []int{0, 4},
		}
		_, err := Assemble(res, Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "3 values for 2 variables")
	})

	t.Run("no energy and no problem", func(t *testing.T) {
		res := &task.Result{
			ProblemType:   types.ProblemIsing,
			Solutions:     [][]int{{1, -1}},
			VariableCount: 2,
		}
		_, err := Assemble(res, Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no energy")
	})
}
