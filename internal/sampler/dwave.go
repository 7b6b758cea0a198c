// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sampler

import (
	"context"

	"github.com/pdiddy/ocean-bridge/internal/device"
	"github.com/pdiddy/ocean-bridge/internal/params"
	"github.com/pdiddy/ocean-bridge/internal/task"
	"github.com/pdiddy/ocean-bridge/pkg/types"
)

var (
	_ Structured = (*Sampler)(nil)
	_ Structured = (*DWaveSampler)(nil)
)

// DWaveSampler is the D-Wave-format structured sampler. It accepts
// D-Wave keyword parameters (answer_mode, num_reads, postprocess, ...),
// translates them to the service vocabulary before submission, and
// reports parameters and properties under their D-Wave names.
type DWaveSampler struct {
	base *Sampler
}

// NewDWave resolves the device snapshot and returns a D-Wave-format
// sampler bound to it.
func NewDWave(ctx context.Context, deviceID string, destination types.S3Destination, devices *device.Cache, tasks *task.Client, opts ...Option) (*DWaveSampler, error) {
	base, err := New(ctx, deviceID, destination, devices, tasks, opts...)
	if err != nil {
		return nil, err
	}
	return &DWaveSampler{base: base}, nil
}

// Nodelist returns the device's active qubits in ascending order.
func (s *DWaveSampler) Nodelist() []int { return s.base.Nodelist() }

// Edgelist returns the device's active couplers in ascending order.
func (s *DWaveSampler) Edgelist() []types.Edge { return s.base.Edgelist() }

// Parameters returns the supported parameter names in D-Wave form.
func (s *DWaveSampler) Parameters() []string {
	supported := s.base.Parameters()
	names := make([]string, len(supported))
	for i, name := range supported {
		names[i] = params.DWaveName(name)
	}
	return names
}

// Properties returns the device properties with field names translated
// to their D-Wave spellings.
func (s *DWaveSampler) Properties() map[string]any {
	return params.PropertiesToDWave(s.base.Properties())
}

// LinearFromList converts positional linear biases to a bias map.
func (s *DWaveSampler) LinearFromList(biases []float64) map[int]float64 {
	return s.base.LinearFromList(biases)
}

// SampleIsing samples the spin model with D-Wave-format parameters.
func (s *DWaveSampler) SampleIsing(ctx context.Context, h map[int]float64, j map[types.Edge]float64, p map[string]any) (types.SampleSet, error) {
	translated, err := params.ToService(p)
	if err != nil {
		return types.SampleSet{}, err
	}
	return s.base.SampleIsing(ctx, h, j, translated)
}

// SampleQubo samples the binary model with D-Wave-format parameters.
func (s *DWaveSampler) SampleQubo(ctx context.Context, q map[types.Edge]float64, p map[string]any) (types.SampleSet, error) {
	translated, err := params.ToService(p)
	if err != nil {
		return types.SampleSet{}, err
	}
	return s.base.SampleQubo(ctx, q, translated)
}

// SubmitIsing submits the spin model without waiting.
func (s *DWaveSampler) SubmitIsing(ctx context.Context, h map[int]float64, j map[types.Edge]float64, p map[string]any) (*task.Task, error) {
	translated, err := params.ToService(p)
	if err != nil {
		return nil, err
	}
	return s.base.SubmitIsing(ctx, h, j, translated)
}

// SubmitQubo submits the binary model without waiting.
func (s *DWaveSampler) SubmitQubo(ctx context.Context, q map[types.Edge]float64, p map[string]any) (*task.Task, error) {
	translated, err := params.ToService(p)
	if err != nil {
		return nil, err
	}
	return s.base.SubmitQubo(ctx, q, translated)
}

// SampleSetFromTask awaits an existing task handle and assembles its
// result.
func (s *DWaveSampler) SampleSetFromTask(ctx context.Context, t *task.Task, problem *types.Problem, variables []int) (types.SampleSet, error) {
	return s.base.SampleSetFromTask(ctx, t, problem, variables)
}
