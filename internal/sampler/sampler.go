// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sampler exposes remote annealing devices through the structured
// sampler contract: sample a binary quadratic model restricted to the
// device's fixed interaction topology, and introspect the topology and
// the accepted parameters.
//
// Two variants exist. Sampler accepts service-format parameters, which
// are also the wire format, so nothing is translated on submission.
// DWaveSampler accepts D-Wave-format parameters and translates each
// recognized keyword and value to its service equivalent before
// submission, and reports device capabilities in D-Wave form.
package sampler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ocean-bridge/internal/assemble"
	"github.com/pdiddy/ocean-bridge/internal/device"
	"github.com/pdiddy/ocean-bridge/internal/params"
	"github.com/pdiddy/ocean-bridge/internal/task"
	"github.com/pdiddy/ocean-bridge/internal/topology"
	"github.com/pdiddy/ocean-bridge/pkg/types"
)

// Structured is the contract the calling framework drives: sampling
// plus introspection of the fixed hardware topology.
type Structured interface {
	SampleIsing(ctx context.Context, h map[int]float64, j map[types.Edge]float64, p map[string]any) (types.SampleSet, error)
	SampleQubo(ctx context.Context, q map[types.Edge]float64, p map[string]any) (types.SampleSet, error)
	Parameters() []string
	Properties() map[string]any
	Nodelist() []int
	Edgelist() []types.Edge
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithPollConfig sets the polling policy for awaited tasks.
func WithPollConfig(cfg types.PollConfig) Option {
	return func(s *Sampler) { s.poll = cfg }
}

// WithLogger sets the logger for task status transitions and
// result-integrity warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Sampler) { s.logger = logger }
}

// WithEnergyTolerance sets the accepted divergence between reported and
// recomputed sample energies.
func WithEnergyTolerance(tol float64) Option {
	return func(s *Sampler) { s.tolerance = tol }
}

// Sampler is the service-format structured sampler.
type Sampler struct {
	deviceID    string
	destination types.S3Destination

	meta  *device.Metadata
	topo  *topology.Topology
	tasks *task.Client

	poll      types.PollConfig
	tolerance float64
	logger    zerolog.Logger
}

// New resolves the device snapshot through the shared cache and returns
// a sampler bound to that device. The first call per device fetches the
// topology and supported parameters; later calls share the cache entry.
func New(ctx context.Context, deviceID string, destination types.S3Destination, devices *device.Cache, tasks *task.Client, opts ...Option) (*Sampler, error) {
	meta, topo, err := devices.Snapshot(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	s := &Sampler{
		deviceID:    deviceID,
		destination: destination,
		meta:        meta,
		topo:        topo,
		tasks:       tasks,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Nodelist returns the device's active qubits in ascending order.
func (s *Sampler) Nodelist() []int { return s.topo.Nodes() }

// Edgelist returns the device's active couplers in ascending order.
func (s *Sampler) Edgelist() []types.Edge { return s.topo.Edges() }

// Parameters returns the service-format parameter names the device
// supports.
func (s *Sampler) Parameters() []string {
	return append([]string(nil), s.meta.SupportedParameters...)
}

// Properties returns the device properties in service format.
func (s *Sampler) Properties() map[string]any {
	props := make(map[string]any, len(s.meta.Properties))
	for k, v := range s.meta.Properties {
		props[k] = v
	}
	return props
}

// LinearFromList converts positional linear biases to a bias map, the
// list form callers may use when variables are qubit indices. Zero
// biases on qubits absent from the device are dropped; a non-zero bias
// on an absent qubit is kept and fails structure validation later with
// a diagnostic naming the qubit.
func (s *Sampler) LinearFromList(biases []float64) map[int]float64 {
	h := make(map[int]float64)
	for v, bias := range biases {
		if bias != 0 || s.topo.HasNode(v) {
			h[v] = bias
		}
	}
	return h
}

// SampleIsing samples the spin model given by linear biases h and
// quadratic biases j, blocking until the remote task completes.
func (s *Sampler) SampleIsing(ctx context.Context, h map[int]float64, j map[types.Edge]float64, p map[string]any) (types.SampleSet, error) {
	t, problem, err := s.submit(ctx, types.NewIsing(h, j), p)
	if err != nil {
		return types.SampleSet{}, err
	}
	return s.collect(ctx, t, problem, p)
}

// SampleQubo samples the binary model given by QUBO coefficients q,
// blocking until the remote task completes. Diagonal coefficients are
// linear biases.
func (s *Sampler) SampleQubo(ctx context.Context, q map[types.Edge]float64, p map[string]any) (types.SampleSet, error) {
	t, problem, err := s.submit(ctx, types.NewQUBO(q), p)
	if err != nil {
		return types.SampleSet{}, err
	}
	return s.collect(ctx, t, problem, p)
}

// SubmitIsing submits the spin model and returns the task handle without
// waiting. Resume later with SampleSetFromTask.
func (s *Sampler) SubmitIsing(ctx context.Context, h map[int]float64, j map[types.Edge]float64, p map[string]any) (*task.Task, error) {
	t, _, err := s.submit(ctx, types.NewIsing(h, j), p)
	return t, err
}

// SubmitQubo submits the binary model and returns the task handle
// without waiting.
func (s *Sampler) SubmitQubo(ctx context.Context, q map[types.Edge]float64, p map[string]any) (*task.Task, error) {
	t, _, err := s.submit(ctx, types.NewQUBO(q), p)
	return t, err
}

// submit validates the parameters and the problem structure, then
// creates the remote task. Validation happens before any remote call so
// an incompatible problem or unsupported parameter costs nothing remote.
func (s *Sampler) submit(ctx context.Context, problem types.Problem, p map[string]any) (*task.Task, types.Problem, error) {
	serviceParams, shots, err := s.prepareParams(p)
	if err != nil {
		return nil, types.Problem{}, err
	}
	if err := s.topo.Validate(problem); err != nil {
		return nil, types.Problem{}, err
	}

	t, err := s.tasks.Create(ctx, task.CreateRequest{
		DeviceID:         s.deviceID,
		Problem:          problem,
		DeviceParameters: serviceParams,
		Shots:            shots,
		Destination:      s.destination,
	})
	if err != nil {
		return nil, types.Problem{}, err
	}
	return t, problem, nil
}

// prepareParams checks the vocabulary, filters against the device's
// supported parameters, and lifts the shot count out of the device
// parameter map.
func (s *Sampler) prepareParams(p map[string]any) (map[string]any, int, error) {
	serviceParams := make(map[string]any, len(p))
	for k, v := range p {
		serviceParams[k] = v
	}
	if err := params.CheckService(serviceParams); err != nil {
		return nil, 0, err
	}
	if err := params.FilterSupported(serviceParams, s.meta.SupportedParameters); err != nil {
		return nil, 0, err
	}
	shots, _, err := params.ExtractShots(serviceParams)
	if err != nil {
		return nil, 0, err
	}
	return serviceParams, shots, nil
}

func (s *Sampler) collect(ctx context.Context, t *task.Task, problem types.Problem, p map[string]any) (types.SampleSet, error) {
	res, err := t.Await(ctx, s.poll)
	if err != nil {
		return types.SampleSet{}, err
	}
	return assemble.Assemble(res, assemble.Options{
		Problem:         &problem,
		Variables:       problem.Variables(),
		Aggregate:       !rawRequested(p),
		EnergyTolerance: s.tolerance,
		Logger:          s.logger,
	})
}

// SampleSetFromTask awaits an existing task handle and assembles its
// result. Pass the original problem when known so energies can be
// cross-checked; with a nil problem the payload energies are taken
// as-is.
func (s *Sampler) SampleSetFromTask(ctx context.Context, t *task.Task, problem *types.Problem, variables []int) (types.SampleSet, error) {
	res, err := t.Await(ctx, s.poll)
	if err != nil {
		return types.SampleSet{}, err
	}
	return assemble.Assemble(res, assemble.Options{
		Problem:         problem,
		Variables:       variables,
		Aggregate:       true,
		EnergyTolerance: s.tolerance,
		Logger:          s.logger,
	})
}

// rawRequested reports whether the caller explicitly asked for raw
// per-shot records, disabling duplicate aggregation.
func rawRequested(p map[string]any) bool {
	v, ok := p["resultFormat"]
	if !ok {
		return false
	}
	format, ok := v.(string)
	return ok && format == "RAW"
}
