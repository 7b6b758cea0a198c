// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ocean-bridge/pkg/types"
)

// problemFile is the YAML problem format:
//
//	type: ISING
//	linear:
//	  0: -1.0
//	  1: 1.0
//	quadratic:
//	  - [0, 1, -0.5]
//	offset: 0.0
type problemFile struct {
	Type      string          `yaml:"type"`
	Linear    map[int]float64 `yaml:"linear"`
	Quadratic [][3]float64    `yaml:"quadratic"`
	Offset    float64         `yaml:"offset"`
}

// readProblem loads and validates a problem file.
func readProblem(path string) (types.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Problem{}, fmt.Errorf("reading problem file: %w", err)
	}

	var pf problemFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return types.Problem{}, fmt.Errorf("parsing problem file %s: %w", path, err)
	}

	quadratic := make(map[types.Edge]float64, len(pf.Quadratic))
	for i, term := range pf.Quadratic {
		u, v := int(term[0]), int(term[1])
		if u == v {
			return types.Problem{}, fmt.Errorf("quadratic term %d in %s is diagonal (%d, %d); use linear", i, path, u, v)
		}
		e := types.NewEdge(u, v)
		if _, ok := quadratic[e]; ok {
			return types.Problem{}, fmt.Errorf("duplicate quadratic term %s in %s", e, path)
		}
		quadratic[e] = term[2]
	}

	var problem types.Problem
	switch strings.ToUpper(pf.Type) {
	case string(types.ProblemIsing), "":
		problem = types.NewIsing(pf.Linear, quadratic)
	case string(types.ProblemQUBO):
		q := make(map[types.Edge]float64, len(pf.Linear)+len(quadratic))
		for v, bias := range pf.Linear {
			q[types.Edge{U: v, V: v}] = bias
		}
		for e, bias := range quadratic {
			q[e] = bias
		}
		problem = types.NewQUBO(q)
	default:
		return types.Problem{}, fmt.Errorf("problem file %s: unknown type %q (want ISING or QUBO)", path, pf.Type)
	}
	problem.Offset = pf.Offset
	return problem, nil
}

// parseParams converts repeated key=value flags into a parameter map.
// Values that parse as numbers become numbers; everything else stays a
// string.
func parseParams(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("malformed parameter %q (want key=value)", pair)
		}
		out[key] = coerce(value)
	}
	return out, nil
}

func coerce(value string) any {
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}
