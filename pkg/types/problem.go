// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data model shared across ocean-bridge stages:
// binary quadratic models, sample sets, and configuration.
package types

import (
	"fmt"
	"sort"
)

// ProblemType identifies the variable domain of a problem on the wire.
type ProblemType string

const (
	// ProblemIsing is a spin problem: variables take values in {-1, +1}.
	ProblemIsing ProblemType = "ISING"

	// ProblemQUBO is a binary problem: variables take values in {0, 1}.
	ProblemQUBO ProblemType = "QUBO"
)

// Vartype is the sample-set variable domain matching a ProblemType.
type Vartype string

const (
	VartypeSpin   Vartype = "SPIN"
	VartypeBinary Vartype = "BINARY"
)

// Vartype returns the sample domain corresponding to the problem type.
func (t ProblemType) Vartype() Vartype {
	if t == ProblemQUBO {
		return VartypeBinary
	}
	return VartypeSpin
}

// Edge is an undirected variable pair. Always construct through NewEdge so
// that U < V holds and the same pair compares equal in either orientation.
type Edge struct {
	U, V int
}

// NewEdge returns the normalized undirected edge between u and v.
func NewEdge(u, v int) Edge {
	if u > v {
		u, v = v, u
	}
	return Edge{U: u, V: v}
}

// String formats the edge as "(u, v)".
func (e Edge) String() string {
	return fmt.Sprintf("(%d, %d)", e.U, e.V)
}

// Problem is a binary quadratic model: linear biases per variable,
// quadratic biases per undirected pair, and a constant energy offset.
// Quadratic keys are normalized edges, so duplicate undirected pairs
// cannot occur, and every edge endpoint is implicitly a variable.
type Problem struct {
	Type      ProblemType
	Linear    map[int]float64
	Quadratic map[Edge]float64
	Offset    float64
}

// NewIsing builds a spin problem from linear biases h and quadratic
// biases j. Edge endpoints absent from h are added with zero bias.
func NewIsing(h map[int]float64, j map[Edge]float64) Problem {
	linear := make(map[int]float64, len(h))
	for v, bias := range h {
		linear[v] = bias
	}
	quadratic := make(map[Edge]float64, len(j))
	for e, bias := range j {
		e = NewEdge(e.U, e.V)
		quadratic[e] = bias
		if _, ok := linear[e.U]; !ok {
			linear[e.U] = 0
		}
		if _, ok := linear[e.V]; !ok {
			linear[e.V] = 0
		}
	}
	return Problem{Type: ProblemIsing, Linear: linear, Quadratic: quadratic}
}

// NewQUBO builds a binary problem from QUBO coefficients. Diagonal
// entries (u == v) become linear biases; off-diagonal entries become
// quadratic biases.
func NewQUBO(q map[Edge]float64) Problem {
	linear := make(map[int]float64)
	quadratic := make(map[Edge]float64)
	for e, bias := range q {
		if e.U == e.V {
			linear[e.U] += bias
			continue
		}
		e = NewEdge(e.U, e.V)
		quadratic[e] += bias
		if _, ok := linear[e.U]; !ok {
			linear[e.U] = 0
		}
		if _, ok := linear[e.V]; !ok {
			linear[e.V] = 0
		}
	}
	return Problem{Type: ProblemQUBO, Linear: linear, Quadratic: quadratic}
}

// Variables returns the problem's variables in ascending order.
func (p Problem) Variables() []int {
	vars := make([]int, 0, len(p.Linear))
	for v := range p.Linear {
		vars = append(vars, v)
	}
	sort.Ints(vars)
	return vars
}

// Edges returns the problem's quadratic-term edges in ascending order.
func (p Problem) Edges() []Edge {
	edges := make([]Edge, 0, len(p.Quadratic))
	for e := range p.Quadratic {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}
		return edges[i].V < edges[j].V
	})
	return edges
}

// Energy evaluates the model at the given assignment. Variables missing
// from the assignment contribute as zero, which for spin problems means
// the assignment must cover every variable to be meaningful.
func (p Problem) Energy(assignment map[int]int) float64 {
	energy := p.Offset
	for v, bias := range p.Linear {
		energy += bias * float64(assignment[v])
	}
	for e, bias := range p.Quadratic {
		energy += bias * float64(assignment[e.U]) * float64(assignment[e.V])
	}
	return energy
}
