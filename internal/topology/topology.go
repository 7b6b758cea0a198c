// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topology models a device's qubit/coupler graph and checks that
// a binary quadratic model fits it without modification.
package topology

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/ocean-bridge/pkg/types"
)

// Topology is the finalized node/edge set of one device snapshot.
// Membership checks are hash-based: device graphs carry thousands of
// couplers and rescanning a slice per problem edge is too slow.
// Immutable once built.
type Topology struct {
	nodes map[int]struct{}
	edges map[types.Edge]struct{}

	nodeList []int
	edgeList []types.Edge
}

// New builds a topology from a device's qubit and coupler lists.
// Couplers referencing undeclared qubits are rejected.
func New(qubits []int, couplers [][2]int) (*Topology, error) {
	t := &Topology{
		nodes: make(map[int]struct{}, len(qubits)),
		edges: make(map[types.Edge]struct{}, len(couplers)),
	}
	for _, q := range qubits {
		if _, ok := t.nodes[q]; ok {
			continue
		}
		t.nodes[q] = struct{}{}
		t.nodeList = append(t.nodeList, q)
	}
	for _, c := range couplers {
		e := types.NewEdge(c[0], c[1])
		if _, ok := t.nodes[e.U]; !ok {
			return nil, fmt.Errorf("coupler %s references undeclared qubit %d", e, e.U)
		}
		if _, ok := t.nodes[e.V]; !ok {
			return nil, fmt.Errorf("coupler %s references undeclared qubit %d", e, e.V)
		}
		if _, ok := t.edges[e]; ok {
			continue
		}
		t.edges[e] = struct{}{}
		t.edgeList = append(t.edgeList, e)
	}

	sort.Ints(t.nodeList)
	sort.Slice(t.edgeList, func(i, j int) bool {
		if t.edgeList[i].U != t.edgeList[j].U {
			return t.edgeList[i].U < t.edgeList[j].U
		}
		return t.edgeList[i].V < t.edgeList[j].V
	})
	return t, nil
}

// Nodes returns the active qubits in ascending order.
func (t *Topology) Nodes() []int { return t.nodeList }

// Edges returns the active couplers in ascending order.
func (t *Topology) Edges() []types.Edge { return t.edgeList }

// HasNode reports whether q is an active qubit.
func (t *Topology) HasNode(q int) bool {
	_, ok := t.nodes[q]
	return ok
}

// HasEdge reports whether the coupler between u and v exists, in either
// orientation.
func (t *Topology) HasEdge(u, v int) bool {
	_, ok := t.edges[types.NewEdge(u, v)]
	return ok
}

// Validate checks that the problem maps onto the topology as-is: every
// variable must be an active qubit and every quadratic term an active
// coupler. A problem with no quadratic terms validates against any
// topology containing its variables. On failure it returns a
// *StructureError naming every offending node and edge.
func (t *Topology) Validate(p types.Problem) error {
	var serr StructureError
	for _, v := range p.Variables() {
		if !t.HasNode(v) {
			serr.MissingNodes = append(serr.MissingNodes, v)
		}
	}
	for _, e := range p.Edges() {
		if !t.HasEdge(e.U, e.V) {
			serr.MissingEdges = append(serr.MissingEdges, e)
		}
	}
	if len(serr.MissingNodes) > 0 || len(serr.MissingEdges) > 0 {
		return &serr
	}
	return nil
}

// StructureError reports a problem graph incompatible with the device
// topology. It carries the exact variables and edges the device cannot
// realize, in ascending order. Fatal: the call is never retried.
type StructureError struct {
	MissingNodes []int
	MissingEdges []types.Edge
}

// Error names every offending node and edge.
func (e *StructureError) Error() string {
	var parts []string
	if len(e.MissingNodes) > 0 {
		nodes := make([]string, len(e.MissingNodes))
		for i, n := range e.MissingNodes {
			nodes[i] = fmt.Sprintf("%d", n)
		}
		parts = append(parts, "variables not on device: "+strings.Join(nodes, ", "))
	}
	if len(e.MissingEdges) > 0 {
		edges := make([]string, len(e.MissingEdges))
		for i, edge := range e.MissingEdges {
			edges[i] = edge.String()
		}
		parts = append(parts, "interactions not on device: "+strings.Join(edges, ", "))
	}
	return "problem graph incompatible with device topology: " + strings.Join(parts, "; ")
}
