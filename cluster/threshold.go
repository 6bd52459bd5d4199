package cluster

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/viant/logosim/metric"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// DefaultThreshold is the similarity above which two logos are similar.
const DefaultThreshold = 0.8

// Policy selects how thresholded pairs are turned into groups.
type Policy string

const (
	// PolicyConnected groups logos by the transitive closure of the similar
	// relation. The result does not depend on scan order.
	PolicyConnected Policy = "connected"
	// PolicyScan opens a group for each unvisited logo in scan order and adds
	// the still-unvisited logos directly similar to it. It is an order
	// dependent approximation: members of one group need not be linked, and
	// linked logos may be split across groups.
	PolicyScan Policy = "scan"
)

// ParsePolicy resolves a policy name; an empty name means PolicyConnected.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicyConnected:
		return PolicyConnected, nil
	case PolicyScan:
		return PolicyScan, nil
	}
	return "", fmt.Errorf("cluster: unknown policy %q: %w", name, ErrInvalidParameter)
}

// Threshold groups logos whose similarity exceeds Value.
type Threshold struct {
	Value  float64
	Policy Policy
	// Order is the scan order; nil means matrix row order.
	Order []string
}

// Partition groups the matrix rows.
func (t Threshold) Partition(m *metric.Matrix) ([]Group, error) {
	return GroupBySimilarity(m, t.Order, t.Value, t.Policy)
}

// GroupBySimilarity records j as similar to i when m[i][j] > threshold
// (i != j) and groups the ids by policy. ids sets the scan order and must be
// a permutation of the matrix ids; nil means matrix row order. Groups are
// labelled 0.. in output order; members follow scan order, except that under
// PolicyScan the anchor comes first.
func GroupBySimilarity(m *metric.Matrix, ids []string, threshold float64, policy Policy) ([]Group, error) {
	if m == nil {
		return nil, fmt.Errorf("cluster: nil matrix: %w", ErrInvalidParameter)
	}
	if m.IsDistance() {
		return nil, fmt.Errorf("cluster: threshold grouping needs similarities, got %s distances: %w", m.Kind(), ErrInvalidParameter)
	}
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("cluster: threshold must be finite, got %v: %w", threshold, ErrInvalidParameter)
	}
	policy, err := ParsePolicy(string(policy))
	if err != nil {
		return nil, err
	}
	order, err := scanOrder(m, ids)
	if err != nil {
		return nil, err
	}
	similar := func(i, j int) bool { return i != j && m.At(i, j) > threshold }

	var rows [][]int
	switch policy {
	case PolicyScan:
		rows = scanGroups(order, similar)
	default:
		rows = connectedGroups(m.Len(), order, similar)
	}
	out := make([]Group, len(rows))
	for label, members := range rows {
		g := Group{Label: label, Members: make([]string, len(members))}
		for k, row := range members {
			g.Members[k] = m.ID(row)
		}
		out[label] = g
	}
	return out, nil
}

// scanOrder resolves ids to matrix rows.
func scanOrder(m *metric.Matrix, ids []string) ([]int, error) {
	n := m.Len()
	if ids == nil {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		return order, nil
	}
	if len(ids) != n {
		return nil, fmt.Errorf("cluster: scan order has %d ids, matrix has %d: %w", len(ids), n, ErrInvalidParameter)
	}
	seen := make([]bool, n)
	order := make([]int, n)
	for k, id := range ids {
		row, ok := m.Index(id)
		if !ok {
			return nil, fmt.Errorf("cluster: scan order id %q not in matrix: %w", id, ErrInvalidParameter)
		}
		if seen[row] {
			return nil, fmt.Errorf("cluster: scan order repeats id %q: %w", id, ErrInvalidParameter)
		}
		seen[row] = true
		order[k] = row
	}
	return order, nil
}

func scanGroups(order []int, similar func(i, j int) bool) [][]int {
	visited := make(map[int]bool, len(order))
	var groups [][]int
	for _, anchor := range order {
		if visited[anchor] {
			continue
		}
		visited[anchor] = true
		group := []int{anchor}
		for _, row := range order {
			if !visited[row] && similar(anchor, row) {
				visited[row] = true
				group = append(group, row)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func connectedGroups(n int, order []int, similar func(i, j int) bool) [][]int {
	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if similar(i, j) || similar(j, i) {
				g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(j)))
			}
		}
	}
	position := make([]int, n)
	for k, row := range order {
		position[row] = k
	}
	var groups [][]int
	for _, component := range topo.ConnectedComponents(g) {
		rows := make([]int, len(component))
		for k, node := range component {
			rows[k] = int(node.ID())
		}
		sort.Slice(rows, func(a, b int) bool { return position[rows[a]] < position[rows[b]] })
		groups = append(groups, rows)
	}
	sort.Slice(groups, func(a, b int) bool { return position[groups[a][0]] < position[groups[b][0]] })
	return groups
}
