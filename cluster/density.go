package cluster

import (
	"fmt"
	"math"

	"github.com/viant/logosim/metric"
)

// Density clusters logos with DBSCAN over a distance matrix. Similarity
// matrices of a normalized kind are converted with metric.Matrix.AsDistance.
type Density struct {
	// Eps is the neighborhood radius. It has no universal default: it
	// depends on the descriptor family and metric.
	Eps float64
	// MinSamples is the neighborhood size, the point itself included,
	// required for a core point.
	MinSamples int
}

// Partition runs DBSCAN and groups the rows by label.
func (d Density) Partition(m *metric.Matrix) ([]Group, error) {
	labels, err := DBSCAN(m, d.Eps, d.MinSamples)
	if err != nil {
		return nil, err
	}
	return fromLabels(m, labels), nil
}

// DBSCAN returns one label per matrix row. A row is a core point when at
// least minSamples rows, itself included, lie within distance eps. Core
// points that are neighbors share a cluster; a non-core row within eps of
// some core point joins the cluster of the nearest one (lowest row on ties);
// every other row is Noise.
//
// Membership does not depend on expansion order. Clusters are numbered from 0
// in order of their lowest row. With eps == 0 a neighborhood holds only the
// row itself.
func DBSCAN(m *metric.Matrix, eps float64, minSamples int) ([]int, error) {
	if minSamples <= 0 {
		return nil, fmt.Errorf("cluster: minSamples must be positive, got %d: %w", minSamples, ErrInvalidParameter)
	}
	if eps < 0 || math.IsNaN(eps) {
		return nil, fmt.Errorf("cluster: eps must be non-negative, got %v: %w", eps, ErrInvalidParameter)
	}
	if m == nil {
		return nil, fmt.Errorf("cluster: nil matrix: %w", ErrInvalidParameter)
	}
	d, err := m.AsDistance()
	if err != nil {
		return nil, fmt.Errorf("cluster: density clustering needs distances: %w: %w", ErrInvalidParameter, err)
	}
	n := d.Len()
	labels := make([]int, n)
	if n == 0 {
		return labels, nil
	}

	neighbors := make([][]int, n)
	core := make([]bool, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j == i || (eps > 0 && d.At(i, j) <= eps) {
				neighbors[i] = append(neighbors[i], j)
			}
		}
		core[i] = len(neighbors[i]) >= minSamples
	}

	for i := range labels {
		labels[i] = Noise
	}
	next := 0
	for i := 0; i < n; i++ {
		if !core[i] || labels[i] != Noise {
			continue
		}
		labels[i] = next
		seed := []int{i}
		for len(seed) > 0 {
			p := seed[0]
			seed = seed[1:]
			for _, q := range neighbors[p] {
				if core[q] && labels[q] == Noise {
					labels[q] = next
					seed = append(seed, q)
				}
			}
		}
		next++
	}

	for i := 0; i < n; i++ {
		if core[i] {
			continue
		}
		best, bestDist := -1, 0.0
		for _, q := range neighbors[i] {
			if !core[q] {
				continue
			}
			if dist := d.At(i, q); best == -1 || dist < bestDist {
				best, bestDist = q, dist
			}
		}
		if best >= 0 {
			labels[i] = labels[best]
		}
	}
	return renumber(labels), nil
}

// renumber relabels clusters 0.. in order of first appearance.
func renumber(labels []int) []int {
	mapping := make(map[int]int)
	for i, label := range labels {
		if label == Noise {
			continue
		}
		to, ok := mapping[label]
		if !ok {
			to = len(mapping)
			mapping[label] = to
		}
		labels[i] = to
	}
	return labels
}
