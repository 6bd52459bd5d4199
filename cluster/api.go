package cluster

import (
	"errors"
	"sort"

	"github.com/viant/logosim/metric"
)

// ErrInvalidParameter reports clustering parameters outside their domain.
var ErrInvalidParameter = errors.New("invalid parameter")

// Noise is the label of logos that belong to no dense cluster.
const Noise = -1

// Group is one bucket of a partition. Members are logo ids. The noise bucket
// has Label == Noise and Noise set.
type Group struct {
	Label   int
	Noise   bool
	Members []string
}

// Partitioner splits the rows of a matrix into groups. Every id of the
// matrix appears in exactly one returned group; an empty matrix yields no
// groups. Group order is stable for a fixed input.
type Partitioner interface {
	Partition(m *metric.Matrix) ([]Group, error)
}

// fromLabels turns per-row labels into groups ordered by label, with the
// noise bucket last. Members keep row order.
func fromLabels(m *metric.Matrix, labels []int) []Group {
	byLabel := make(map[int]*Group)
	for i, label := range labels {
		g, ok := byLabel[label]
		if !ok {
			g = &Group{Label: label, Noise: label == Noise}
			byLabel[label] = g
		}
		g.Members = append(g.Members, m.ID(i))
	}
	out := make([]Group, 0, len(byLabel))
	for _, g := range byLabel {
		out = append(out, *g)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Noise != out[b].Noise {
			return !out[a].Noise
		}
		return out[a].Label < out[b].Label
	})
	return out
}
