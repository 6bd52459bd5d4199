package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/logosim/descriptor"
	"github.com/viant/logosim/metric"
)

// chain is A-B = 0.9, B-C = 0.9, A-C = 0.3.
func chain(t *testing.T) *metric.Matrix {
	t.Helper()
	m, err := metric.FromValues(metric.KindCosineSimilarity, descriptor.FamilyORB, []string{"A", "B", "C"}, [][]float64{
		{1, 0.9, 0.3},
		{0.9, 1, 0.9},
		{0.3, 0.9, 1},
	})
	require.NoError(t, err)
	return m
}

func members(groups []Group) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = g.Members
	}
	return out
}

func TestGroupBySimilarity_NonTransitiveChain(t *testing.T) {
	m := chain(t)

	// Default policy: transitive closure puts A and C together through B
	// although A-C is below the threshold.
	groups, err := Threshold{Value: DefaultThreshold}.Partition(m)
	require.NoError(t, err)
	assert.Equal(t, []Group{{Label: 0, Members: []string{"A", "B", "C"}}}, groups)

	for _, order := range [][]string{{"A", "B", "C"}, {"C", "A", "B"}, {"B", "C", "A"}} {
		groups, err := GroupBySimilarity(m, order, DefaultThreshold, PolicyConnected)
		require.NoError(t, err)
		require.Len(t, groups, 1, "order %v", order)
		assert.ElementsMatch(t, []string{"A", "B", "C"}, groups[0].Members)
	}
}

func TestGroupBySimilarity_ScanPolicy(t *testing.T) {
	m := chain(t)

	testCases := []struct {
		order []string
		want  [][]string
	}{
		// A claims B; C has no unvisited similar logo left.
		{order: []string{"A", "B", "C"}, want: [][]string{{"A", "B"}, {"C"}}},
		// B is scanned first and claims both neighbors.
		{order: []string{"B", "A", "C"}, want: [][]string{{"B", "A", "C"}}},
		{order: []string{"C", "A", "B"}, want: [][]string{{"C", "B"}, {"A"}}},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprint(tc.order), func(t *testing.T) {
			groups, err := GroupBySimilarity(m, tc.order, DefaultThreshold, PolicyScan)
			require.NoError(t, err)
			assert.Equal(t, tc.want, members(groups))
			for i, g := range groups {
				assert.Equal(t, i, g.Label)
				assert.False(t, g.Noise)
			}
		})
	}
}

func TestGroupBySimilarity_StrictThreshold(t *testing.T) {
	m, err := metric.FromValues(metric.KindEuclideanSimilarity, descriptor.FamilyHu, []string{"x", "y", "z"}, [][]float64{
		{1, 0.8, 0.1},
		{0.8, 1, 0.1},
		{0.1, 0.1, 1},
	})
	require.NoError(t, err)

	for _, policy := range []Policy{PolicyConnected, PolicyScan} {
		groups, err := GroupBySimilarity(m, nil, 0.8, policy)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"x"}, {"y"}, {"z"}}, members(groups), policy)

		groups, err = GroupBySimilarity(m, nil, 0.79, policy)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"x", "y"}, {"z"}}, members(groups), policy)
	}
}

func randomSimilarity(t *testing.T, n int, seed int64) *metric.Matrix {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	ids := make([]string, n)
	values := make([][]float64, n)
	for i := range values {
		ids[i] = fmt.Sprintf("logo%02d", i)
		values[i] = make([]float64, n)
		values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := math.Pow(rng.Float64(), 4)
			values[i][j], values[j][i] = v, v
		}
	}
	m, err := metric.FromValues(metric.KindCosineSimilarity, descriptor.FamilySIFT, ids, values)
	require.NoError(t, err)
	return m
}

func TestGroupBySimilarity_Completeness(t *testing.T) {
	m := randomSimilarity(t, 40, 3)
	for _, policy := range []Policy{PolicyConnected, PolicyScan} {
		for _, threshold := range []float64{0, 0.3, 0.6, 0.9, 1} {
			groups, err := GroupBySimilarity(m, nil, threshold, policy)
			require.NoError(t, err)
			seen := make(map[string]int)
			for _, g := range groups {
				require.NotEmpty(t, g.Members)
				for _, id := range g.Members {
					seen[id]++
				}
			}
			require.Len(t, seen, m.Len(), "policy=%s threshold=%v", policy, threshold)
			for id, count := range seen {
				assert.Equal(t, 1, count, "id %s policy=%s threshold=%v", id, policy, threshold)
			}
		}
	}
}

func TestGroupBySimilarity_ThresholdMonotonicity(t *testing.T) {
	m := randomSimilarity(t, 30, 11)
	groupOf := func(groups []Group) map[string]int {
		out := make(map[string]int)
		for _, g := range groups {
			for _, id := range g.Members {
				out[id] = g.Label
			}
		}
		return out
	}

	previous, err := GroupBySimilarity(m, nil, 0.2, PolicyConnected)
	require.NoError(t, err)
	for _, threshold := range []float64{0.4, 0.6, 0.8, 0.95} {
		current, err := GroupBySimilarity(m, nil, threshold, PolicyConnected)
		require.NoError(t, err)
		before, after := groupOf(previous), groupOf(current)
		ids := m.IDs()
		for _, a := range ids {
			for _, b := range ids {
				if after[a] == after[b] {
					assert.Equal(t, before[a], before[b], "%s and %s merged when raising threshold to %v", a, b, threshold)
				}
			}
		}
		assert.GreaterOrEqual(t, len(current), len(previous))
		previous = current
	}
}

func TestGroupBySimilarity_Errors(t *testing.T) {
	m := chain(t)

	_, err := GroupBySimilarity(m, []string{"A", "B"}, 0.8, PolicyConnected)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = GroupBySimilarity(m, []string{"A", "B", "B"}, 0.8, PolicyConnected)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = GroupBySimilarity(m, []string{"A", "B", "D"}, 0.8, PolicyConnected)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = GroupBySimilarity(m, nil, math.NaN(), PolicyConnected)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = GroupBySimilarity(m, nil, 0.8, Policy("greedy"))
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = GroupBySimilarity(nil, nil, 0.8, PolicyConnected)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	dist, err := m.AsDistance()
	require.NoError(t, err)
	_, err = GroupBySimilarity(dist, nil, 0.8, PolicyConnected)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestGroupBySimilarity_Empty(t *testing.T) {
	m, err := metric.FromValues(metric.KindCosineSimilarity, descriptor.FamilyORB, nil, nil)
	require.NoError(t, err)
	for _, policy := range []Policy{PolicyConnected, PolicyScan} {
		groups, err := GroupBySimilarity(m, nil, 0.8, policy)
		require.NoError(t, err)
		assert.Empty(t, groups)
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyConnected, p)
	p, err = ParsePolicy(" SCAN ")
	require.NoError(t, err)
	assert.Equal(t, PolicyScan, p)
}
