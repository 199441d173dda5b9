package kdtree

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/tactus/internal/geom"
)

func randomPoints(rng *rand.Rand, n int, size float64) Points {
	pts := make(Points, n)
	for i := range pts {
		pts[i] = geom.Pt(rng.Float64()*size, rng.Float64()*size)
	}
	return pts
}

// bruteNearest returns the distance to the nearest included point other than skip.
func bruteNearest(t *Tree, q geom.Point, skip int) float64 {
	best := math.Inf(1)
	for id := 0; id < t.Len(); id++ {
		if id == skip || !t.Included(id) {
			continue
		}
		best = math.Min(best, q.Dist(t.Point(id)))
	}
	return best
}

func bruteRadius(t *Tree, q geom.Point, r float64, skip int) []int {
	var ids []int
	for id := 0; id < t.Len(); id++ {
		if id == skip || !t.Included(id) {
			continue
		}
		if q.Dist(t.Point(id)) <= r {
			ids = append(ids, id)
		}
	}
	return ids
}

func sorted(ids []int) []int {
	out := append([]int(nil), ids...)
	sort.Ints(out)
	return out
}

func TestTree_EmptyQueries(t *testing.T) {
	tree := New(Points{})

	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, NotFound, tree.Nearest(geom.Pt(1, 1)))
	assert.Empty(t, tree.WithinRadius(geom.Pt(1, 1), 100))
	assert.Equal(t, NotFound, tree.NearestNeighbour(0))
	assert.Nil(t, tree.FixedRadiusNearestNeighbour(3, 10))
	assert.Empty(t, tree.IncludedPoints())
}

func TestTree_SinglePoint(t *testing.T) {
	tree := New(Points{geom.Pt(2, 3)})

	assert.Equal(t, NotFound, tree.NearestNeighbour(0), "a point is not its own neighbour")
	assert.Equal(t, 0, tree.Nearest(geom.Pt(10, 10)))
	assert.Empty(t, tree.FixedRadiusNearestNeighbour(0, 100))
}

func TestTree_NearestNeighbourMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for n := 2; n <= 200; n += 7 {
		pts := randomPoints(rng, n, 100)
		tree := New(pts)

		for id := range pts {
			got := tree.NearestNeighbour(id)
			require.NotEqual(t, NotFound, got, "n=%d id=%d", n, id)
			assert.NotEqual(t, id, got)
			assert.InDelta(t, bruteNearest(tree, pts[id], id), pts[id].Dist(pts[got]), 1e-12, "n=%d id=%d", n, id)
		}
	}
}

func TestTree_NearestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pts := randomPoints(rng, 150, 50)
	tree := New(pts, Cutoff(4), BoundsLevel(1))

	for i := 0; i < 200; i++ {
		q := geom.Pt(rng.Float64()*60-5, rng.Float64()*60-5)
		got := tree.Nearest(q)
		require.NotEqual(t, NotFound, got)
		assert.InDelta(t, bruteNearest(tree, q, NotFound), q.Dist(pts[got]), 1e-12)
	}
}

func TestTree_FixedRadiusMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, n := range []int{1, 5, 6, 7, 40, 200} {
		pts := randomPoints(rng, n, 100)
		tree := New(pts)

		for id := range pts {
			for _, r := range []float64{0, 5, 20, 150} {
				got := tree.FixedRadiusNearestNeighbour(id, r)
				assert.Equal(t, sorted(bruteRadius(tree, pts[id], r, id)), sorted(got), "n=%d id=%d r=%v", n, id, r)
			}
		}

		q := geom.Pt(50, 50)
		assert.Equal(t, sorted(bruteRadius(tree, q, 25, NotFound)), sorted(tree.WithinRadius(q, 25)))
	}
}

func TestTree_WithinRadiusOrderedByDistance(t *testing.T) {
	tree := New(Points{geom.Pt(10, 0), geom.Pt(1, 0), geom.Pt(5, 0), geom.Pt(30, 0)})

	assert.Equal(t, []int{1, 2, 0}, tree.WithinRadius(geom.Pt(0, 0), 12))
}

func TestTree_DeleteUndelete(t *testing.T) {
	pts := Points{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(5, 0), geom.Pt(9, 9)}
	tree := New(pts, Cutoff(1))

	require.Equal(t, 1, tree.NearestNeighbour(0))

	tree.Delete(1)
	assert.False(t, tree.Included(1))
	assert.Equal(t, 3, tree.Active())
	assert.Equal(t, 2, tree.NearestNeighbour(0))
	assert.Equal(t, []int{0, 2, 3}, tree.IncludedPoints())

	// Deleting twice is a no-op.
	tree.Delete(1)
	assert.Equal(t, 3, tree.Active())

	tree.Delete(2)
	tree.Delete(3)
	assert.Equal(t, NotFound, tree.NearestNeighbour(0))
	assert.Equal(t, 0, tree.Nearest(geom.Pt(100, 100)))

	tree.Delete(0)
	assert.Equal(t, NotFound, tree.Nearest(geom.Pt(0, 0)))
	assert.Empty(t, tree.WithinRadius(geom.Pt(0, 0), 1000))

	tree.Undelete(3)
	assert.Equal(t, 3, tree.Nearest(geom.Pt(0, 0)))
	assert.Equal(t, 3, tree.NearestNeighbour(0))

	tree.Undelete(1)
	tree.Undelete(1)
	assert.Equal(t, 2, tree.Active())
	assert.Equal(t, 1, tree.NearestNeighbour(0))
}

func TestTree_RandomDeletesMatchBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	pts := randomPoints(rng, 120, 80)
	tree := New(pts)

	for round := 0; round < 300; round++ {
		id := rng.Intn(len(pts))
		if rng.Intn(2) == 0 {
			tree.Delete(id)
		} else {
			tree.Undelete(id)
		}

		q := rng.Intn(len(pts))
		got := tree.NearestNeighbour(q)
		want := bruteNearest(tree, pts[q], q)
		if math.IsInf(want, 1) {
			assert.Equal(t, NotFound, got)
			continue
		}
		require.NotEqual(t, NotFound, got, "round %d", round)
		assert.True(t, tree.Included(got), "deleted point %d returned", got)
		assert.InDelta(t, want, pts[q].Dist(pts[got]), 1e-12, "round %d", round)
	}
}

func TestTree_DuplicatePoints(t *testing.T) {
	pts := make(Points, 20)
	for i := range pts {
		pts[i] = geom.Pt(3, 3)
	}
	tree := New(pts)

	got := tree.NearestNeighbour(5)
	require.NotEqual(t, NotFound, got)
	assert.NotEqual(t, 5, got)
	assert.Len(t, tree.FixedRadiusNearestNeighbour(5, 0), 19)
}
