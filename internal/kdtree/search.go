package kdtree

import (
	"math"
	"sort"

	"github.com/ayusman/tactus/internal/geom"
)

// query holds the state of a single search.
type query struct {
	q      geom.Point
	skip   int     // point id excluded from the results, or NotFound
	radius float64 // fixed-radius searches only

	best     int
	bestDist float64
	found    []int
}

// NearestNeighbour returns the included point closest to point id, excluding
// id itself. The search starts in the bucket holding id and climbs towards
// the root, descending into sibling subtrees only when their bounding box
// could hold a closer point. Returns NotFound if no other point is included.
func (t *Tree) NearestNeighbour(id int) int {
	if id < 0 || id >= len(t.pts) {
		return NotFound
	}

	s := &query{q: t.pts[id], skip: id, best: NotFound, bestDist: math.Inf(1)}
	t.bottomUp(t.leaf[id], s, t.nearest, func() float64 { return s.bestDist })
	return s.best
}

// FixedRadiusNearestNeighbour returns all included points within radius of
// point id, excluding id itself, ordered by distance.
func (t *Tree) FixedRadiusNearestNeighbour(id int, radius float64) []int {
	if id < 0 || id >= len(t.pts) || radius < 0 {
		return nil
	}

	s := &query{q: t.pts[id], skip: id, radius: radius}
	t.bottomUp(t.leaf[id], s, t.fixedRadius, func() float64 { return s.radius })
	return t.sortByDistance(s.q, s.found)
}

// Nearest returns the included point closest to p, which need not be part of
// the tree. Returns NotFound if the tree holds no included point.
func (t *Tree) Nearest(p geom.Point) int {
	s := &query{q: p, skip: NotFound, best: NotFound, bestDist: math.Inf(1)}
	if len(t.nodes) > 0 {
		t.nearest(0, s)
	}
	return s.best
}

// WithinRadius returns all included points within radius of p, ordered by
// distance.
func (t *Tree) WithinRadius(p geom.Point, radius float64) []int {
	if radius < 0 {
		return nil
	}

	s := &query{q: p, skip: NotFound, radius: radius}
	if len(t.nodes) > 0 {
		t.fixedRadius(0, s)
	}
	return t.sortByDistance(p, s.found)
}

// bottomUp scans the bucket b, then walks up the ancestors and searches each
// sibling subtree with descend. Every boundsLevel steps the walk stops early
// when the ball of radius ball() around the query point lies inside the
// bounds of the subtree searched so far.
func (t *Tree) bottomUp(b int, s *query, descend func(int, *query), ball func() float64) {
	descend(b, s)

	level := 0
	for child, p := b, t.nodes[b].parent; p != NotFound; child, p = p, t.nodes[p].parent {
		sibling := t.nodes[p].left
		if sibling == child {
			sibling = t.nodes[p].right
		}
		descend(sibling, s)

		level++
		if t.boundsLevel > 0 && level%t.boundsLevel == 0 && t.ballWithinBounds(p, s.q, ball()) {
			return
		}
	}
}

// nearest searches the subtree rooted at k for a point closer than s.bestDist.
func (t *Tree) nearest(k int, s *query) {
	n := &t.nodes[k]
	if n.empty || t.boxDist(k, s.q) >= s.bestDist {
		return
	}

	if n.bucket {
		for _, id := range t.perm[n.lo:n.active] {
			if id == s.skip {
				continue
			}
			if d := s.q.Dist(t.pts[id]); d < s.bestDist {
				s.best = id
				s.bestDist = d
			}
		}
		return
	}

	near, far := n.left, n.right
	if s.q.Coord(n.dim) >= n.cut {
		near, far = far, near
	}
	t.nearest(near, s)
	t.nearest(far, s)
}

// fixedRadius collects the points of the subtree rooted at k that lie within
// s.radius of the query point.
func (t *Tree) fixedRadius(k int, s *query) {
	n := &t.nodes[k]
	if n.empty || t.boxDist(k, s.q) > s.radius {
		return
	}

	if n.bucket {
		for _, id := range t.perm[n.lo:n.active] {
			if id == s.skip {
				continue
			}
			if s.q.Dist(t.pts[id]) <= s.radius {
				s.found = append(s.found, id)
			}
		}
		return
	}

	t.fixedRadius(n.left, s)
	t.fixedRadius(n.right, s)
}

// boxDist returns the distance from q to the bounding box of node k.
func (t *Tree) boxDist(k int, q geom.Point) float64 {
	n := &t.nodes[k]
	var sum float64
	for dim := 0; dim < 2; dim++ {
		c := q.Coord(dim)
		switch {
		case c < n.min[dim]:
			d := n.min[dim] - c
			sum += d * d
		case c > n.max[dim]:
			d := c - n.max[dim]
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}

// ballWithinBounds reports whether the ball of radius r around q lies
// strictly inside the bounding box of node k. Points outside the subtree
// can then not be closer than r.
func (t *Tree) ballWithinBounds(k int, q geom.Point, r float64) bool {
	if math.IsInf(r, 1) {
		return false
	}
	n := &t.nodes[k]
	for dim := 0; dim < 2; dim++ {
		c := q.Coord(dim)
		if c-r <= n.min[dim] || c+r >= n.max[dim] {
			return false
		}
	}
	return true
}

func (t *Tree) sortByDistance(q geom.Point, ids []int) []int {
	sort.Slice(ids, func(i, j int) bool {
		di, dj := q.DistSq(t.pts[ids[i]]), q.DistSq(t.pts[ids[j]])
		if di != dj {
			return di < dj
		}
		return ids[i] < ids[j]
	})
	return ids
}
