// Package kdtree implements a semi-dynamic k-d tree over 2D points.
//
// The tree is built once from a point set and then supports nearest-neighbour
// and fixed-radius queries. Points can be removed and reinserted with Delete
// and Undelete without rebuilding: each bucket keeps its active points at the
// front of its range and an empty flag is propagated through the ancestors so
// traversals skip subtrees that hold no active point.
package kdtree

import (
	"math"
	"sort"

	"github.com/ayusman/tactus/internal/geom"
)

// NotFound is returned by nearest-neighbour queries that have no answer.
const NotFound = -1

// Source provides data for a Tree.
type Source interface {
	// Len reports the number of elements
	Len() int

	// At reports the position of ith element
	At(i int) geom.Point
}

// Points adapts a slice of points to Source.
type Points []geom.Point

func (s Points) Len() int            { return len(s) }
func (s Points) At(i int) geom.Point { return s[i] }

// node is stored in the tree's arena and refers to other nodes by index.
type node struct {
	lo, hi int // range of the node within Tree.perm
	active int // buckets only: perm[lo:active] holds the included points

	dim    int
	cut    float64
	left   int
	right  int
	parent int

	bucket bool
	empty  bool

	min, max [2]float64 // bounding box of all points below the node
}

// Tree is a k-d tree over the points of a Source.
type Tree struct {
	pts   []geom.Point
	perm  []int // point ids, grouped by bucket
	pos   []int // pos[id] is the index of id within perm
	leaf  []int // leaf[id] is the bucket holding id
	nodes []node

	cutoff      int // maximum bucket size
	boundsLevel int // ancestor steps between ball-within-bounds checks
	active      int
}

// New builds a Tree from src using opt.
func New(src Source, opt ...Option) *Tree {
	n := src.Len()
	t := &Tree{
		pts:         make([]geom.Point, n),
		perm:        make([]int, n),
		pos:         make([]int, n),
		leaf:        make([]int, n),
		cutoff:      6,
		boundsLevel: 3,
		active:      n,
	}
	for i := 0; i < n; i++ {
		t.pts[i] = src.At(i)
		t.perm[i] = i
	}

	for _, o := range opt {
		o.set(t)
	}
	if t.cutoff < 1 {
		t.cutoff = 1
	}

	t.nodes = make([]node, 0, 2*(n/t.cutoff+1))
	t.build(0, n, NotFound)
	for i, id := range t.perm {
		t.pos[id] = i
	}

	return t
}

// build creates the subtree for perm[lo:hi] and returns its node index.
func (t *Tree) build(lo, hi, parent int) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{
		lo:     lo,
		hi:     hi,
		active: hi,
		left:   NotFound,
		right:  NotFound,
		parent: parent,
	})

	min, max := t.bounds(lo, hi)
	t.nodes[idx].min = min
	t.nodes[idx].max = max

	if hi-lo <= t.cutoff {
		t.nodes[idx].bucket = true
		t.nodes[idx].empty = hi == lo
		for _, id := range t.perm[lo:hi] {
			t.leaf[id] = idx
		}
		return idx
	}

	// Split along the dimension of maximum spread at the median.
	dim := 0
	if max[1]-min[1] > max[0]-min[0] {
		dim = 1
	}
	ids := t.perm[lo:hi]
	sort.Slice(ids, func(i, j int) bool {
		return t.pts[ids[i]].Coord(dim) < t.pts[ids[j]].Coord(dim)
	})
	m := (lo + hi) / 2

	t.nodes[idx].dim = dim
	t.nodes[idx].cut = t.pts[t.perm[m]].Coord(dim)

	left := t.build(lo, m, idx)
	right := t.build(m, hi, idx)
	t.nodes[idx].left = left
	t.nodes[idx].right = right

	return idx
}

func (t *Tree) bounds(lo, hi int) (min, max [2]float64) {
	min = [2]float64{math.Inf(1), math.Inf(1)}
	max = [2]float64{math.Inf(-1), math.Inf(-1)}
	for _, id := range t.perm[lo:hi] {
		p := t.pts[id]
		min[0] = math.Min(min[0], p.X)
		min[1] = math.Min(min[1], p.Y)
		max[0] = math.Max(max[0], p.X)
		max[1] = math.Max(max[1], p.Y)
	}
	return min, max
}

// Len reports the number of points the tree was built from.
func (t *Tree) Len() int {
	return len(t.pts)
}

// Active reports the number of points that are currently included.
func (t *Tree) Active() int {
	return t.active
}

// Point returns the position of point id.
func (t *Tree) Point(id int) geom.Point {
	return t.pts[id]
}

// Included reports whether point id is present and not deleted.
func (t *Tree) Included(id int) bool {
	if id < 0 || id >= len(t.pts) {
		return false
	}
	return t.pos[id] < t.nodes[t.leaf[id]].active
}

// IncludedPoints returns the ids of all included points in ascending order.
func (t *Tree) IncludedPoints() []int {
	ids := make([]int, 0, t.active)
	for id := range t.pts {
		if t.Included(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Delete removes point id from query results.
// Deleting an unknown or already deleted point is a no-op.
func (t *Tree) Delete(id int) {
	if !t.Included(id) {
		return
	}

	b := t.leaf[id]
	n := &t.nodes[b]
	last := n.active - 1
	t.swap(t.pos[id], last)
	n.active--
	t.active--

	if n.active > n.lo {
		return
	}

	n.empty = true
	for p := n.parent; p != NotFound; p = t.nodes[p].parent {
		if !t.nodes[t.nodes[p].left].empty || !t.nodes[t.nodes[p].right].empty {
			break
		}
		t.nodes[p].empty = true
	}
}

// Undelete reinserts a previously deleted point.
// Undeleting an unknown or included point is a no-op.
func (t *Tree) Undelete(id int) {
	if id < 0 || id >= len(t.pts) || t.Included(id) {
		return
	}

	b := t.leaf[id]
	n := &t.nodes[b]
	t.swap(t.pos[id], n.active)
	n.active++
	t.active++

	for k := b; k != NotFound && t.nodes[k].empty; k = t.nodes[k].parent {
		t.nodes[k].empty = false
	}
}

func (t *Tree) swap(i, j int) {
	a, b := t.perm[i], t.perm[j]
	t.perm[i], t.perm[j] = b, a
	t.pos[a], t.pos[b] = j, i
}

// Option configures a Tree.
type Option interface {
	set(t *Tree)
}

// Cutoff sets the maximum number of points kept in a bucket.
func Cutoff(n int) Option { return cutoff(n) }

type cutoff int

func (o cutoff) set(t *Tree) {
	t.cutoff = int(o)
}

// BoundsLevel sets how many ancestors a bottom-up search climbs between
// checks whether the search ball already lies inside the current subtree.
// A value of 0 disables the early exit.
func BoundsLevel(n int) Option { return boundsLevel(n) }

type boundsLevel int

func (o boundsLevel) set(t *Tree) {
	t.boundsLevel = int(o)
}
