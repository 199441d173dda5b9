package tracker

// NoData marks a cost matrix cell that must never be selected.
const NoData = -1000.0

// Assignment is the result of matching the rows of a cost matrix to its columns.
type Assignment struct {
	Cols    []int   // Cols[row] is the column assigned to row, or -1
	Cost    float64 // sum of the selected cells
	Matched int     // number of rows with a column
}

// Assign matches rows to columns one-to-one by recursive branch-and-bound.
//
// Rows are explored in order; each row tries every unused column whose cost
// is neither negative (NoData) nor above maxDist, and finally the option of
// staying unmatched. A complete mapping replaces the best one seen so far if
// it matches more rows, or the same number of rows at a lower total cost.
// Partial mappings that can no longer beat the best are pruned.
//
// The search is exhaustive over the matrix it is given, so callers bound the
// matrix size; the tracker caps it at the assignment window. Assign does not
// modify cost.
func Assign(cost [][]float64, maxDist float64) Assignment {
	best := Assignment{Cols: unassigned(len(cost))}
	if len(cost) == 0 {
		return best
	}
	return solve(cost, maxDist, step{}, best)
}

// step is the immutable state of one branch of the search.
type step struct {
	row     int
	used    uint64
	cols    []int
	cost    float64
	matched int
}

func solve(cost [][]float64, maxDist float64, s step, best Assignment) Assignment {
	rows := len(cost)
	remaining := rows - s.row

	if s.matched+remaining < best.Matched {
		return best
	}
	if s.matched+remaining == best.Matched && s.cost >= best.Cost && best.Matched > 0 {
		return best
	}

	if s.row == rows {
		if s.matched > best.Matched || (s.matched == best.Matched && s.cost < best.Cost) {
			return Assignment{Cols: s.cols, Cost: s.cost, Matched: s.matched}
		}
		return best
	}

	for col, d := range cost[s.row] {
		if s.used&(1<<uint(col)) != 0 || d < 0 || d > maxDist {
			continue
		}
		best = solve(cost, maxDist, step{
			row:     s.row + 1,
			used:    s.used | 1<<uint(col),
			cols:    append(s.cols[:s.row:s.row], col),
			cost:    s.cost + d,
			matched: s.matched + 1,
		}, best)
	}

	return solve(cost, maxDist, step{
		row:     s.row + 1,
		used:    s.used,
		cols:    append(s.cols[:s.row:s.row], -1),
		cost:    s.cost,
		matched: s.matched,
	}, best)
}

func unassigned(n int) []int {
	cols := make([]int, n)
	for i := range cols {
		cols[i] = -1
	}
	return cols
}
