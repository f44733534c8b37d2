package pathing

import (
	"container/heap"
	"math"

	"tacsim/internal/mapgeo"
)

// neighborOffsets is the 8-connected neighborhood, orthogonals first.
var neighborOffsets = [8][2]int{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

// PathFinder runs A* searches over a NavGrid.
type PathFinder struct {
	grid *NavGrid
}

// NewPathFinder creates a path finder for the given grid.
func NewPathFinder(grid *NavGrid) *PathFinder {
	return &PathFinder{grid: grid}
}

// FindPath returns a waypoint list from start to goal, both inclusive, or
// nil when no path exists. Adjacent waypoints never differ in elevation by
// more than MaxClimbHeight. The final waypoint is snapped to the exact goal.
func (p *PathFinder) FindPath(start, goal mapgeo.Vec3) []mapgeo.Vec3 {
	g := p.grid

	startIdx, ok := g.cellIndex(start.X, start.Y)
	if !ok || !g.walkable[startIdx] {
		return nil
	}
	goalIdx, ok := g.cellIndex(goal.X, goal.Y)
	if !ok || !g.walkable[goalIdx] {
		return nil
	}
	if startIdx == goalIdx {
		return []mapgeo.Vec3{start, goal}
	}

	gCost := make(map[int]float64, 64)
	parent := make(map[int]int, 64)
	closed := make(map[int]bool, 64)

	open := &nodeHeap{}
	heap.Init(open)
	gCost[startIdx] = 0
	heap.Push(open, node{idx: startIdx, f: p.heuristic(startIdx, goalIdx)})

	for open.Len() > 0 {
		cur := heap.Pop(open).(node)
		if closed[cur.idx] {
			continue
		}
		closed[cur.idx] = true

		if cur.idx == goalIdx {
			return p.reconstruct(parent, cur.idx, start, goal)
		}

		col := cur.idx % g.cols
		row := cur.idx / g.cols
		curElev := g.elevation[cur.idx]

		for _, off := range neighborOffsets {
			nc, nr := col+off[0], row+off[1]
			if nc < 0 || nc >= g.cols || nr < 0 || nr >= g.rows {
				continue
			}
			nIdx := nr*g.cols + nc
			if closed[nIdx] || !g.walkable[nIdx] {
				continue
			}
			if math.Abs(g.elevation[nIdx]-curElev) > MaxClimbHeight {
				continue
			}

			step := g.cellSize
			if off[0] != 0 && off[1] != 0 {
				step = g.cellSize * math.Sqrt2
			}
			tentative := gCost[cur.idx] + step

			if prev, seen := gCost[nIdx]; !seen || tentative < prev {
				gCost[nIdx] = tentative
				parent[nIdx] = cur.idx
				heap.Push(open, node{idx: nIdx, f: tentative + p.heuristic(nIdx, goalIdx)})
			}
		}
	}

	return nil
}

func (p *PathFinder) heuristic(a, b int) float64 {
	g := p.grid
	ax, ay := a%g.cols, a/g.cols
	bx, by := b%g.cols, b/g.cols
	return math.Hypot(float64(bx-ax), float64(by-ay)) * g.cellSize
}

func (p *PathFinder) reconstruct(parent map[int]int, idx int, start, goal mapgeo.Vec3) []mapgeo.Vec3 {
	g := p.grid

	var rev []int
	for {
		rev = append(rev, idx)
		next, ok := parent[idx]
		if !ok {
			break
		}
		idx = next
	}

	path := make([]mapgeo.Vec3, 0, len(rev)+1)
	path = append(path, start)
	for i := len(rev) - 2; i >= 1; i-- {
		path = append(path, g.cellCenter(rev[i]%g.cols, rev[i]/g.cols))
	}
	path = append(path, goal)
	return path
}

// node is an open-set entry. Stale entries are skipped via the closed set
// instead of being re-keyed in place.
type node struct {
	idx int
	f   float64
}

type nodeHeap []node

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(node)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
