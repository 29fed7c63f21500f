package algorithms

import (
	"container/heap"
	"math"
)

// Heuristic - 셀에서 목표까지의 추정 비용
type Heuristic func(c Cell) float64

// Euclidean - 목표까지의 유클리드 거리 (허용 가능한 휴리스틱)
func Euclidean(goal Cell) Heuristic {
	return func(c Cell) float64 {
		dx := float64(c.Col - goal.Col)
		dy := float64(c.Row - goal.Row)
		return math.Sqrt(dx*dx + dy*dy)
	}
}

// Hybrid - 시작-목표 직선까지의 수직 거리와 유클리드 거리의 가중 합.
// lineWeight 만큼 직선 편향을 주며 허용성은 보장하지 않는다.
func Hybrid(start, goal Cell, lineWeight float64) Heuristic {
	// ax + by + c = 0
	dx := float64(goal.Col - start.Col)
	dy := float64(goal.Row - start.Row)
	a, b := dy, -dx
	c := dx*float64(start.Row) - dy*float64(start.Col)
	denom := math.Sqrt(a*a + b*b)
	euclid := Euclidean(goal)

	return func(n Cell) float64 {
		line := 0.0
		if denom > 0 {
			line = math.Abs(a*float64(n.Col)+b*float64(n.Row)+c) / denom
		}
		return lineWeight*line + (1-lineWeight)*euclid(n)
	}
}

// node - A* 노드
type node struct {
	cell  Cell
	g, f  float64
	seq   int // 동점일 때 삽입 순서
	index int // for heap
}

// priorityQueue - f 오름차순, 동점은 삽입 순서
type priorityQueue []*node

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].f == pq[j].f {
		return pq[i].seq < pq[j].seq
	}
	return pq[i].f < pq[j].f
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := x.(*node)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// 4방향 (N/E/S/W)
var directions = [4]Cell{
	{Col: 0, Row: -1},
	{Col: 1, Row: 0},
	{Col: 0, Row: 1},
	{Col: -1, Row: 0},
}

// FindPath - 4방향 A*. 시작 셀을 포함한 경로를 반환하고, 목표가 장애물이거나
// 도달할 수 없으면 빈 경로를 반환한다. h가 nil이면 유클리드 거리를 쓴다.
func (g *Grid) FindPath(start, goal Cell, h Heuristic) []Cell {
	if g.IsObstacle(goal) {
		return nil
	}
	if h == nil {
		h = Euclidean(goal)
	}

	openSet := make(priorityQueue, 0, g.Cols*g.Rows)
	heap.Init(&openSet)

	seq := 0
	heap.Push(&openSet, &node{cell: start, g: 0, f: h(start), seq: seq})

	cameFrom := map[Cell]Cell{}
	gScore := map[Cell]float64{start: 0}
	closed := map[Cell]bool{}

	for openSet.Len() > 0 {
		current := heap.Pop(&openSet).(*node)

		if current.cell == goal {
			return reconstructPath(cameFrom, start, goal)
		}
		// 더 나은 경로로 이미 처리된 중복 항목
		if closed[current.cell] {
			continue
		}
		closed[current.cell] = true

		for _, d := range directions {
			next := Cell{Col: current.cell.Col + d.Col, Row: current.cell.Row + d.Row}
			if !g.InBounds(next) || g.IsObstacle(next) || closed[next] {
				continue
			}

			tentativeG := current.g + 1
			if existing, ok := gScore[next]; ok && tentativeG >= existing {
				continue
			}

			cameFrom[next] = current.cell
			gScore[next] = tentativeG
			seq++
			heap.Push(&openSet, &node{cell: next, g: tentativeG, f: tentativeG + h(next), seq: seq})
		}
	}

	// 경로 없음
	return nil
}

// reconstructPath - 부모 포인터를 따라 경로 재구성
func reconstructPath(cameFrom map[Cell]Cell, start, goal Cell) []Cell {
	path := []Cell{goal}
	for current := goal; current != start; {
		current = cameFrom[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
