package algorithms

import "math"

// Cell - 격자 셀 좌표 (col, row)
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// CellOf - 아레나 좌표 → 격자 셀
func CellOf(x, y, cellSize float64) Cell {
	return Cell{
		Col: int(math.Floor(x / cellSize)),
		Row: int(math.Floor(y / cellSize)),
	}
}

// Center - 셀 중심의 아레나 좌표
func (c Cell) Center(cellSize float64) (float64, float64) {
	return float64(c.Col)*cellSize + cellSize/2, float64(c.Row)*cellSize + cellSize/2
}

// Manhattan - 두 셀 사이 맨해튼 거리
func (c Cell) Manhattan(o Cell) int {
	return absInt(c.Col-o.Col) + absInt(c.Row-o.Row)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Grid - 경로 계획용 격자. 바깥 테두리 셀은 항상 장애물이다.
type Grid struct {
	Cols      int
	Rows      int
	obstacles []bool
}

// NewGrid - 테두리가 장애물로 채워진 격자 생성
func NewGrid(cols, rows int) *Grid {
	g := &Grid{
		Cols:      cols,
		Rows:      rows,
		obstacles: make([]bool, cols*rows),
	}
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			if col == 0 || row == 0 || col == cols-1 || row == rows-1 {
				g.obstacles[row*cols+col] = true
			}
		}
	}
	return g
}

// AddObstacle - 단일 셀을 장애물로 지정
func (g *Grid) AddObstacle(c Cell) {
	if g.InBounds(c) {
		g.obstacles[c.Row*g.Cols+c.Col] = true
	}
}

// AddRect - 아레나 좌표 사각형이 걸치는 모든 셀을 장애물로 지정
func (g *Grid) AddRect(x1, y1, x2, y2, cellSize float64) {
	lo := CellOf(math.Min(x1, x2), math.Min(y1, y2), cellSize)
	// 오른쪽/아래 경계가 셀 경계와 정확히 맞으면 다음 셀은 포함하지 않는다
	hi := CellOf(math.Max(x1, x2)-1e-9, math.Max(y1, y2)-1e-9, cellSize)
	for col := lo.Col; col <= hi.Col; col++ {
		for row := lo.Row; row <= hi.Row; row++ {
			g.AddObstacle(Cell{Col: col, Row: row})
		}
	}
}

// InBounds - 격자 범위 내 검사
func (g *Grid) InBounds(c Cell) bool {
	return c.Col >= 0 && c.Col < g.Cols && c.Row >= 0 && c.Row < g.Rows
}

// IsObstacle - 장애물 검사 (범위 밖은 장애물 취급)
func (g *Grid) IsObstacle(c Cell) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.obstacles[c.Row*g.Cols+c.Col]
}

// Obstacles - 장애물 셀 목록 (행 우선 순서)
func (g *Grid) Obstacles() []Cell {
	var cells []Cell
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if g.obstacles[row*g.Cols+col] {
				cells = append(cells, Cell{Col: col, Row: row})
			}
		}
	}
	return cells
}

// OccupancyGrid - 로봇이 지나간 셀 기록
type OccupancyGrid struct {
	Cols    int      `json:"cols"`
	Rows    int      `json:"rows"`
	Visited [][]bool `json:"visited"` // [col][row]
}

// NewOccupancyGrid - 빈 점유 격자 생성
func NewOccupancyGrid(cols, rows int) *OccupancyGrid {
	visited := make([][]bool, cols)
	for i := range visited {
		visited[i] = make([]bool, rows)
	}
	return &OccupancyGrid{Cols: cols, Rows: rows, Visited: visited}
}

// Mark - 셀 방문 기록. 범위 밖 좌표는 가장자리 셀로 고정한다.
func (o *OccupancyGrid) Mark(c Cell) {
	c = o.clamp(c)
	o.Visited[c.Col][c.Row] = true
}

// IsVisited - 방문 여부
func (o *OccupancyGrid) IsVisited(c Cell) bool {
	if c.Col < 0 || c.Col >= o.Cols || c.Row < 0 || c.Row >= o.Rows {
		return false
	}
	return o.Visited[c.Col][c.Row]
}

// Count - 방문한 셀 수
func (o *OccupancyGrid) Count() int {
	n := 0
	for _, col := range o.Visited {
		for _, v := range col {
			if v {
				n++
			}
		}
	}
	return n
}

// Clone - 깊은 복사 (스냅샷 용)
func (o *OccupancyGrid) Clone() *OccupancyGrid {
	cp := NewOccupancyGrid(o.Cols, o.Rows)
	for i := range o.Visited {
		copy(cp.Visited[i], o.Visited[i])
	}
	return cp
}

func (o *OccupancyGrid) clamp(c Cell) Cell {
	c.Col = min(max(c.Col, 0), o.Cols-1)
	c.Row = min(max(c.Row, 0), o.Rows-1)
	return c
}
