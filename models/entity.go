package models

// Locator - 위치를 가진 모든 엔티티
type Locator interface {
	Location() (x, y float64)
}

// Debris - 먼지 한 점
type Debris struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Location - 위치
func (d *Debris) Location() (float64, float64) { return d.X, d.Y }

// Charger - 충전소
type Charger struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Location - 위치
func (c *Charger) Location() (float64, float64) { return c.X, c.Y }

// Lamp - 광원 (센서 보정/시각화용)
type Lamp struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Location - 위치
func (l *Lamp) Location() (float64, float64) { return l.X, l.Y }

// Threat - 회피해야 하는 이동 위협 (예: 고양이)
type Threat struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
}

// NewThreat - 위협 생성
func NewThreat(id, name string, x, y float64) *Threat {
	return &Threat{ID: id, Name: name, X: x, Y: y}
}

// Location - 위치
func (t *Threat) Location() (float64, float64) { return t.X, t.Y }

// Advance - 속도만큼 이동, 경계에 닿으면 반사
func (t *Threat) Advance(dt, xMin, xMax, yMin, yMax float64) {
	t.X += t.VX * dt
	t.Y += t.VY * dt
	if t.X < xMin || t.X > xMax {
		t.VX = -t.VX
		t.X = min(max(t.X, xMin), xMax)
	}
	if t.Y < yMin || t.Y > yMax {
		t.VY = -t.VY
		t.Y = min(max(t.Y, yMin), yMax)
	}
}

// Zone - 정적 사각형 금지 구역
type Zone struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Contains - margin 만큼 확장한 구역 내부(경계 제외)인지 검사
func (z Zone) Contains(x, y, margin float64) bool {
	return z.X1-margin < x && x < z.X2+margin &&
		z.Y1-margin < y && y < z.Y2+margin
}
