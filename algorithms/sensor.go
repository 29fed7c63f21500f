package algorithms

import "math"

// Point - 아레나 좌표
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SensorGeometry - 전방 센서 두 개의 장착 위치
type SensorGeometry struct {
	Forward float64 // 진행 방향 오프셋
	Lateral float64 // 좌우 오프셋
}

// SensorPositions - 자세로부터 좌/우 센서 위치 계산
func (s SensorGeometry) SensorPositions(p Pose) (left, right Point) {
	sin, cos := math.Sincos(p.Theta)
	fx := p.X + s.Forward*cos
	fy := p.Y + s.Forward*sin
	left = Point{X: fx + s.Lateral*sin, Y: fy - s.Lateral*cos}
	right = Point{X: fx - s.Lateral*sin, Y: fy + s.Lateral*cos}
	return left, right
}

// Intensity - 역제곱 모델로 좌/우 센서 세기 누적.
// 거리는 minDistance 로 하한을 둔다 (센서 위의 광원은 최대 신호).
func Intensity(left, right Point, sources []Point, k, minDistance float64) (float64, float64) {
	var l, r float64
	for _, src := range sources {
		l += k / sq(math.Max(distance(left, src), minDistance))
		r += k / sq(math.Max(distance(right, src), minDistance))
	}
	return l, r
}

// Distance - 두 점 사이 유클리드 거리
func Distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(ax-bx, ay-by)
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func sq(v float64) float64 { return v * v }
