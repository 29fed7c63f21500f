package algorithms

import "math"

// Pose - 아레나 좌표계의 위치와 방향
type Pose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"` // 라디안, [0, 2π)
}

// WrapAngle - 각도를 [0, 2π) 로 정규화
func WrapAngle(theta float64) float64 {
	w := math.Mod(theta, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	// -0 또는 반올림으로 2π가 되는 경우
	if w >= 2*math.Pi {
		w = 0
	}
	return w
}

// NormalizeAngle - 각도 차이를 [-π, π) 로 정규화
func NormalizeAngle(diff float64) float64 {
	return WrapAngle(diff+math.Pi) - math.Pi
}

// Integrate - 차동 구동 운동학 (ICC 모델) 으로 한 스텝 적분
//
// vl == vr 이면 직진: x += v·cosθ·dt, y += v·sinθ·dt.
// 그 외에는 회전 반경 R, 각속도 ω 로 ICC 를 구하고 그 점을 중심으로 회전한다.
func Integrate(p Pose, vl, vr, axle, dt float64) Pose {
	if vl == vr {
		return Pose{
			X:     p.X + vr*math.Cos(p.Theta)*dt,
			Y:     p.Y + vr*math.Sin(p.Theta)*dt,
			Theta: WrapAngle(p.Theta),
		}
	}

	r := (axle / 2.0) * ((vr + vl) / (vl - vr))
	omega := (vl - vr) / axle

	iccX := p.X - r*math.Sin(p.Theta)
	iccY := p.Y + r*math.Cos(p.Theta)

	sin, cos := math.Sincos(omega * dt)
	dx := p.X - iccX
	dy := p.Y - iccY

	return Pose{
		X:     cos*dx - sin*dy + iccX,
		Y:     sin*dx + cos*dy + iccY,
		Theta: WrapAngle(p.Theta + omega*dt),
	}
}

// AngularRate - 바퀴 속도 차이로 인한 각속도
func AngularRate(vl, vr, axle float64) float64 {
	return (vl - vr) / axle
}
