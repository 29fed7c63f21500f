package services

import (
	"cleanbot-backend/algorithms"
	"cleanbot-backend/config"
	"cleanbot-backend/models"
)

// Sensor - 좌/우 광센서 한 쌍
type Sensor struct {
	geometry    algorithms.SensorGeometry
	k           float64
	minDistance float64
}

// NewSensor - 센서 생성
func NewSensor(cfg config.SensorConfig) *Sensor {
	return &Sensor{
		geometry:    algorithms.SensorGeometry{Forward: cfg.Forward, Lateral: cfg.Lateral},
		k:           cfg.K,
		minDistance: cfg.MinDistance,
	}
}

// Sense - 충전소/위협/광원 종류별 좌우 세기 측정
func (s *Sensor) Sense(r *models.Robot, field *World) models.Readings {
	left, right := s.geometry.SensorPositions(r.Pose)

	var out models.Readings
	out.ChargerL, out.ChargerR = algorithms.Intensity(left, right, locations(field.Chargers()), s.k, s.minDistance)
	out.ThreatL, out.ThreatR = algorithms.Intensity(left, right, locations(field.Threats()), s.k, s.minDistance)
	out.LampL, out.LampR = algorithms.Intensity(left, right, locations(field.Lamps()), s.k, s.minDistance)
	return out
}
