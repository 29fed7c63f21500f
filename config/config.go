package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level simulation configuration. It is built once at
// startup and handed to each component by value; nothing re-reads it at runtime.
type Config struct {
	Arena      ArenaConfig      `yaml:"arena"      json:"arena"`
	Robot      RobotConfig      `yaml:"robot"      json:"robot"`
	Charger    ChargerConfig    `yaml:"charger"    json:"charger"`
	Sensor     SensorConfig     `yaml:"sensor"     json:"sensor"`
	Threat     ThreatConfig     `yaml:"threat"     json:"threat"`
	Debris     DebrisConfig     `yaml:"debris"     json:"debris"`
	Planner    PlannerConfig    `yaml:"planner"    json:"planner"`
	Sim        SimConfig        `yaml:"sim"        json:"sim"`
	Server     ServerConfig     `yaml:"server"     json:"-"`
	Database   DatabaseConfig   `yaml:"database"   json:"-"`
	Logging    LoggingConfig    `yaml:"logging"    json:"-"`
	Commentary CommentaryConfig `yaml:"commentary" json:"-"`
}

// Zone is an axis-aligned static exclusion rectangle in arena coordinates.
type Zone struct {
	X1 float64 `yaml:"x1" json:"x1"`
	Y1 float64 `yaml:"y1" json:"y1"`
	X2 float64 `yaml:"x2" json:"x2"`
	Y2 float64 `yaml:"y2" json:"y2"`
}

// ArenaConfig defines the canvas, the robot's allowed bounds and the grid overlay.
type ArenaConfig struct {
	Width    float64 `yaml:"width"     json:"width"`
	Height   float64 `yaml:"height"    json:"height"`
	CellSize float64 `yaml:"cell_size" json:"cell_size"`
	XMin     float64 `yaml:"x_min"     json:"x_min"`
	XMax     float64 `yaml:"x_max"     json:"x_max"`
	YMin     float64 `yaml:"y_min"     json:"y_min"`
	YMax     float64 `yaml:"y_max"     json:"y_max"`
	Zones    []Zone  `yaml:"zones"     json:"zones"`
}

// Cols is the number of grid columns covering the canvas.
func (a ArenaConfig) Cols() int { return int(a.Width / a.CellSize) }

// Rows is the number of grid rows covering the canvas.
func (a ArenaConfig) Rows() int { return int(a.Height / a.CellSize) }

// RobotConfig defines the drive, battery and recovery parameters.
type RobotConfig struct {
	Count            int     `yaml:"count"             json:"count"`
	AxleLength       float64 `yaml:"axle_length"       json:"axle_length"`
	BatteryCapacity  int     `yaml:"battery_capacity"  json:"battery_capacity"`
	LowBattery       int     `yaml:"low_battery"       json:"low_battery"`
	CruiseSpeed      float64 `yaml:"cruise_speed"      json:"cruise_speed"`
	SlowWheelSpeed   float64 `yaml:"slow_wheel_speed"  json:"slow_wheel_speed"`
	HeadingTolerance float64 `yaml:"heading_tolerance" json:"heading_tolerance"`
	PickupRadius     float64 `yaml:"pickup_radius"     json:"pickup_radius"`

	Boundary BoundaryConfig `yaml:"boundary" json:"boundary"`
}

// BoundaryConfig defines the boundary recovery maneuver.
type BoundaryConfig struct {
	Buffer     float64 `yaml:"buffer"      json:"buffer"`
	Lookahead  float64 `yaml:"lookahead"   json:"lookahead"`
	TurnSpeed  float64 `yaml:"turn_speed"  json:"turn_speed"`
	TurnMargin int     `yaml:"turn_margin" json:"turn_margin"`
	EntryInset float64 `yaml:"entry_inset" json:"entry_inset"`
	TurnInset  float64 `yaml:"turn_inset"  json:"turn_inset"`
	SlowDecay  float64 `yaml:"slow_decay"  json:"slow_decay"`
	FastDecay  float64 `yaml:"fast_decay"  json:"fast_decay"`
	DecayTicks int     `yaml:"decay_ticks" json:"decay_ticks"`
	ExitOmega  float64 `yaml:"exit_omega"  json:"exit_omega"`
}

// ChargerConfig defines charging stations.
type ChargerConfig struct {
	Count            int     `yaml:"count"             json:"count"`
	Distance         float64 `yaml:"distance"          json:"distance"`
	Increment        int     `yaml:"increment"         json:"increment"`
	SteerSpeed       float64 `yaml:"steer_speed"       json:"steer_speed"`
	ArrivalIntensity float64 `yaml:"arrival_intensity" json:"arrival_intensity"`
	BalanceRatio     float64 `yaml:"balance_ratio"     json:"balance_ratio"`
}

// SensorConfig defines the inverse-square light sensors.
type SensorConfig struct {
	K           float64 `yaml:"k"            json:"k"`
	MinDistance float64 `yaml:"min_distance" json:"min_distance"`
	Forward     float64 `yaml:"forward"      json:"forward"`
	Lateral     float64 `yaml:"lateral"      json:"lateral"`
	Lamps       []Point `yaml:"lamps"        json:"lamps"`
}

// Point is a fixed arena position.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// ThreatConfig defines mobile threats and the avoidance response.
type ThreatConfig struct {
	Count         int     `yaml:"count"          json:"count"`
	AvoidDistance float64 `yaml:"avoid_distance" json:"avoid_distance"`
	BaseSpeed     float64 `yaml:"base_speed"     json:"base_speed"`
	MaxTurnRatio  float64 `yaml:"max_turn_ratio" json:"max_turn_ratio"`
	DriftSpeed    float64 `yaml:"drift_speed"    json:"drift_speed"`
}

// DebrisConfig defines debris placement and target selection.
type DebrisConfig struct {
	Count            int     `yaml:"count"             json:"count"`
	ZoneMargin       float64 `yaml:"zone_margin"       json:"zone_margin"`
	DensityThreshold int     `yaml:"density_threshold" json:"density_threshold"`
}

// Brains and target policies.
const (
	BrainAStar      = "astar"
	BrainRandomWalk = "random_walk"

	PolicyThreshold = "threshold"
	PolicyNearest   = "nearest"
	PolicyFarthest  = "farthest"
)

// PlannerConfig selects the brain, the target policy and the A* heuristic.
type PlannerConfig struct {
	Brain        string           `yaml:"brain"         json:"brain"`         // "astar" or "random_walk"
	TargetPolicy string           `yaml:"target_policy" json:"target_policy"` // "threshold", "nearest" or "farthest"
	Heuristic    string           `yaml:"heuristic"     json:"heuristic"`     // "euclidean" or "hybrid"
	LineWeight   float64          `yaml:"line_weight"   json:"line_weight"`
	BakeZones    bool             `yaml:"bake_zones"    json:"bake_zones"`
	Walk         RandomWalkConfig `yaml:"walk"          json:"walk"`
}

// RandomWalkConfig defines the random-walk brain: straight runs and
// in-place turns of random length, bounds half-open [min, max).
type RandomWalkConfig struct {
	RunMin    int     `yaml:"run_min"    json:"run_min"`
	RunMax    int     `yaml:"run_max"    json:"run_max"`
	TurnMin   int     `yaml:"turn_min"   json:"turn_min"`
	TurnMax   int     `yaml:"turn_max"   json:"turn_max"`
	TurnSpeed float64 `yaml:"turn_speed" json:"turn_speed"`
}

// SimConfig defines the tick loop.
type SimConfig struct {
	Dt           float64       `yaml:"dt"            json:"dt"`
	TickInterval time.Duration `yaml:"tick_interval" json:"tick_interval"`
	MaxTicks     int           `yaml:"max_ticks"     json:"max_ticks"`
	Milestones   []int         `yaml:"milestones"    json:"milestones"`
	Seed         int64         `yaml:"seed"          json:"seed"`
	LogEvery     int           `yaml:"log_every"     json:"log_every"`
}

// ServerConfig defines the HTTP server.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	AllowOrigins string `yaml:"allow_origins"`
}

// DatabaseConfig defines the log store.
type DatabaseConfig struct {
	Driver     string `yaml:"driver"` // "sqlite", "mysql" or "none"
	SQLitePath string `yaml:"sqlite_path"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
}

// LoggingConfig defines the buffered log writer.
type LoggingConfig struct {
	FlushSize     int           `yaml:"flush_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// CommentaryConfig defines the live commentary pacing.
type CommentaryConfig struct {
	Cooldown time.Duration `yaml:"cooldown"`
}

// Defaults returns the reference arena: a 1000x1000 canvas, 10x10 grid,
// three exclusion zones and a single robot.
func Defaults() Config {
	return Config{
		Arena: ArenaConfig{
			Width:    1000,
			Height:   1000,
			CellSize: 100,
			XMin:     100,
			XMax:     900,
			YMin:     100,
			YMax:     900,
			Zones: []Zone{
				{X1: 300, Y1: 300, X2: 400, Y2: 500},
				{X1: 600, Y1: 300, X2: 700, Y2: 400},
				{X1: 500, Y1: 700, X2: 600, Y2: 800},
			},
		},
		Robot: RobotConfig{
			Count:            1,
			AxleLength:       60,
			BatteryCapacity:  3000,
			LowBattery:       800,
			CruiseSpeed:      5,
			SlowWheelSpeed:   2,
			HeadingTolerance: 0.1,
			PickupRadius:     30,
			Boundary: BoundaryConfig{
				Buffer:     20,
				Lookahead:  5,
				TurnSpeed:  15,
				TurnMargin: 3,
				EntryInset: 50,
				TurnInset:  30,
				SlowDecay:  0.95,
				FastDecay:  0.85,
				DecayTicks: 5,
				ExitOmega:  0.1,
			},
		},
		Charger: ChargerConfig{
			Count:            1,
			Distance:         80,
			Increment:        10,
			SteerSpeed:       2,
			ArrivalIntensity: 200,
			BalanceRatio:     0.1,
		},
		Sensor: SensorConfig{
			K:           200000,
			MinDistance: 1,
			Forward:     30,
			Lateral:     20,
			Lamps:       []Point{{X: 950, Y: 50}, {X: 50, Y: 500}},
		},
		Threat: ThreatConfig{
			Count:         0,
			AvoidDistance: 125,
			BaseSpeed:     8,
			MaxTurnRatio:  1.5,
		},
		Debris: DebrisConfig{
			Count:            2200,
			ZoneMargin:       10,
			DensityThreshold: 10,
		},
		Planner: PlannerConfig{
			Brain:        BrainAStar,
			TargetPolicy: PolicyThreshold,
			Heuristic:    "euclidean",
			LineWeight:   0.3,
			Walk: RandomWalkConfig{
				RunMin:    50,
				RunMax:    100,
				TurnMin:   20,
				TurnMax:   40,
				TurnSpeed: 2,
			},
		},
		Sim: SimConfig{
			Dt:           1.0,
			TickInterval: 50 * time.Millisecond,
			MaxTicks:     500,
			Milestones:   []int{100, 200, 300, 400, 500},
			LogEvery:     10,
		},
		Server: ServerConfig{
			Port:         3000,
			AllowOrigins: "http://localhost:5173, http://localhost:3000",
		},
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "cleanbot.db",
			Port:       3306,
		},
		Logging: LoggingConfig{
			FlushSize:     50,
			FlushInterval: 10 * time.Second,
		},
		Commentary: CommentaryConfig{
			Cooldown: 5 * time.Second,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables (typically loaded from .env).
func (c *Config) ApplyEnv() error {
	var errs []error
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setInt("PORT", &c.Server.Port)
	setString("CORS_ALLOW_ORIGINS", &c.Server.AllowOrigins)

	setString("DB_DRIVER", &c.Database.Driver)
	setString("SQLITE_PATH", &c.Database.SQLitePath)
	setString("MYSQL_HOST", &c.Database.Host)
	setInt("MYSQL_PORT", &c.Database.Port)
	setString("MYSQL_USER", &c.Database.User)
	setString("MYSQL_PASSWORD", &c.Database.Password)
	setString("MYSQL_DATABASE", &c.Database.Name)

	setInt("SIM_MAX_TICKS", &c.Sim.MaxTicks)
	setInt("ROBOT_COUNT", &c.Robot.Count)
	setInt("DEBRIS_COUNT", &c.Debris.Count)
	setInt("THREAT_COUNT", &c.Threat.Count)
	setString("PLANNER_HEURISTIC", &c.Planner.Heuristic)
	setString("PLANNER_BRAIN", &c.Planner.Brain)
	setString("PLANNER_TARGET_POLICY", &c.Planner.TargetPolicy)

	if v := os.Getenv("SIM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("SIM_SEED: %w", err))
		} else {
			c.Sim.Seed = seed
		}
	}

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Planner.Heuristic = strings.ToLower(strings.TrimSpace(c.Planner.Heuristic))
	c.Planner.Brain = strings.ToLower(strings.TrimSpace(c.Planner.Brain))
	c.Planner.TargetPolicy = strings.ToLower(strings.TrimSpace(c.Planner.TargetPolicy))
	return errors.Join(errs...)
}

// Validate rejects configurations the simulator cannot run with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}

	a := c.Arena
	check(a.CellSize > 0, "arena.cell_size must be positive")
	check(a.Width >= a.CellSize*3 && a.Height >= a.CellSize*3, "arena must hold at least 3x3 cells")
	check(a.XMin < a.XMax && a.YMin < a.YMax, "arena bounds are empty")
	check(a.XMax-a.XMin > 2*c.Robot.Boundary.EntryInset && a.YMax-a.YMin > 2*c.Robot.Boundary.EntryInset,
		"arena bounds are narrower than the recovery inset")

	check(c.Robot.Count >= 0, "robot.count must not be negative")
	check(c.Robot.AxleLength > 0, "robot.axle_length must be positive")
	check(c.Robot.BatteryCapacity > 0, "robot.battery_capacity must be positive")
	check(c.Robot.LowBattery >= 0 && c.Robot.LowBattery <= c.Robot.BatteryCapacity,
		"robot.low_battery must lie in [0, battery_capacity]")
	check(c.Robot.Boundary.TurnSpeed > 0, "robot.boundary.turn_speed must be positive")

	check(c.Sensor.MinDistance > 0, "sensor.min_distance must be positive")
	check(c.Charger.Count >= 0 && c.Threat.Count >= 0 && c.Debris.Count >= 0, "entity counts must not be negative")

	check(c.Planner.Heuristic == "euclidean" || c.Planner.Heuristic == "hybrid",
		fmt.Sprintf("planner.heuristic %q is not euclidean or hybrid", c.Planner.Heuristic))
	check(c.Planner.LineWeight >= 0 && c.Planner.LineWeight <= 1, "planner.line_weight must lie in [0, 1]")
	switch c.Planner.Brain {
	case BrainAStar, BrainRandomWalk:
	default:
		errs = append(errs, fmt.Errorf("planner.brain %q is not astar or random_walk", c.Planner.Brain))
	}
	switch c.Planner.TargetPolicy {
	case PolicyThreshold, PolicyNearest, PolicyFarthest:
	default:
		errs = append(errs, fmt.Errorf("planner.target_policy %q is not threshold, nearest or farthest", c.Planner.TargetPolicy))
	}
	w := c.Planner.Walk
	check(w.RunMin > 0 && w.RunMin < w.RunMax, "planner.walk run range must satisfy 0 < run_min < run_max")
	check(w.TurnMin > 0 && w.TurnMin < w.TurnMax, "planner.walk turn range must satisfy 0 < turn_min < turn_max")
	check(c.Commentary.Cooldown >= 0, "commentary.cooldown must not be negative")

	check(c.Sim.Dt > 0, "sim.dt must be positive")
	check(c.Sim.MaxTicks > 0, "sim.max_ticks must be positive")

	switch c.Database.Driver {
	case "sqlite", "mysql", "none", "":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not sqlite, mysql or none", c.Database.Driver))
	}
	return errors.Join(errs...)
}
