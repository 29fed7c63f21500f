package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Arena.Cols())
	assert.Equal(t, 10, cfg.Arena.Rows())
	assert.Len(t, cfg.Arena.Zones, 3)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
robot:
  count: 3
  battery_capacity: 2500
planner:
  heuristic: hybrid
sim:
  tick_interval: 20ms
  max_ticks: 550
arena:
  zones:
    - {x1: 100, y1: 100, x2: 200, y2: 200}
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Robot.Count)
	assert.Equal(t, 2500, cfg.Robot.BatteryCapacity)
	assert.Equal(t, 800, cfg.Robot.LowBattery, "untouched keys keep defaults")
	assert.Equal(t, "hybrid", cfg.Planner.Heuristic)
	assert.Equal(t, 20*time.Millisecond, cfg.Sim.TickInterval)
	assert.Equal(t, 550, cfg.Sim.MaxTicks)
	assert.Equal(t, []Zone{{X1: 100, Y1: 100, X2: 200, Y2: 200}}, cfg.Arena.Zones)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("robot: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("DB_DRIVER", " MySQL ")
	t.Setenv("MYSQL_HOST", "db.local")
	t.Setenv("SIM_SEED", "42")
	t.Setenv("ROBOT_COUNT", "2")
	t.Setenv("PLANNER_HEURISTIC", "Hybrid")
	t.Setenv("PLANNER_BRAIN", "Random_Walk")
	t.Setenv("PLANNER_TARGET_POLICY", " farthest")

	cfg := Defaults()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, int64(42), cfg.Sim.Seed)
	assert.Equal(t, 2, cfg.Robot.Count)
	assert.Equal(t, "hybrid", cfg.Planner.Heuristic)
	assert.Equal(t, BrainRandomWalk, cfg.Planner.Brain)
	assert.Equal(t, PolicyFarthest, cfg.Planner.TargetPolicy)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvReportsBadNumbers(t *testing.T) {
	t.Setenv("SIM_MAX_TICKS", "many")
	t.Setenv("SIM_SEED", "x")

	cfg := Defaults()
	err := cfg.ApplyEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SIM_MAX_TICKS")
	assert.Contains(t, err.Error(), "SIM_SEED")
	assert.Equal(t, 500, cfg.Sim.MaxTicks)
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"zero cell size":       func(c *Config) { c.Arena.CellSize = 0 },
		"low above capacity":   func(c *Config) { c.Robot.LowBattery = c.Robot.BatteryCapacity + 1 },
		"unknown heuristic":    func(c *Config) { c.Planner.Heuristic = "manhattan" },
		"zero sensor floor":    func(c *Config) { c.Sensor.MinDistance = 0 },
		"unknown db driver":    func(c *Config) { c.Database.Driver = "postgres" },
		"no ticks":             func(c *Config) { c.Sim.MaxTicks = 0 },
		"inverted bounds":      func(c *Config) { c.Arena.XMin, c.Arena.XMax = 900, 100 },
		"negative robot count": func(c *Config) { c.Robot.Count = -1 },
		"unknown brain":        func(c *Config) { c.Planner.Brain = "genetic" },
		"unknown policy":       func(c *Config) { c.Planner.TargetPolicy = "random" },
		"empty walk run range": func(c *Config) { c.Planner.Walk.RunMax = c.Planner.Walk.RunMin },
		"negative cooldown":    func(c *Config) { c.Commentary.Cooldown = -time.Second },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := Defaults()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
