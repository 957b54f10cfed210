package prefabs

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func invalid(name, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidSpec, name, fmt.Sprintf(format, args...))
}

// finite reports whether every value is neither NaN nor infinite. YAML
// accepts .nan and .inf for floats.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type ProjectileSpec struct {
	Name            string  `yaml:"name"`
	Speed           float64 `yaml:"speed"`
	Damage          float64 `yaml:"damage"`
	Lifetime        float64 `yaml:"lifetime"`
	ExplosionRadius float64 `yaml:"explosion_radius"`
	Radius          float64 `yaml:"radius"`
	ExcludeOwner    bool    `yaml:"exclude_owner"`
}

func (s *ProjectileSpec) applyDefaults() {
	if s.Speed == 0 {
		s.Speed = 50
	}
	if s.Damage == 0 {
		s.Damage = 10
	}
	if s.Lifetime == 0 {
		s.Lifetime = 5
	}
	if s.Radius == 0 {
		s.Radius = 0.1
	}
}

func (s ProjectileSpec) Validate() error {
	switch {
	case !finite(s.Speed, s.Damage, s.Lifetime, s.ExplosionRadius, s.Radius):
		return invalid(s.Name, "values must be finite")
	case s.Speed <= 0:
		return invalid(s.Name, "speed must be positive")
	case s.Lifetime <= 0:
		return invalid(s.Name, "lifetime must be positive")
	case s.Damage < 0, s.ExplosionRadius < 0, s.Radius < 0:
		return invalid(s.Name, "damage and radii cannot be negative")
	}
	return nil
}

func LoadProjectileSpec(filename string) (ProjectileSpec, error) {
	spec, err := LoadSpec[ProjectileSpec](filename)
	if err != nil {
		return spec, err
	}
	spec.applyDefaults()
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filename, ".yaml")
	}
	return spec, spec.Validate()
}

type AgentSpec struct {
	Name         string  `yaml:"name"`
	MaxHealth    float64 `yaml:"max_health"`
	Radius       float64 `yaml:"radius"`
	SightRange   float64 `yaml:"sight_range"`
	FOV          float64 `yaml:"fov"`
	WanderRadius float64 `yaml:"wander_radius"`
	AttackRange  float64 `yaml:"attack_range"`
	ChaseSpeed   float64 `yaml:"chase_speed"`
	WanderSpeed  float64 `yaml:"wander_speed"`
	TurnSpeed    float64 `yaml:"turn_speed"`

	Attack AttackSpec `yaml:"attack"`

	DeathGrace float64 `yaml:"death_grace"`
	Script     string  `yaml:"script"`
}

type AttackSpec struct {
	Kind     string  `yaml:"kind"`
	Cooldown float64 `yaml:"cooldown"`
	Duration float64 `yaml:"duration"`
	HitDelay float64 `yaml:"hit_delay"`
	Damage   float64 `yaml:"damage"`
	// Projectile names the projectile prefab of a ranged attack.
	Projectile string `yaml:"projectile"`
}

func (s *AgentSpec) applyDefaults() {
	def := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}
	def(&s.MaxHealth, 100)
	def(&s.Radius, 0.5)
	def(&s.SightRange, 8)
	def(&s.FOV, 120)
	def(&s.WanderRadius, 6)
	def(&s.AttackRange, 2)
	def(&s.ChaseSpeed, 3.5)
	def(&s.WanderSpeed, 1.5)
	def(&s.TurnSpeed, 5)
	def(&s.Attack.Cooldown, 1.5)
	def(&s.Attack.Duration, 1)
	def(&s.Attack.HitDelay, 0.5)
	def(&s.Attack.Damage, 10)
	def(&s.DeathGrace, 2)
	if s.Attack.Kind == "" {
		s.Attack.Kind = "melee"
	}
}

func (s AgentSpec) Validate() error {
	switch {
	case !finite(s.MaxHealth, s.Radius, s.SightRange, s.FOV, s.WanderRadius, s.AttackRange,
		s.ChaseSpeed, s.WanderSpeed, s.TurnSpeed, s.DeathGrace,
		s.Attack.Cooldown, s.Attack.Duration, s.Attack.HitDelay, s.Attack.Damage):
		return invalid(s.Name, "values must be finite")
	case s.MaxHealth <= 0:
		return invalid(s.Name, "max_health must be positive")
	case s.FOV <= 0 || s.FOV > 360:
		return invalid(s.Name, "fov %.1f outside (0, 360]", s.FOV)
	case s.SightRange < 0, s.AttackRange < 0, s.WanderRadius < 0, s.Radius < 0:
		return invalid(s.Name, "ranges cannot be negative")
	case s.ChaseSpeed < 0, s.WanderSpeed < 0, s.TurnSpeed < 0:
		return invalid(s.Name, "speeds cannot be negative")
	case s.Attack.Cooldown < 0, s.Attack.Duration <= 0, s.Attack.HitDelay < 0:
		return invalid(s.Name, "attack timings out of range")
	case s.Attack.Damage < 0, s.DeathGrace < 0:
		return invalid(s.Name, "attack damage and death_grace cannot be negative")
	}
	switch s.Attack.Kind {
	case "melee":
	case "ranged":
		if s.Attack.Projectile == "" {
			return invalid(s.Name, "ranged attack needs a projectile")
		}
	default:
		return invalid(s.Name, "unknown attack kind %q", s.Attack.Kind)
	}
	return nil
}

func LoadAgentSpec(filename string) (AgentSpec, error) {
	spec, err := LoadSpec[AgentSpec](filename)
	if err != nil {
		return spec, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filename, ".yaml")
	}
	spec.applyDefaults()
	return spec, spec.Validate()
}

type WeaponSpec struct {
	FireRate     float64 `yaml:"fire_rate"`
	Automatic    bool    `yaml:"automatic"`
	Spread       float64 `yaml:"spread"`
	MuzzleOffset float64 `yaml:"muzzle_offset"`
	Projectile   string  `yaml:"projectile"`
}

type PlayerSpec struct {
	Name      string     `yaml:"name"`
	MaxHealth float64    `yaml:"max_health"`
	Speed     float64    `yaml:"speed"`
	Radius    float64    `yaml:"radius"`
	Weapon    WeaponSpec `yaml:"weapon"`
}

func (s *PlayerSpec) applyDefaults() {
	if s.MaxHealth == 0 {
		s.MaxHealth = 100
	}
	if s.Speed == 0 {
		s.Speed = 5
	}
	if s.Radius == 0 {
		s.Radius = 0.5
	}
	if s.Weapon.FireRate == 0 {
		s.Weapon.FireRate = 0.2
	}
	if s.Weapon.MuzzleOffset == 0 {
		s.Weapon.MuzzleOffset = s.Radius + 0.2
	}
}

func (s PlayerSpec) Validate() error {
	switch {
	case !finite(s.MaxHealth, s.Speed, s.Radius, s.Weapon.FireRate, s.Weapon.Spread, s.Weapon.MuzzleOffset):
		return invalid(s.Name, "values must be finite")
	case s.MaxHealth <= 0:
		return invalid(s.Name, "max_health must be positive")
	case s.Speed < 0, s.Radius < 0:
		return invalid(s.Name, "speed and radius cannot be negative")
	case s.Weapon.FireRate < 0, s.Weapon.Spread < 0:
		return invalid(s.Name, "weapon fire_rate and spread cannot be negative")
	case s.Weapon.Projectile == "":
		return invalid(s.Name, "weapon needs a projectile")
	}
	return nil
}

func LoadPlayerSpec(filename string) (PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec](filename)
	if err != nil {
		return spec, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filename, ".yaml")
	}
	spec.applyDefaults()
	return spec, spec.Validate()
}

type RectSpec struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type PlacementSpec struct {
	Prefab string  `yaml:"prefab"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	// Facing in degrees.
	Facing float64 `yaml:"facing"`
}

type ArenaSpec struct {
	Name      string          `yaml:"name"`
	Seed      int64           `yaml:"seed"`
	Bounds    RectSpec        `yaml:"bounds"`
	Player    PlacementSpec   `yaml:"player"`
	Agents    []PlacementSpec `yaml:"agents"`
	Obstacles []RectSpec      `yaml:"obstacles"`
}

func (s ArenaSpec) Validate() error {
	if s.Bounds.MaxX <= s.Bounds.MinX || s.Bounds.MaxY <= s.Bounds.MinY {
		return invalid(s.Name, "bounds are empty")
	}
	if s.Player.Prefab == "" {
		return invalid(s.Name, "player prefab missing")
	}
	for i, a := range s.Agents {
		if a.Prefab == "" {
			return invalid(s.Name, "agent %d has no prefab", i)
		}
	}
	for i, o := range s.Obstacles {
		if o.MaxX <= o.MinX || o.MaxY <= o.MinY {
			return invalid(s.Name, "obstacle %d is empty", i)
		}
	}
	return nil
}

func LoadArenaSpec(filename string) (ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec](filename)
	if err != nil {
		return spec, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filename, ".yaml")
	}
	return spec, spec.Validate()
}
