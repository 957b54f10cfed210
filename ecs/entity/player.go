package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/prefabs"
)

func NewPlayer(w *ecs.World, spec prefabs.PlayerSpec, projectile prefabs.ProjectileSpec, pos cp.Vector, facing float64) (ecs.Entity, error) {
	e := w.CreateEntity()

	if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add tag: %w", err)
	}
	if err := ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{Speed: spec.Speed, Active: true}); err != nil {
		return 0, fmt.Errorf("player: add player: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Facing: facing}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{Aim: pos.Add(cp.ForAngle(facing))}); err != nil {
		return 0, fmt.Errorf("player: add input: %w", err)
	}
	if err := ecs.Add(w, e, component.HealthComponent.Kind(), combat.NewHealth(spec.MaxHealth)); err != nil {
		return 0, fmt.Errorf("player: add health: %w", err)
	}
	if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Radius: spec.Radius}); err != nil {
		return 0, fmt.Errorf("player: add collider: %w", err)
	}
	if err := ecs.Add(w, e, component.WeaponComponent.Kind(), &component.Weapon{
		Automatic:    spec.Weapon.Automatic,
		Spread:       spec.Weapon.Spread,
		MuzzleOffset: spec.Weapon.MuzzleOffset,
		Projectile:   ProjectileParams(projectile),
		Cooldown:     combat.NewCooldown(spec.Weapon.FireRate),
	}); err != nil {
		return 0, fmt.Errorf("player: add weapon: %w", err)
	}
	return e, nil
}
