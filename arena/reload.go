package arena

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/entity"
	"github.com/milk9111/skirmish/prefabs"
)

// Reload applies an edited prefab or script to the running session. Agent and
// player prefabs retune live entities in place; an edited arena file
// restarts the session from it.
func (a *Arena) Reload(c prefabs.Change) error {
	entry := a.log.WithField("file", c.Name)
	if c.Script {
		n := a.reloadScript(c.Name)
		entry.WithField("agents", n).Info("script reloaded")
		return nil
	}

	if a.source != "" && c.Name == a.source {
		spec, err := prefabs.LoadArenaSpec(c.Name)
		if err != nil {
			return fmt.Errorf("arena: reload: %w", err)
		}
		for _, opt := range a.opts {
			opt(&spec)
		}
		a.spec = spec
		entry.Info("arena reloaded")
		return a.Restart()
	}

	agents, err := a.reloadAgents(c.Name)
	if err != nil {
		return fmt.Errorf("arena: reload: %w", err)
	}
	player, err := a.reloadPlayer(c.Name)
	if err != nil {
		return fmt.Errorf("arena: reload: %w", err)
	}
	entry.WithFields(logrus.Fields{
		"agents": agents,
		"player": player,
	}).Info("prefab reloaded")
	return nil
}

func (a *Arena) reloadScript(name string) int {
	n := 0
	for _, e := range a.Agents() {
		sc, ok := ecs.Get(a.World, e, component.ScriptComponent.Kind())
		if !ok || !prefabs.SameScript(sc.Name, name) {
			continue
		}
		a.Scripts.Invalidate(sc.Name)
		n++
	}
	return n
}

// reloadAgents retunes every agent spawned from file, or firing the
// projectile defined in file.
func (a *Arena) reloadAgents(file string) (int, error) {
	n := 0
	for _, e := range a.Agents() {
		prefab, ok := a.prefabOf[e]
		if !ok {
			continue
		}
		spec, projectile, err := loadAgent(prefab)
		if err != nil {
			return n, err
		}
		if prefab != file && spec.Attack.Projectile != file {
			continue
		}
		if err := entity.Retune(a.World, e, entity.AgentTuning(spec, projectile), spec); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (a *Arena) reloadPlayer(file string) (bool, error) {
	if a.playerFile == "" {
		return false, nil
	}
	spec, err := prefabs.LoadPlayerSpec(a.playerFile)
	if err != nil {
		return false, err
	}
	if a.playerFile != file && spec.Weapon.Projectile != file {
		return false, nil
	}
	projectile, err := prefabs.LoadProjectileSpec(spec.Weapon.Projectile)
	if err != nil {
		return false, err
	}

	if p, ok := ecs.Get(a.World, a.player, component.PlayerComponent.Kind()); ok {
		p.Speed = spec.Speed
	}
	if c, ok := ecs.Get(a.World, a.player, component.ColliderComponent.Kind()); ok {
		c.Radius = spec.Radius
	}
	if wp, ok := ecs.Get(a.World, a.player, component.WeaponComponent.Kind()); ok {
		wp.Automatic = spec.Weapon.Automatic
		wp.Spread = spec.Weapon.Spread
		wp.MuzzleOffset = spec.Weapon.MuzzleOffset
		wp.Projectile = entity.ProjectileParams(projectile)
		wp.Cooldown.Duration = spec.Weapon.FireRate
	}
	return true, nil
}
