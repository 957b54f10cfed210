package component

import "github.com/milk9111/skirmish/combat"

var HealthComponent = NewComponent[combat.Health]()
