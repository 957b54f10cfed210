package combat

// Damageable is the capability of receiving damage and dying. Projectiles and
// melee strikes only ever talk to this interface.
type Damageable interface {
	// TakeDamage applies amount and reports whether this call killed the
	// entity. Calls on a dead entity are ignored and return false.
	TakeDamage(amount float64) bool
	IsDead() bool
}
