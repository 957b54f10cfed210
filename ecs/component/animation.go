package component

// AnimationSignals is how gameplay drives whatever presents an entity.
// Completion of an attack clip comes back through the animation system.
type AnimationSignals interface {
	PlayAttack()
	PlayWalk(walking bool)
	PlayDeath()
}

type Animator struct {
	Signals AnimationSignals
}

var AnimatorComponent = NewComponent[Animator]()
