package component

import "github.com/jakecoffman/cp"

// Input is the sampled player intent for the current tick.
type Input struct {
	Move        cp.Vector
	Aim         cp.Vector
	FirePressed bool
	FireHeld    bool
}

var InputComponent = NewComponent[Input]()
