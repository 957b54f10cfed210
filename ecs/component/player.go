package component

type Player struct {
	Speed  float64
	Active bool
}

var PlayerComponent = NewComponent[Player]()
