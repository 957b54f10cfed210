package component

import "github.com/milk9111/skirmish/nav"

type NavAgent struct {
	Agent nav.Agent
}

var NavAgentComponent = NewComponent[NavAgent]()
