package component

// Script names the tengo hook run when the agent enters a state.
type Script struct {
	Name string
}

var ScriptComponent = NewComponent[Script]()
