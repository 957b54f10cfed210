package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/logger"
)

// ScriptLoader returns the source of a named script.
type ScriptLoader func(name string) ([]byte, error)

// A script must define on_enter(engine, state, current). The dispatch suffix
// below is appended before compiling.
const scriptDispatch = `
if __phase == "enter" {
	on_enter(__engine, __state, __current_state)
}
`

type scriptRuntime struct {
	name     string
	compiled *tengo.Compiled
	// stateData persists between calls for the same entity.
	stateData *tengo.Map
	err       error
}

// ScriptSystem runs an agent's tengo on_enter hook whenever the behavior
// controller commits a new state. Scripts only tune the agent; they never
// drive transitions.
type ScriptSystem struct {
	env      *Env
	load     ScriptLoader
	runtimes map[ecs.Entity]*scriptRuntime
}

var _ StateHook = (*ScriptSystem)(nil)

func NewScriptSystem(env *Env, load ScriptLoader) *ScriptSystem {
	return &ScriptSystem{env: env, load: load, runtimes: map[ecs.Entity]*scriptRuntime{}}
}

// Update forgets runtimes of entities that no longer exist.
func (s *ScriptSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for e := range s.runtimes {
		if !w.IsAlive(e) {
			delete(s.runtimes, e)
		}
	}
}

// Invalidate drops every runtime compiled from the named script so the next
// state change recompiles it.
func (s *ScriptSystem) Invalidate(name string) {
	for e, rt := range s.runtimes {
		if rt.name == name {
			delete(s.runtimes, e)
		}
	}
}

func (s *ScriptSystem) OnEnter(w *ecs.World, e ecs.Entity, state component.BehaviorState) {
	sc, ok := ecs.Get(w, e, component.ScriptComponent.Kind())
	if !ok || strings.TrimSpace(sc.Name) == "" {
		return
	}
	entry := logger.Log.WithFields(logrus.Fields{
		"component": "script",
		"entity":    e.String(),
		"script":    sc.Name,
	})

	rt := s.runtime(e, sc.Name)
	if rt.err != nil {
		return
	}
	if err := rt.run("enter", state.String(), s.engine(w, e, entry)); err != nil {
		rt.err = err
		entry.WithError(err).Warn("on_enter failed, script disabled")
	}
}

func (s *ScriptSystem) runtime(e ecs.Entity, name string) *scriptRuntime {
	if rt, ok := s.runtimes[e]; ok && rt.name == name {
		return rt
	}
	rt := &scriptRuntime{name: name, stateData: &tengo.Map{Value: map[string]tengo.Object{}}}
	rt.compiled, rt.err = s.compile(name)
	if rt.err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "script",
			"script":    name,
		}).WithError(rt.err).Warn("script disabled")
	}
	s.runtimes[e] = rt
	return rt
}

func (s *ScriptSystem) compile(name string) (*tengo.Compiled, error) {
	if s.load == nil {
		return nil, fmt.Errorf("script %s: no loader", name)
	}
	src, err := s.load(name)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__current_state", "")
	script.SetImports(stdlib.GetModuleMap("math", "text", "fmt"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	return compiled, nil
}

// run executes the compiled script once. Faults tengo raises as Go panics,
// such as integer division by zero, come back as errors.
func (rt *scriptRuntime) run(phase, current string, engine *tengo.ImmutableMap) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script %s: %v", rt.name, r)
		}
	}()
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	if err := rt.compiled.Set("__current_state", current); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func (s *ScriptSystem) engine(w *ecs.World, e ecs.Entity, entry *logrus.Entry) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		entry.Info(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	values["time"] = &tengo.UserFunction{Name: "time", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: w.Now()}, nil
	}}

	values["effect"] = &tengo.UserFunction{Name: "effect", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return tengo.FalseValue, nil
		}
		s.env.spawnEffect(objectAsString(args[0]), t.Position, t.Facing)
		return tengo.TrueValue, nil
	}}

	values["distance"] = &tengo.UserFunction{Name: "distance", Value: func(args ...tengo.Object) (tengo.Object, error) {
		brain, ok := ecs.Get(w, e, component.BrainComponent.Kind())
		t, okT := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok || !okT {
			return tengo.UndefinedValue, nil
		}
		pos, ok := targetPosition(w, ecs.Entity(brain.Target))
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return &tengo.Float{Value: t.Position.Distance(pos)}, nil
	}}

	values["health_ratio"] = &tengo.UserFunction{Name: "health_ratio", Value: func(args ...tengo.Object) (tengo.Object, error) {
		h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
		if !ok {
			return &tengo.Float{Value: 1}, nil
		}
		return &tengo.Float{Value: h.Ratio()}, nil
	}}

	values["speed"] = &tengo.UserFunction{Name: "speed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		n, ok := ecs.Get(w, e, component.NavAgentComponent.Kind())
		if !ok || n.Agent == nil {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: n.Agent.Speed()}, nil
	}}

	values["set_speed"] = &tengo.UserFunction{Name: "set_speed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		v, ok := tengo.ToFloat64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		n, ok := ecs.Get(w, e, component.NavAgentComponent.Kind())
		if !ok || n.Agent == nil {
			return tengo.FalseValue, nil
		}
		n.Agent.SetSpeed(v)
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
