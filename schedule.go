package gekko

import "fmt"

type State int

// Stage groups systems that run together. Commands are flushed after every stage.
type Stage struct {
	Name string
}

var (
	// Startup systems run once, before the first frame, with a flush after each one.
	Startup = Stage{Name: "Startup"}

	Prelude    = Stage{Name: "Prelude"}
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
	PreRender  = Stage{Name: "PreRender"}
	Render     = Stage{Name: "Render"}
	PostRender = Stage{Name: "PostRender"}
	Finale     = Stage{Name: "Finale"}
)

var defaultStages = []Stage{Prelude, PreUpdate, Update, PostUpdate, PreRender, Render, PostRender, Finale}

type statePhase int

const (
	enter statePhase = iota
	execute
	exit
)

var statePhases = [...]statePhase{enter, execute, exit}

type stateScheduleBuilder struct {
	state  State
	phase  statePhase
	always bool
}

func OnEnter(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: enter}
}

func OnExecute(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: execute}
}

func OnExit(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: exit}
}

// Always runs the system every frame whatever the current state is.
func Always() stateScheduleBuilder {
	return stateScheduleBuilder{always: true}
}

type systemScheduleBuilder struct {
	system    systemFn
	stage     Stage
	runAlways bool

	// set by InState
	stateful bool
	state    State
	phase    statePhase
}

// System schedules fn in the Update stage unless InStage says otherwise.
func System(fn systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{system: fn, stage: Update}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	sched.stage = s
	return sched
}

func (sched systemScheduleBuilder) InState(s stateScheduleBuilder) systemScheduleBuilder {
	sched.stateful = true
	sched.runAlways = s.always
	sched.state = s.state
	sched.phase = s.phase
	return sched
}

func (sched systemScheduleBuilder) RunAlways() systemScheduleBuilder {
	sched.runAlways = true
	return sched
}

func (app *App) UseSystem(sched systemScheduleBuilder) *App {
	if sched.stage.Name == Startup.Name {
		app.startupSystems = append(app.startupSystems, sched.system)
		return app
	}

	if sched.runAlways || !sched.stateful {
		if _, ok := app.systemsStateless[sched.stage.Name]; !ok {
			panic(fmt.Sprintf("Stage %v doesn't exist", sched.stage.Name))
		}
		app.systemsStateless[sched.stage.Name] = append(app.systemsStateless[sched.stage.Name], sched.system)
		return app
	}

	if !app.stateful {
		panic("Trying to use a stateful system in a stateless app.")
	}
	byState, ok := app.systems[sched.stage.Name]
	if !ok {
		panic(fmt.Sprintf("Stage %v doesn't exist", sched.stage.Name))
	}
	byPhase, ok := byState[sched.state]
	if !ok {
		panic(fmt.Sprintf("State %v doesn't exist", sched.state))
	}
	byPhase[sched.phase] = append(byPhase[sched.phase], sched.system)
	return app
}

// initStage prepares the system lists of a stage, per state when the app is stateful.
func (app *App) initStage(stage Stage) {
	if _, ok := app.systemsStateless[stage.Name]; !ok {
		app.systemsStateless[stage.Name] = nil
	}
	if !app.stateful {
		return
	}

	byState := make(map[State]map[statePhase][]systemFn)
	for state := app.initialState; state <= app.finalState; state++ {
		byPhase := make(map[statePhase][]systemFn, len(statePhases))
		for _, phase := range statePhases {
			byPhase[phase] = nil
		}
		byState[state] = byPhase
	}
	app.systems[stage.Name] = byState
}
