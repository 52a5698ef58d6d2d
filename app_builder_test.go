package gekko

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingModule struct {
	name string
	log  *[]string
}

func (m recordingModule) Install(app *App, cmd *Commands) {
	*m.log = append(*m.log, m.name)
}

type resourceModule struct{}

func (resourceModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&counter{n: 7})
}

func TestAppBuilder_Stateless(t *testing.T) {
	app := NewAppBuilder().Build()

	assert.False(t, app.stateful)
	assert.Equal(t, State(0), app.initialState)
	assert.Equal(t, State(0), app.finalState)
}

func TestAppBuilder_UseStates(t *testing.T) {
	app := NewAppBuilder().UseStates(1, 10).Build()

	assert.True(t, app.stateful)
	assert.Equal(t, State(1), app.initialState)
	assert.Equal(t, State(10), app.finalState)
	assert.Len(t, app.systems[Update.Name], 10)
}

func TestAppBuilder_InstallsModulesInOrder(t *testing.T) {
	var log []string
	builder := NewAppBuilder().
		UseModule(recordingModule{name: "a", log: &log}).
		UseModule(recordingModule{name: "b", log: &log}, recordingModule{name: "c", log: &log})
	require.Len(t, builder.modules, 3)
	assert.Empty(t, log)

	builder.Build()
	assert.Equal(t, []string{"a", "b", "c"}, log)
}

func TestAppBuilder_ModuleResourcesAreInjected(t *testing.T) {
	app := NewAppBuilder().UseModule(resourceModule{}).Build()

	var got int
	app.UseSystem(System(func(c *counter) { got = c.n }).InStage(Update))
	app.Update()

	assert.Equal(t, 7, got)
}

func TestAppBuilder_StatefulSystemInStatelessAppPanics(t *testing.T) {
	app := NewAppBuilder().Build()

	assert.Panics(t, func() {
		app.UseSystem(System(func() {}).InState(OnEnter(1)))
	})
}

func TestAppBuilder_StatefulAppStopsAtFinalState(t *testing.T) {
	app := NewAppBuilder().UseStates(0, 1).Build()
	var entered []State
	app.UseSystem(System(func() { entered = append(entered, 0) }).InState(OnEnter(0)))
	app.UseSystem(System(func() { entered = append(entered, 1) }).InState(OnEnter(1)))
	app.UseSystem(System(func(cmd *Commands) { cmd.ChangeState(1) }).InState(OnExecute(0)))

	require.NoError(t, app.Run())
	assert.Equal(t, []State{0, 1}, entered)
}

func TestAppBuilder_OnExitRunsOnTransitionAndAtFinalState(t *testing.T) {
	app := NewAppBuilder().UseStates(0, 1).Build()
	var exited []State
	app.UseSystem(System(func() { exited = append(exited, 0) }).InState(OnExit(0)))
	app.UseSystem(System(func() { exited = append(exited, 1) }).InState(OnExit(1)))
	app.UseSystem(System(func(cmd *Commands) { cmd.ChangeState(1) }).InState(OnExecute(0)))

	require.NoError(t, app.Run())
	assert.Equal(t, []State{0, 1}, exited)
}

func TestAppBuilder_UnknownStagePanics(t *testing.T) {
	app := NewAppBuilder().UseStates(0, 1).Build()

	assert.PanicsWithValue(t, "Stage Late doesn't exist", func() {
		app.UseSystem(System(func() {}).InStage(Stage{Name: "Late"}))
	})
	assert.PanicsWithValue(t, "State 5 doesn't exist", func() {
		app.UseSystem(System(func() {}).InState(OnEnter(5)))
	})
}
