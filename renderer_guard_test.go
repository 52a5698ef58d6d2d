package gekko

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSingleRenderer(t *testing.T) {
	app := NewApp()

	ensureSingleRenderer(app, string(RendererRender2D))
	require.NotPanics(t, func() { ensureSingleRenderer(app, string(RendererRender2D)) })

	tag, ok := Resource[RendererTag](app)
	require.True(t, ok)
	assert.Equal(t, "render2d", tag.Name)

	assert.PanicsWithValue(t, "Multiple renderers installed: render2d and voxel", func() {
		ensureSingleRenderer(app, "voxel")
	})
	assert.Panics(t, func() { ensureSingleRenderer(nil, "render2d") })
}

type fakeRenderer struct {
	installs *int
}

func (r fakeRenderer) Install(app *App, cmd *Commands) {
	*r.installs++
}

func TestUseRenderer_ReusesWindowAndGuards(t *testing.T) {
	app := NewApp()
	window := &WindowState{WindowWidth: 640, WindowHeight: 480}
	app.addResources(window)

	var installs int
	app.UseRenderer("fake", fakeRenderer{installs: &installs})
	assert.Equal(t, 1, installs)

	ws, ok := Resource[WindowState](app)
	require.True(t, ok)
	assert.Same(t, window, ws)

	tag, ok := Resource[RendererTag](app)
	require.True(t, ok)
	assert.Equal(t, "fake", tag.Name)

	assert.Panics(t, func() { app.UseRender2D(640, 480, "second") })
	assert.Equal(t, 1, installs)
}

func TestUseRenderer_SkipsWindowWhenExiting(t *testing.T) {
	app := NewApp()
	app.requestExit(assert.AnError)

	var installs int
	app.UseRenderer("fake", fakeRenderer{installs: &installs})

	_, ok := Resource[WindowState](app)
	assert.False(t, ok)
	assert.Equal(t, 1, installs)
}
