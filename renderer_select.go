package gekko

// RendererName identifies a concrete renderer module.
// Keep names aligned with ensureSingleRenderer tags.
type RendererName string

const (
	RendererRender2D RendererName = "render2d"
)

// Renderer is a Module that draws to the shared window.
type Renderer interface {
	Module
}

// UseRenderer installs exactly one renderer module and makes sure a shared
// window exists, created with default size and title when none was installed.
func (app *App) UseRenderer(name RendererName, mod Renderer) *App {
	ensureSingleRenderer(app, string(name))
	ensureWindowResource(app, 0, 0, "")
	app.Logger().Infof("Renderer selected: %s", name)
	app.UseModules(mod)
	return app
}

// UseRender2D selects the 2D material renderer, opening the window with the
// given size and title unless a window module ran first.
func (app *App) UseRender2D(width, height int, title string) *App {
	ensureWindowResource(app, width, height, title)
	return app.UseRenderer(RendererRender2D, Render2DModule{
		Width:  width,
		Height: height,
		Title:  title,
	})
}
