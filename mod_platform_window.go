package gekko

import (
	"reflect"
)

// PlatformWindowModule ensures a single shared GLFW window (WindowState) is created
// and made available as a resource for the renderer and input modules.
// Install is idempotent: if a WindowState resource already exists, it is reused.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

func windowDefaults(width, height int, title string) (int, int, string) {
	if width <= 0 {
		width = DefaultWindowWidth
	}
	if height <= 0 {
		height = DefaultWindowHeight
	}
	if title == "" {
		title = DefaultWindowTitle
	}
	return width, height, title
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	ensureWindowResource(app, m.Width, m.Height, m.Title)
}

// ensureWindowResource guarantees a single shared WindowState resource exists.
// A window that cannot be created stops the app with the error, and nothing
// is attempted once the app is exiting.
func ensureWindowResource(app *App, width, height int, title string) {
	if app.exitRequested || app.hasResource(reflect.TypeOf(WindowState{})) {
		return
	}
	width, height, title = windowDefaults(width, height, title)

	ws, err := createWindowState(width, height, title)
	if err != nil {
		app.Logger().Errorf("window: %v", err)
		app.requestExit(err)
		return
	}
	app.addResources(ws)
	app.Logger().Infof("Created shared window (%dx%d) '%s'", width, height, title)
}
