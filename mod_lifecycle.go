package gekko

import (
	"time"
)

// LifecycleModule stops the app when the window is closed, Escape is pressed,
// or RunFor has elapsed. RunFor of zero runs until closed.
type LifecycleModule struct {
	RunFor time.Duration
}

type lifecycle struct {
	runFor time.Duration
}

func (mod LifecycleModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&lifecycle{runFor: mod.RunFor})
	app.UseSystem(
		System(lifecycleSystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

func lifecycleSystem(lc *lifecycle, input *Input, t *Time, cmd *Commands) {
	switch {
	case input.CloseRequested:
		cmd.Logger().Infof("Window closed, exiting")
		cmd.Exit(nil)
	case input.JustPressed[KeyEscape]:
		cmd.Logger().Infof("Escape pressed, exiting")
		cmd.Exit(nil)
	case lc.runFor > 0 && t.Elapsed >= lc.runFor:
		cmd.Logger().Infof("Ran for %v, exiting", lc.runFor)
		cmd.Exit(nil)
	}
}
