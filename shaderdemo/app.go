package shaderdemo

import (
	"io/fs"
	"time"

	gekko "github.com/gekko3d/shaderlab"
	"github.com/gekko3d/shaderlab/shaderdemo/assets"
)

type Config struct {
	Name     ShaderName
	Width    int
	Height   int
	Assets   fs.FS
	Debug    bool
	Duration time.Duration
}

func DefaultConfig() Config {
	return Config{
		Width:  gekko.DefaultWindowWidth,
		Height: gekko.DefaultWindowHeight,
	}
}

func (c Config) assetRoot() fs.FS {
	if c.Assets != nil {
		return c.Assets
	}
	return assets.FS
}

func (c Config) title() string {
	return "shaderdemo: " + c.Name.String()
}

// NewApp wires the demo without a window, for headless use and tests.
func NewApp(cfg Config) *gekko.App {
	return gekko.NewAppBuilder().
		UseModule(
			gekko.LoggingModule{Prefix: "shaderdemo", Debug: cfg.Debug},
			gekko.TimeModule{},
			gekko.AssetServerModule{Root: cfg.assetRoot()},
			Module{Name: cfg.Name},
		).
		Build()
}

// NewWindowedApp adds the window, input, exit handling and the 2D renderer.
func NewWindowedApp(cfg Config) *gekko.App {
	app := NewApp(cfg)
	app.UseModules(
		gekko.PlatformWindowModule{Width: cfg.Width, Height: cfg.Height, Title: cfg.title()},
		gekko.InputModule{},
		gekko.LifecycleModule{RunFor: cfg.Duration},
	)
	return app.UseRender2D(cfg.Width, cfg.Height, cfg.title())
}

// Run opens the window and blocks until the app exits.
func Run(cfg Config) error {
	app := NewWindowedApp(cfg)
	defer app.Shutdown()
	return app.Run()
}
