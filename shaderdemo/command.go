package shaderdemo

import (
	"os"
	"strings"
	"time"

	gekko "github.com/gekko3d/shaderlab"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

// NewCommand builds the shaderdemo root command.
func NewCommand() *cobra.Command {
	return newCommand(Run)
}

func newCommand(run func(Config) error) *cobra.Command {
	cfg := DefaultConfig()
	var assetDir string

	c := &cobra.Command{
		Use:       "shaderdemo <name>",
		Short:     "Draw a full-window quad with one of the demo materials",
		Long:      "Draw a full-window quad with one of the demo materials.\n\nNames: " + strings.Join(ShaderNames(), ", "),
		Version:   Version,
		ValidArgs: ShaderNames(),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), validName),
		RunE: func(c *cobra.Command, args []string) error {
			name, err := ParseShaderName(args[0])
			if err != nil {
				return err
			}
			cfg.Name = name
			if assetDir != "" {
				cfg.Assets = os.DirFS(assetDir)
			}

			// diagnostics only, keep stdout clean
			logger := gekko.NewLoggerTo(c.ErrOrStderr(), c.ErrOrStderr(), "shaderdemo", cfg.Debug)
			logger.Infof("Value for name: %s", cfg.Name)

			// past argument parsing, failures are runtime errors, not usage errors
			c.SilenceUsage = true
			return run(cfg)
		},
	}

	flags := c.Flags()
	flags.IntVar(&cfg.Width, "width", cfg.Width, "window width in pixels")
	flags.IntVar(&cfg.Height, "height", cfg.Height, "window height in pixels")
	flags.StringVar(&assetDir, "assets", "", "load shaders and textures from this directory instead of the embedded set")
	flags.BoolVar(&cfg.Debug, "debug", false, "enable debug logging")
	flags.DurationVar(&cfg.Duration, "duration", time.Duration(0), "exit after this long, 0 runs until the window is closed")
	return c
}

func validName(_ *cobra.Command, args []string) error {
	_, err := ParseShaderName(args[0])
	return err
}
