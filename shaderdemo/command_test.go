package shaderdemo

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (Config, bool, string, error) {
	t.Helper()
	var got Config
	called := false
	c := newCommand(func(cfg Config) error {
		got, called = cfg, true
		return nil
	})
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	err := c.Execute()
	return got, called, out.String(), err
}

func TestCommand_Defaults(t *testing.T) {
	cfg, called, out, err := runCommand(t, "smokerust")
	require.NoError(t, err)
	require.True(t, called)

	assert.Equal(t, SmokeRust, cfg.Name)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Nil(t, cfg.Assets)
	assert.False(t, cfg.Debug)
	assert.Zero(t, cfg.Duration)
	assert.Contains(t, out, "Value for name: smoke-rust")
}

func TestCommand_Flags(t *testing.T) {
	dir := t.TempDir()
	cfg, called, _, err := runCommand(t, "snow", "--width", "640", "--height", "480", "--assets", dir, "--debug", "--duration", "2s")
	require.NoError(t, err)
	require.True(t, called)

	assert.Equal(t, Snow, cfg.Name)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.NotNil(t, cfg.Assets)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 2*time.Second, cfg.Duration)
}

func TestCommand_RejectsBadArgs(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"water", "snow"},
		{"lava"},
	} {
		_, called, out, err := runCommand(t, args...)
		assert.Error(t, err, "%v", args)
		assert.False(t, called, "%v", args)
		assert.Contains(t, out, "Usage:", "%v", args)
	}

	_, _, _, err := runCommand(t, "lava")
	assert.ErrorContains(t, err, `invalid value "lava" for <NAME>`)
}

func TestCommand_Version(t *testing.T) {
	_, called, out, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, out, Version)
}

func TestCommand_NameIsLoggedToStderr(t *testing.T) {
	c := newCommand(func(Config) error { return nil })
	var stdout, stderr bytes.Buffer
	c.SetOut(&stdout)
	c.SetErr(&stderr)
	c.SetArgs([]string{"snow"})

	require.NoError(t, c.Execute())
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Value for name: snow")
}
