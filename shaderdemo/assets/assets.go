// Package assets embeds the demo's shaders and textures.
package assets

import (
	"embed"
)

//go:embed shaders/*.wgsl textures/*.png
var FS embed.FS
