// Package shaders holds the WGSL the 2D renderer ships with.
package shaders

import (
	"embed"
)

//go:embed *.wgsl
var FS embed.FS

// Mesh2DPrelude declares the view and mesh bind groups, the vertex layout and
// the shared vertex entry point. Material fragment files are appended to it.
//
//go:embed mesh2d_prelude.wgsl
var Mesh2DPrelude string

const SpritePath = "sprite.wgsl"
