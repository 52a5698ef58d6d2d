package gekko

import (
	"github.com/go-gl/mathgl/mgl32"
)

const camera2DDepth = 1000

// Camera2D is an orthographic camera with the origin at the window centre and
// one world unit per pixel. An optional Transform on the same entity pans it.
type Camera2D struct {
	ClearColor LinearRgba
}

// mgl32.Ortho targets the GL clip range z in [-1, 1]; WebGPU wants [0, 1].
var glToWgpuDepth = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

func (c Camera2D) ViewProjection(width, height float32, position mgl32.Vec3) mgl32.Mat4 {
	hw, hh := width/2, height/2
	proj := glToWgpuDepth.Mul4(mgl32.Ortho(-hw, hw, -hh, hh, -camera2DDepth, camera2DDepth))
	view := mgl32.Translate3D(-position.X(), -position.Y(), 0)
	return proj.Mul4(view)
}
