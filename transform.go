package gekko

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places an entity in the 2D world. Rotation is in radians around Z;
// Translation.Z() orders drawing, higher is in front.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    float32
	Scale       mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

func (t Transform) WithTranslation(x, y, z float32) Transform {
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

func (t Transform) WithScale(x, y, z float32) Transform {
	t.Scale = mgl32.Vec3{x, y, z}
	return t
}

func (t Transform) WithRotation(radians float32) Transform {
	t.Rotation = radians
	return t
}

// Matrix is translate * rotate * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation)).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}
