package gekko

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVec4InDelta(t *testing.T, want, got mgl32.Vec4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}

func TestTransform_Matrix(t *testing.T) {
	tr := NewTransform().
		WithTranslation(10, 20, 3).
		WithScale(2, 3, 1).
		WithRotation(math.Pi / 2)

	got := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assertVec4InDelta(t, mgl32.Vec4{10, 22, 3, 1}, got)
}

func TestTransform_DefaultIsIdentity(t *testing.T) {
	assert.True(t, NewTransform().Matrix().ApproxEqual(mgl32.Ident4()))
}

func TestCamera2D_ViewProjection(t *testing.T) {
	vp := Camera2D{}.ViewProjection(1280, 720, mgl32.Vec3{})

	assertVec4InDelta(t, mgl32.Vec4{1, 1, 0.5, 1}, vp.Mul4x1(mgl32.Vec4{640, 360, 0, 1}))
	assertVec4InDelta(t, mgl32.Vec4{-1, -1, 0.5, 1}, vp.Mul4x1(mgl32.Vec4{-640, -360, 0, 1}))

	// WebGPU depth range, higher z in front
	assertVec4InDelta(t, mgl32.Vec4{0, 0, 0, 1}, vp.Mul4x1(mgl32.Vec4{0, 0, camera2DDepth, 1}))
	assertVec4InDelta(t, mgl32.Vec4{0, 0, 1, 1}, vp.Mul4x1(mgl32.Vec4{0, 0, -camera2DDepth, 1}))
}

func TestCamera2D_Position(t *testing.T) {
	vp := Camera2D{}.ViewProjection(200, 100, mgl32.Vec3{100, 50, 7})

	assertVec4InDelta(t, mgl32.Vec4{0, 0, 0.5, 1}, vp.Mul4x1(mgl32.Vec4{100, 50, 0, 1}))
}
