package gekko

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectangle_Mesh(t *testing.T) {
	mesh := Rectangle{Width: 4, Height: 2}.Mesh()

	require.Len(t, mesh.Vertices(), 4)
	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3}, mesh.Indices())
	assert.Equal(t, mgl32.Vec3{-2, -1, 0}, mesh.Vertices()[0].Position)
	assert.Equal(t, mgl32.Vec3{2, 1, 0}, mesh.Vertices()[2].Position)
	// top-left of the image at the top-left corner
	assert.Equal(t, mgl32.Vec2{0, 0}, mesh.Vertices()[3].UV)
	assert.Equal(t, mgl32.Vec2{1, 1}, mesh.Vertices()[1].UV)
}

func TestRectangle_ZeroSizeIsUnit(t *testing.T) {
	mesh := Rectangle{}.Mesh()
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0}, mesh.Vertices()[2].Position)
}

func TestMesh_VertexBufferLayout(t *testing.T) {
	layout, err := createVertexBufferLayout(Vertex2D{})
	require.NoError(t, err)

	assert.Equal(t, uint64(20), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	assert.Equal(t, []wgpu.VertexAttribute{
		{ShaderLocation: 0, Offset: 0, Format: wgpu.VertexFormatFloat32x3},
		{ShaderLocation: 1, Offset: 12, Format: wgpu.VertexFormatFloat32x2},
	}, layout.Attributes)
}

func TestMesh_VertexBufferLayoutErrors(t *testing.T) {
	type badFormat struct {
		P mgl32.Vec3 `gekko:"layout" location:"0" format:"float7"`
	}
	type badLocation struct {
		P mgl32.Vec3 `gekko:"layout" location:"zero" format:"float3"`
	}

	_, err := createVertexBufferLayout(badFormat{})
	assert.ErrorContains(t, err, "float7")
	_, err = createVertexBufferLayout(badLocation{})
	assert.ErrorContains(t, err, "bad location")
	_, err = createVertexBufferLayout(3)
	assert.Error(t, err)
}
