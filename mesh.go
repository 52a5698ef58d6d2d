package gekko

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex2D is the vertex layout shared by every 2D material pipeline.
type Vertex2D struct {
	Position mgl32.Vec3 `gekko:"layout" location:"0" format:"float3"`
	UV       mgl32.Vec2 `gekko:"layout" location:"1" format:"float2"`
}

type MeshAsset struct {
	version  uint
	vertices []Vertex2D
	indices  []uint16
}

func NewMeshAsset(vertices []Vertex2D, indices []uint16) MeshAsset {
	return MeshAsset{vertices: vertices, indices: indices}
}

func (m MeshAsset) Vertices() []Vertex2D { return m.vertices }
func (m MeshAsset) Indices() []uint16    { return m.indices }

// Mesh2D attaches a mesh asset to an entity.
type Mesh2D struct {
	Mesh AssetId
}

// Rectangle is an axis-aligned quad centred on the origin. A zero size means 1.
type Rectangle struct {
	Width  float32
	Height float32
}

func (r Rectangle) Mesh() MeshAsset {
	w, h := r.Width, r.Height
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	hw, hh := w/2, h/2

	// y up, uv origin top-left
	vertices := []Vertex2D{
		{Position: mgl32.Vec3{-hw, -hh, 0}, UV: mgl32.Vec2{0, 1}},
		{Position: mgl32.Vec3{hw, -hh, 0}, UV: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{hw, hh, 0}, UV: mgl32.Vec2{1, 0}},
		{Position: mgl32.Vec3{-hw, hh, 0}, UV: mgl32.Vec2{0, 0}},
	}
	indices := []uint16{0, 1, 2, 0, 2, 3}
	return NewMeshAsset(vertices, indices)
}

func parseFormat(name string) (wgpu.VertexFormat, error) {
	switch name {
	case "float2":
		return wgpu.VertexFormatFloat32x2, nil
	case "float3":
		return wgpu.VertexFormatFloat32x3, nil
	case "float4":
		return wgpu.VertexFormatFloat32x4, nil
	default:
		return 0, fmt.Errorf("unsupported vertex layout format: %s", name)
	}
}

func createVertexBufferLayout(vertexType any) (wgpu.VertexBufferLayout, error) {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		return wgpu.VertexBufferLayout{}, fmt.Errorf("vertex must be a struct, got %v", t)
	}

	var attributes []wgpu.VertexAttribute
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if "layout" != field.Tag.Get("gekko") {
			continue
		}
		format, err := parseFormat(field.Tag.Get("format"))
		if err != nil {
			return wgpu.VertexBufferLayout{}, err
		}
		location, err := strconv.Atoi(field.Tag.Get("location"))
		if err != nil {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("field %s: bad location: %w", field.Name, err)
		}
		attributes = append(attributes, wgpu.VertexAttribute{
			ShaderLocation: uint32(location),
			Offset:         uint64(field.Offset),
			Format:         format,
		})
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(t.Size()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}, nil
}
