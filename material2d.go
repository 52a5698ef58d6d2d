package gekko

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga/ir"
)

// Bind group indices shared by every 2D material pipeline.
const (
	ViewBindGroup     uint32 = 0
	MeshBindGroup     uint32 = 1
	MaterialBindGroup uint32 = 2
)

type AlphaMode2D int

const (
	AlphaModeOpaque AlphaMode2D = iota
	AlphaModeBlend
)

func (m AlphaMode2D) String() string {
	if m == AlphaModeBlend {
		return "blend"
	}
	return "opaque"
}

// Material2D is shader-visible data bound at group 2. Fields are declared with
// struct tags:
//
//	Color LinearRgba `gekko:"uniform" binding:"0"`
//	Image AssetId    `gekko:"texture" binding:"1" sampler:"2" filter:"linear" mode:"clamp"`
//
// An empty texture id binds a 1x1 white texture.
type Material2D interface {
	FragmentShader() string
}

// Implemented by materials that are not opaque.
type alphaModer interface {
	AlphaMode() AlphaMode2D
}

func materialAlphaMode(m Material2D) AlphaMode2D {
	if am, ok := m.(alphaModer); ok {
		return am.AlphaMode()
	}
	return AlphaModeOpaque
}

// MeshMaterial2D attaches a material instance (from Materials.Add) to an entity.
type MeshMaterial2D struct {
	Material AssetId
}

type materialBinding struct {
	field   int
	name    string
	kind    ShaderBindingKind
	binding uint32

	// textures only
	hasSampler bool
	sampler    uint32
	filter     wgpu.FilterMode
	wrap       wgpu.AddressMode
}

type MaterialLayout struct {
	bindings []materialBinding
}

var assetIdType = reflect.TypeOf(AssetId(""))

func parseBindingNumber(field reflect.StructField, tag string) (uint32, error) {
	raw, ok := field.Tag.Lookup(tag)
	if !ok {
		return 0, fmt.Errorf("field %s: missing %s tag", field.Name, tag)
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("field %s: bad %s %q: %w", field.Name, tag, raw, err)
	}
	return uint32(n), nil
}

// reflectMaterialLayout reads the binding tags of a material struct.
func reflectMaterialLayout(t reflect.Type) (MaterialLayout, error) {
	if t.Kind() != reflect.Struct {
		return MaterialLayout{}, fmt.Errorf("material %v must be a struct", t)
	}

	var layout MaterialLayout
	used := map[uint32]string{}
	claim := func(n uint32, name string) error {
		if prev, ok := used[n]; ok {
			return fmt.Errorf("binding %d used by both %s and %s", n, prev, name)
		}
		used[n] = name
		return nil
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		kind, ok := field.Tag.Lookup("gekko")
		if !ok {
			continue
		}
		binding, err := parseBindingNumber(field, "binding")
		if err != nil {
			return MaterialLayout{}, err
		}

		b := materialBinding{field: i, name: field.Name, binding: binding}
		switch kind {
		case "uniform":
			b.kind = BindingUniform
			if _, err := toBufferBytes(reflect.New(field.Type).Elem().Interface()); err != nil {
				return MaterialLayout{}, fmt.Errorf("field %s: %w", field.Name, err)
			}
		case "texture":
			b.kind = BindingTexture
			if field.Type != assetIdType {
				return MaterialLayout{}, fmt.Errorf("field %s: texture field must be of type AssetId, got %v", field.Name, field.Type)
			}
			if _, ok := field.Tag.Lookup("sampler"); ok {
				b.hasSampler = true
				if b.sampler, err = parseBindingNumber(field, "sampler"); err != nil {
					return MaterialLayout{}, err
				}
			}
			if b.filter, err = wgpuFilterMode(field.Tag.Get("filter")); err != nil {
				return MaterialLayout{}, fmt.Errorf("field %s: %w", field.Name, err)
			}
			if b.wrap, err = wgpuWrapMode(field.Tag.Get("mode")); err != nil {
				return MaterialLayout{}, fmt.Errorf("field %s: %w", field.Name, err)
			}
		default:
			return MaterialLayout{}, fmt.Errorf("field %s: unknown binding kind %q", field.Name, kind)
		}

		if err := claim(b.binding, field.Name); err != nil {
			return MaterialLayout{}, err
		}
		if b.hasSampler {
			if err := claim(b.sampler, field.Name+" sampler"); err != nil {
				return MaterialLayout{}, err
			}
		}
		layout.bindings = append(layout.bindings, b)
	}
	return layout, nil
}

// provided maps each binding number the material supplies to its kind.
func (l MaterialLayout) provided() map[uint32]ShaderBindingKind {
	res := make(map[uint32]ShaderBindingKind, len(l.bindings))
	for _, b := range l.bindings {
		res[b.binding] = b.kind
		if b.hasSampler {
			res[b.sampler] = BindingSampler
		}
	}
	return res
}

// layoutEntries describes the material bind group layout.
func (l MaterialLayout) layoutEntries() []wgpu.BindGroupLayoutEntry {
	var entries []wgpu.BindGroupLayoutEntry
	for _, b := range l.bindings {
		switch b.kind {
		case BindingUniform:
			entries = append(entries, wgpu.BindGroupLayoutEntry{
				Binding:    b.binding,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			})
		case BindingTexture:
			entries = append(entries, wgpu.BindGroupLayoutEntry{
				Binding:    b.binding,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			})
			if b.hasSampler {
				entries = append(entries, wgpu.BindGroupLayoutEntry{
					Binding:    b.sampler,
					Visibility: wgpu.ShaderStageFragment,
					Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
				})
			}
		}
	}
	return entries
}

// uniformBytes encodes a uniform field, padded to 16 bytes as WGSL uniform structs are.
func (b materialBinding) uniformBytes(material reflect.Value) ([]byte, error) {
	data, err := toBufferBytes(material.Field(b.field).Interface())
	if err != nil {
		return nil, fmt.Errorf("uniform %s: %w", b.name, err)
	}
	if pad := len(data) % 16; pad != 0 || len(data) == 0 {
		data = append(data, make([]byte, 16-pad)...)
	}
	return data, nil
}

func (b materialBinding) textureId(material reflect.Value) AssetId {
	return AssetId(material.Field(b.field).String())
}

var errNoReflection = errors.New("shader was not reflected")

// checkShaderBindings verifies the shader's entry points and that every
// group 2 binding it declares is supplied by the material with a matching kind.
func checkShaderBindings(refl *ShaderReflection, layout MaterialLayout) error {
	if refl == nil {
		return errNoReflection
	}
	if !refl.HasEntryPoint("fragment", ir.StageFragment) {
		return errors.New("missing @fragment entry point named fragment")
	}
	if !refl.HasEntryPoint("vertex", ir.StageVertex) {
		return errors.New("missing @vertex entry point named vertex")
	}
	provided := layout.provided()
	var errs []error
	for _, sb := range refl.GroupBindings(MaterialBindGroup) {
		kind, ok := provided[sb.Binding]
		if !ok {
			errs = append(errs, fmt.Errorf("@group(%d) @binding(%d) %s is not provided by the material", sb.Group, sb.Binding, sb.Name))
			continue
		}
		if kind != sb.Kind {
			errs = append(errs, fmt.Errorf("@group(%d) @binding(%d) %s is a %v in the shader but a %v in the material", sb.Group, sb.Binding, sb.Name, sb.Kind, kind))
		}
	}
	return errors.Join(errs...)
}
