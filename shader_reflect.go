package gekko

import (
	"fmt"
	"slices"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

type ShaderBindingKind int

const (
	BindingUniform ShaderBindingKind = iota
	BindingStorage
	BindingTexture
	BindingSampler
	BindingOther
)

func (k ShaderBindingKind) String() string {
	switch k {
	case BindingUniform:
		return "uniform"
	case BindingStorage:
		return "storage"
	case BindingTexture:
		return "texture"
	case BindingSampler:
		return "sampler"
	}
	return "other"
}

type ShaderBinding struct {
	Name    string
	Group   uint32
	Binding uint32
	Kind    ShaderBindingKind
}

// ShaderReflection is what the engine needs to know about a WGSL module:
// its resource bindings and entry points.
type ShaderReflection struct {
	Bindings    []ShaderBinding
	EntryPoints map[string]ir.ShaderStage
}

// ReflectWGSL parses and lowers the source with naga. Bindings are sorted by
// group, then binding.
func ReflectWGSL(source string) (*ShaderReflection, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, err
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("lower: %w", err)
	}

	refl := &ShaderReflection{
		EntryPoints: make(map[string]ir.ShaderStage, len(module.EntryPoints)),
	}
	for _, ep := range module.EntryPoints {
		refl.EntryPoints[ep.Name] = ep.Stage
	}
	for _, gv := range module.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		refl.Bindings = append(refl.Bindings, ShaderBinding{
			Name:    gv.Name,
			Group:   gv.Binding.Group,
			Binding: gv.Binding.Binding,
			Kind:    bindingKind(module, gv),
		})
	}
	slices.SortFunc(refl.Bindings, func(a, b ShaderBinding) int {
		if a.Group != b.Group {
			return int(a.Group) - int(b.Group)
		}
		return int(a.Binding) - int(b.Binding)
	})
	return refl, nil
}

func bindingKind(module *ir.Module, gv ir.GlobalVariable) ShaderBindingKind {
	switch gv.Space {
	case ir.SpaceUniform:
		return BindingUniform
	case ir.SpaceStorage:
		return BindingStorage
	case ir.SpaceHandle:
		if int(gv.Type) >= len(module.Types) {
			return BindingOther
		}
		switch module.Types[gv.Type].Inner.(type) {
		case ir.SamplerType, *ir.SamplerType:
			return BindingSampler
		case ir.ImageType, *ir.ImageType:
			return BindingTexture
		}
	}
	return BindingOther
}

func (r *ShaderReflection) GroupBindings(group uint32) []ShaderBinding {
	var res []ShaderBinding
	for _, b := range r.Bindings {
		if b.Group == group {
			res = append(res, b)
		}
	}
	return res
}

func (r *ShaderReflection) HasEntryPoint(name string, stage ir.ShaderStage) bool {
	s, ok := r.EntryPoints[name]
	return ok && s == stage
}
