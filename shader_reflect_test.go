package gekko

import (
	"testing"

	"github.com/gekko3d/shaderlab/shaders"
	"github.com/gogpu/naga/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflectWGSL_SpriteShader(t *testing.T) {
	src, err := shaders.FS.ReadFile(shaders.SpritePath)
	require.NoError(t, err)

	refl, err := ReflectWGSL(ShaderAsset{Source: string(src)}.Composed())
	require.NoError(t, err)

	assert.Equal(t, []ShaderBinding{
		{Name: "view", Group: 0, Binding: 0, Kind: BindingUniform},
		{Name: "mesh", Group: 1, Binding: 0, Kind: BindingUniform},
		{Name: "sprite_color", Group: 2, Binding: 0, Kind: BindingUniform},
		{Name: "sprite_texture", Group: 2, Binding: 1, Kind: BindingTexture},
		{Name: "sprite_sampler", Group: 2, Binding: 2, Kind: BindingSampler},
	}, refl.Bindings)
	assert.True(t, refl.HasEntryPoint("vertex", ir.StageVertex))
	assert.True(t, refl.HasEntryPoint("fragment", ir.StageFragment))
	assert.False(t, refl.HasEntryPoint("fragment", ir.StageVertex))
	assert.Len(t, refl.GroupBindings(MaterialBindGroup), 3)
	assert.Empty(t, refl.GroupBindings(3))
}

func TestReflectWGSL_SyntaxError(t *testing.T) {
	_, err := ReflectWGSL("fn broken( {")
	assert.Error(t, err)
}

func TestShaderBindingKind_String(t *testing.T) {
	assert.Equal(t, "uniform", BindingUniform.String())
	assert.Equal(t, "texture", BindingTexture.String())
	assert.Equal(t, "sampler", BindingSampler.String())
	assert.Equal(t, "storage", BindingStorage.String())
	assert.Equal(t, "other", ShaderBindingKind(42).String())
}
