package gekko

import (
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSpriteApp(t *testing.T) (*App, *AssetServer, *Materials) {
	t.Helper()
	app := NewAppBuilder().UseModule(
		AssetServerModule{Root: fstest.MapFS{}},
		SpriteModule{},
	).Build()
	assets, ok := Resource[AssetServer](app)
	require.True(t, ok)
	materials, ok := Resource[Materials](app)
	require.True(t, ok)
	return app, assets, materials
}

func TestSpriteSystem_BuildsQuadOnce(t *testing.T) {
	app, assets, materials := newSpriteApp(t)
	image := assets.CreateTexture(make([]uint8, 4*2*4), 4, 2, TextureFormatRGBA8UnormSrgb)
	eid := app.Commands().AddEntity(Sprite{Image: image}, NewTransform())

	require.True(t, app.Update())
	require.True(t, app.Update())

	cmd := app.Commands()
	mesh, ok := GetComponent[Mesh2D](cmd, eid)
	require.True(t, ok)
	quad, ok := assets.Mesh(mesh.Mesh)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{2, 1, 0}, quad.Vertices()[2].Position)

	mat, ok := GetComponent[MeshMaterial2D](cmd, eid)
	require.True(t, ok)
	got, ok := materials.Get(mat.Material)
	require.True(t, ok)
	assert.Equal(t, SpriteMaterial{Color: White, Image: image}, got, "zero colour means white")
	assert.Equal(t, 1, materials.Len())
}

func TestSpriteSystem_KeepsTint(t *testing.T) {
	app, assets, materials := newSpriteApp(t)
	image := assets.CreateTexture(make([]uint8, 4), 1, 1, TextureFormatRGBA8UnormSrgb)
	tint := Gold.WithAlpha(0.5)
	eid := app.Commands().AddEntity(Sprite{Image: image, Color: tint})

	app.Update()

	mat, ok := GetComponent[MeshMaterial2D](app.Commands(), eid)
	require.True(t, ok)
	got, _ := materials.Get(mat.Material)
	assert.Equal(t, tint, got.(SpriteMaterial).Color)
}

func TestSpriteSystem_UnknownImage(t *testing.T) {
	app, _, materials := newSpriteApp(t)
	eid := app.Commands().AddEntity(NewSprite("missing"))

	app.Update()
	app.Update()

	_, ok := GetComponent[Mesh2D](app.Commands(), eid)
	assert.False(t, ok)
	_, ok = GetComponent[spriteMeshed](app.Commands(), eid)
	assert.True(t, ok)
	assert.Zero(t, materials.Len())
}
