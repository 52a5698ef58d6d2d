package shaderdemo

import (
	"io/fs"
	"testing"
	"testing/fstest"

	gekko "github.com/gekko3d/shaderlab"
	"github.com/gekko3d/shaderlab/shaderdemo/assets"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/naga/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spawned struct {
	quad      gekko.EntityId
	material  gekko.Material2D
	transform gekko.Transform
	cameras   int
	sprites   []spawnedSprite
	entities  int
}

type spawnedSprite struct {
	id         gekko.EntityId
	sprite     gekko.Sprite
	transform  gekko.Transform
	components []any
}

func startDemo(t *testing.T, cfg Config) spawned {
	t.Helper()
	app := NewApp(cfg)
	require.True(t, app.Update(), "startup for %s", cfg.Name)

	materials, ok := gekko.Resource[gekko.Materials](app)
	require.True(t, ok)

	var res spawned
	cmd := app.Commands()
	quads := 0
	gekko.MakeQuery2[gekko.MeshMaterial2D, gekko.Transform](cmd).Map(func(eid gekko.EntityId, mm *gekko.MeshMaterial2D, tr *gekko.Transform) bool {
		quads++
		res.quad = eid
		res.material, ok = materials.Get(mm.Material)
		require.True(t, ok)
		res.transform = *tr
		return true
	})
	require.Equal(t, 1, quads, "exactly one material quad for %s", cfg.Name)

	gekko.MakeQuery1[gekko.Camera2D](cmd).Map(func(gekko.EntityId, *gekko.Camera2D) bool {
		res.cameras++
		return true
	})
	gekko.MakeQuery2[gekko.Sprite, gekko.Transform](cmd).Map(func(eid gekko.EntityId, s *gekko.Sprite, tr *gekko.Transform) bool {
		res.sprites = append(res.sprites, spawnedSprite{
			id:         eid,
			sprite:     *s,
			transform:  *tr,
			components: cmd.GetAllComponents(eid),
		})
		return true
	})
	res.entities = cmd.EntityCount()
	return res
}

func TestSetup_SpawnsOneQuadPerShader(t *testing.T) {
	for _, tc := range []struct {
		name     ShaderName
		material gekko.Material2D
	}{
		{Water, WaterMaterial{Color: gekko.Gold}},
		{Goldcube, GoldcubeMaterial{Color: gekko.Gold}},
		{Circle, CircleMaterial{Color: gekko.Gold}},
		{HypnoticCircle, HypnoticCircleMaterial{Color: gekko.Gold}},
		{Crystal, CrystalMaterial{Color: gekko.Gold}},
		{Stars, StarsMaterial{Color: gekko.Gold}},
		{Smoke, SmokeMaterial{Color: gekko.Gold}},
		{Snow, SnowMaterial{Color: gekko.White}},
	} {
		t.Run(tc.name.String(), func(t *testing.T) {
			res := startDemo(t, Config{Name: tc.name})

			assert.Equal(t, tc.material, res.material)
			assert.Equal(t, mgl32.Vec3{1280, 720, 1}, res.transform.Scale)
			assert.Equal(t, 1, res.cameras)
			if tc.name == Snow {
				assert.Equal(t, 3, res.entities)
			} else {
				assert.Equal(t, 2, res.entities)
			}
		})
	}
}

func TestSetup_SmokeRustUsesLogo(t *testing.T) {
	res := startDemo(t, Config{Name: SmokeRust})

	m, ok := res.material.(SmokeRustMaterial)
	require.True(t, ok)
	assert.Equal(t, gekko.Gold, m.Color)
	assert.NotEmpty(t, m.ColorTexture)
	assert.Equal(t, mgl32.Vec3{720, 720, 1}, res.transform.Scale)
	assert.Equal(t, gekko.AlphaModeBlend, m.AlphaMode())
	assert.Empty(t, res.sprites)
	assert.Equal(t, 2, res.entities)
}

func TestSetup_SnowHasPhotoBehind(t *testing.T) {
	res := startDemo(t, Config{Name: Snow})

	require.Len(t, res.sprites, 1)
	photo := res.sprites[0]
	assert.NotEmpty(t, photo.sprite.Image)
	assert.Equal(t, gekko.White, photo.sprite.Color)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, photo.transform.Translation)
	assert.ElementsMatch(t, []any{photo.sprite, photo.transform}, photo.components)

	// spawned first and drawn behind the snow quad
	assert.Less(t, photo.id, res.quad)
	assert.Zero(t, res.transform.Translation.Z())
	assert.Less(t, photo.transform.Translation.Z(), res.transform.Translation.Z())
}

func TestModule_RegistersEveryMaterial(t *testing.T) {
	app := NewApp(Config{Name: Water})
	registry, ok := gekko.Resource[gekko.MaterialRegistry](app)
	require.True(t, ok)
	assert.Equal(t, 9, registry.Len())

	for _, m := range []gekko.Material2D{
		WaterMaterial{}, GoldcubeMaterial{}, CircleMaterial{}, HypnoticCircleMaterial{},
		CrystalMaterial{}, StarsMaterial{}, SmokeMaterial{}, SmokeRustMaterial{}, SnowMaterial{},
	} {
		assert.True(t, registry.Registered(m), "%T", m)
	}
}

func withoutFile(t *testing.T, path string) fstest.MapFS {
	t.Helper()
	root := fstest.MapFS{}
	err := fs.WalkDir(assets.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || p == path {
			return err
		}
		data, err := fs.ReadFile(assets.FS, p)
		if err != nil {
			return err
		}
		root[p] = &fstest.MapFile{Data: data}
		return nil
	})
	require.NoError(t, err)
	return root
}

func TestRun_MissingAssetsFail(t *testing.T) {
	for _, tc := range []struct {
		name    ShaderName
		missing string
	}{
		{SmokeRust, RustLogoPath},
		{Snow, PhotoPath},
		{Crystal, "shaders/crystal_material.wgsl"},
		// every material loads its shader, not only the selected one
		{Water, "shaders/stars_material.wgsl"},
	} {
		t.Run(tc.missing, func(t *testing.T) {
			app := NewApp(Config{Name: tc.name, Assets: withoutFile(t, tc.missing)})
			err := app.Run()
			assert.ErrorIs(t, err, fs.ErrNotExist)
			assert.ErrorContains(t, err, tc.missing)
		})
	}
}

func TestEmbeddedShadersMatchMaterials(t *testing.T) {
	for _, m := range []gekko.Material2D{
		WaterMaterial{}, GoldcubeMaterial{}, CircleMaterial{}, HypnoticCircleMaterial{},
		CrystalMaterial{}, StarsMaterial{}, SmokeMaterial{}, SmokeRustMaterial{}, SnowMaterial{},
	} {
		src, err := fs.ReadFile(assets.FS, m.FragmentShader())
		require.NoError(t, err, m.FragmentShader())

		refl, err := gekko.ReflectWGSL(gekko.ShaderAsset{Source: string(src)}.Composed())
		if err != nil {
			// the GPU driver validates what the reflector cannot
			t.Logf("%s: %v", m.FragmentShader(), err)
			continue
		}
		assert.True(t, refl.HasEntryPoint("fragment", ir.StageFragment), m.FragmentShader())

		material := refl.GroupBindings(gekko.MaterialBindGroup)
		require.NotEmpty(t, material, m.FragmentShader())
		assert.Equal(t, "material_color", material[0].Name)
		assert.Equal(t, gekko.BindingUniform, material[0].Kind)
		if _, ok := m.(SmokeRustMaterial); ok {
			require.Len(t, material, 3)
			assert.Equal(t, gekko.BindingTexture, material[1].Kind)
			assert.Equal(t, gekko.BindingSampler, material[2].Kind)
		} else {
			assert.Len(t, material, 1, m.FragmentShader())
		}
	}
}
