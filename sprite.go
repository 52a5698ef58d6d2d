package gekko

import (
	"github.com/gekko3d/shaderlab/shaders"
)

// Sprite draws an image at its natural pixel size. A zero Color means white.
type Sprite struct {
	Image AssetId
	Color LinearRgba
}

func NewSprite(image AssetId) Sprite {
	return Sprite{Image: image, Color: White}
}

type SpriteMaterial struct {
	Color LinearRgba `gekko:"uniform" binding:"0"`
	Image AssetId    `gekko:"texture" binding:"1" sampler:"2" mode:"clamp"`
}

func (SpriteMaterial) FragmentShader() string {
	return EmbeddedPrefix + shaders.SpritePath
}

func (SpriteMaterial) AlphaMode() AlphaMode2D {
	return AlphaModeBlend
}

// spriteMeshed marks sprites that already got their quad and material.
type spriteMeshed struct{}

// SpriteModule turns Sprite entities into textured quads drawn by the
// material pipeline.
type SpriteModule struct{}

func (SpriteModule) Install(app *App, cmd *Commands) {
	app.UseModules(Material2DModule[SpriteMaterial]{})
	app.UseSystem(
		System(spriteSystem).
			InStage(PreRender).
			RunAlways(),
	)
}

func spriteSystem(assets *AssetServer, materials *Materials, cmd *Commands) {
	MakeQuery2[Sprite, spriteMeshed](cmd).Map(func(eid EntityId, sprite *Sprite, meshed *spriteMeshed) bool {
		if meshed != nil {
			return true
		}
		tex, ok := assets.Texture(sprite.Image)
		if !ok {
			cmd.Logger().Warnf("sprite %d: unknown image %s", eid, sprite.Image)
			cmd.AddComponents(eid, spriteMeshed{})
			return true
		}
		color := sprite.Color
		if color == (LinearRgba{}) {
			color = White
		}
		material, err := materials.Add(SpriteMaterial{Color: color, Image: sprite.Image})
		if err != nil {
			cmd.Logger().Errorf("sprite %d: %v", eid, err)
			cmd.AddComponents(eid, spriteMeshed{})
			return true
		}
		w, h := tex.Size()
		mesh := assets.AddMesh(Rectangle{Width: float32(w), Height: float32(h)}.Mesh())
		cmd.AddComponents(eid, Mesh2D{Mesh: mesh}, MeshMaterial2D{Material: material}, spriteMeshed{})
		return true
	}, spriteMeshed{})
}
