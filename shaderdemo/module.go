package shaderdemo

import (
	"fmt"

	gekko "github.com/gekko3d/shaderlab"
)

const (
	RustLogoPath = "textures/rust_logo.png"
	PhotoPath    = "textures/photo.png"
)

// Selected holds the shader chosen on the command line.
type Selected struct {
	Name ShaderName
}

// Module registers all nine materials and spawns the selected one at startup.
type Module struct {
	Name ShaderName
}

func (m Module) Install(app *gekko.App, cmd *gekko.Commands) {
	cmd.AddResources(&Selected{Name: m.Name})
	app.UseModules(
		gekko.Material2DModule[WaterMaterial]{},
		gekko.Material2DModule[GoldcubeMaterial]{},
		gekko.Material2DModule[CircleMaterial]{},
		gekko.Material2DModule[HypnoticCircleMaterial]{},
		gekko.Material2DModule[CrystalMaterial]{},
		gekko.Material2DModule[StarsMaterial]{},
		gekko.Material2DModule[SmokeMaterial]{},
		gekko.Material2DModule[SmokeRustMaterial]{},
		gekko.Material2DModule[SnowMaterial]{},
	)
	app.UseSystem(
		gekko.System(Setup).
			InStage(gekko.Startup),
	)
}

// Setup spawns the camera and the quad for the selected shader.
func Setup(cmd *gekko.Commands, selected *Selected, assets *gekko.AssetServer, materials *gekko.Materials) {
	cmd.AddEntity(gekko.Camera2D{})

	if err := spawnQuad(cmd, selected.Name, assets, materials); err != nil {
		cmd.Logger().Errorf("setup %s: %v", selected.Name, err)
		cmd.Exit(err)
	}
}

func spawnQuad(cmd *gekko.Commands, name ShaderName, assets *gekko.AssetServer, materials *gekko.Materials) error {
	transform := gekko.NewTransform().WithScale(1280, 720, 1)

	var material gekko.Material2D
	switch name {
	case Water:
		material = WaterMaterial{Color: gekko.Gold}
	case Goldcube:
		material = GoldcubeMaterial{Color: gekko.Gold}
	case Circle:
		material = CircleMaterial{Color: gekko.Gold}
	case HypnoticCircle:
		material = HypnoticCircleMaterial{Color: gekko.Gold}
	case Crystal:
		material = CrystalMaterial{Color: gekko.Gold}
	case Stars:
		material = StarsMaterial{Color: gekko.Gold}
	case Smoke:
		material = SmokeMaterial{Color: gekko.Gold}
	case SmokeRust:
		logo, err := assets.LoadTexture(RustLogoPath)
		if err != nil {
			return err
		}
		material = SmokeRustMaterial{Color: gekko.Gold, ColorTexture: logo}
		transform = gekko.NewTransform().WithScale(720, 720, 1)
	case Snow:
		photo, err := assets.LoadTexture(PhotoPath)
		if err != nil {
			return err
		}
		// background
		cmd.AddEntity(
			gekko.NewSprite(photo),
			gekko.NewTransform().WithTranslation(0, 0, -1),
		)
		material = SnowMaterial{Color: gekko.White}
	default:
		return fmt.Errorf("unknown shader %v", name)
	}

	id, err := materials.Add(material)
	if err != nil {
		return err
	}
	cmd.AddEntity(
		gekko.Mesh2D{Mesh: assets.AddMesh(gekko.Rectangle{}.Mesh())},
		gekko.MeshMaterial2D{Material: id},
		transform,
	)
	return nil
}
