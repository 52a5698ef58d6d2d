package shaderdemo

import (
	gekko "github.com/gekko3d/shaderlab"
)

type WaterMaterial struct {
	Color gekko.LinearRgba `gekko:"uniform" binding:"0"`
}

func (WaterMaterial) FragmentShader() string { return "shaders/water_material.wgsl" }

type GoldcubeMaterial struct {
	Color gekko.LinearRgba `gekko:"uniform" binding:"0"`
}

func (GoldcubeMaterial) FragmentShader() string { return "shaders/gold_cube_material.wgsl" }

type CircleMaterial struct {
	Color gekko.LinearRgba `gekko:"uniform" binding:"0"`
}

func (CircleMaterial) FragmentShader() string { return "shaders/circle_material.wgsl" }

type HypnoticCircleMaterial struct {
	Color gekko.LinearRgba `gekko:"uniform" binding:"0"`
}

func (HypnoticCircleMaterial) FragmentShader() string { return "shaders/hypnotic_circle_material.wgsl" }

type CrystalMaterial struct {
	Color gekko.LinearRgba `gekko:"uniform" binding:"0"`
}

func (CrystalMaterial) FragmentShader() string { return "shaders/crystal_material.wgsl" }

type StarsMaterial struct {
	Color gekko.LinearRgba `gekko:"uniform" binding:"0"`
}

func (StarsMaterial) FragmentShader() string { return "shaders/stars_material.wgsl" }

type SmokeMaterial struct {
	Color gekko.LinearRgba `gekko:"uniform" binding:"0"`
}

func (SmokeMaterial) FragmentShader() string { return "shaders/smoke_material.wgsl" }

// SmokeRustMaterial blends a smoke effect over an optional colour texture.
type SmokeRustMaterial struct {
	Color        gekko.LinearRgba `gekko:"uniform" binding:"0"`
	ColorTexture gekko.AssetId    `gekko:"texture" binding:"1" sampler:"2"`
}

func (SmokeRustMaterial) FragmentShader() string { return "shaders/smoke_rust_material.wgsl" }

func (SmokeRustMaterial) AlphaMode() gekko.AlphaMode2D { return gekko.AlphaModeBlend }

type SnowMaterial struct {
	Color gekko.LinearRgba `gekko:"uniform" binding:"0"`
}

func (SnowMaterial) FragmentShader() string { return "shaders/snow_material.wgsl" }

func (SnowMaterial) AlphaMode() gekko.AlphaMode2D { return gekko.AlphaModeBlend }
