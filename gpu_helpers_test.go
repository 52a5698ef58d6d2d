package gekko

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGpuHelpers_WrapAndFilterModes(t *testing.T) {
	for in, want := range map[string]wgpu.AddressMode{
		"":       wgpu.AddressModeRepeat,
		"wrap":   wgpu.AddressModeRepeat,
		"Mirror": wgpu.AddressModeMirrorRepeat,
		"clamp":  wgpu.AddressModeClampToEdge,
	} {
		got, err := wgpuWrapMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := wgpuWrapMode("border")
	assert.Error(t, err)

	f, err := wgpuFilterMode("nearest")
	require.NoError(t, err)
	assert.Equal(t, wgpu.FilterModeNearest, f)
	f, err = wgpuFilterMode("")
	require.NoError(t, err)
	assert.Equal(t, wgpu.FilterModeLinear, f)
	_, err = wgpuFilterMode("cubic")
	assert.Error(t, err)
}

func TestGpuHelpers_ToBufferBytes(t *testing.T) {
	data, err := toBufferBytes(viewUniform{
		ViewProj:   mgl32.Ident4(),
		Resolution: mgl32.Vec2{1280, 720},
		Time:       1.5,
		DeltaTime:  0.25,
	})
	require.NoError(t, err)
	require.Len(t, data, 80)

	f := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])) }
	assert.Equal(t, float32(1), f(0))
	assert.Equal(t, float32(0), f(1))
	assert.Equal(t, float32(1), f(15))
	assert.Equal(t, float32(1280), f(16))
	assert.Equal(t, float32(720), f(17))
	assert.Equal(t, float32(1.5), f(18))
	assert.Equal(t, float32(0.25), f(19))
}

func TestGpuHelpers_ToBufferBytesRejectsWideTypes(t *testing.T) {
	_, err := toBufferBytes(struct{ X float64 }{})
	assert.ErrorContains(t, err, "unsupported uniform type")

	var nilPtr *LinearRgba
	_, err = toBufferBytes(nilPtr)
	assert.Error(t, err)

	data, err := toBufferBytes(&LinearRgba{1, 0, 0, 1})
	require.NoError(t, err)
	assert.Len(t, data, 16)
}

func TestGpuHelpers_BytesPerPixel(t *testing.T) {
	bpp, err := wgpuBytesPerPixel(TextureFormatRGBA8UnormSrgb)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), bpp)

	bpp, err = wgpuBytesPerPixel(TextureFormatR8Uint)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), bpp)

	_, err = wgpuBytesPerPixel(TextureFormat(wgpu.TextureFormatDepth32Float))
	assert.Error(t, err)
}

func TestPickSurfaceFormat(t *testing.T) {
	_, err := pickSurfaceFormat(nil)
	assert.ErrorIs(t, err, errSurfaceUnsupported)

	format, err := pickSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb})
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, format)

	format, err = pickSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA16Float, wgpu.TextureFormatBGRA8Unorm})
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureFormatRGBA16Float, format)
}
