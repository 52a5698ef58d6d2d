package gekko

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/shaderlab/shaders"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type AssetId string

type TextureFormat uint32

const (
	TextureFormatR8Uint         = TextureFormat(wgpu.TextureFormatR8Uint)
	TextureFormatRGBA8Unorm     = TextureFormat(wgpu.TextureFormatRGBA8Unorm)
	TextureFormatRGBA8UnormSrgb = TextureFormat(wgpu.TextureFormatRGBA8UnormSrgb)
	TextureFormatRGBA8Uint      = TextureFormat(wgpu.TextureFormatRGBA8Uint)
)

// Paths with this prefix resolve against the renderer's built-in shaders.
const EmbeddedPrefix = "embedded://"

type AssetServer struct {
	root   fs.FS
	logger Logger

	meshes   map[AssetId]MeshAsset
	textures map[AssetId]TextureAsset
	shaders  map[AssetId]ShaderAsset
	byPath   map[string]AssetId
}

// AssetServerModule installs the AssetServer. Root defaults to the working directory.
type AssetServerModule struct {
	Root fs.FS
}

type TextureAsset struct {
	version uint
	texels  []uint8
	width   uint32
	height  uint32
	format  TextureFormat
}

func (t TextureAsset) Size() (uint32, uint32) { return t.width, t.height }

// ShaderAsset is a material fragment file. Reflection is nil when naga could
// not process the composed module.
type ShaderAsset struct {
	Path       string
	Source     string
	Reflection *ShaderReflection
}

// Composed is the WGSL handed to the GPU: the mesh prelude followed by the fragment file.
func (s ShaderAsset) Composed() string {
	return shaders.Mesh2DPrelude + "\n" + s.Source
}

func NewAssetServer(root fs.FS, logger Logger) *AssetServer {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &AssetServer{
		root:     root,
		logger:   logger,
		meshes:   make(map[AssetId]MeshAsset),
		textures: make(map[AssetId]TextureAsset),
		shaders:  make(map[AssetId]ShaderAsset),
		byPath:   make(map[string]AssetId),
	}
}

func (mod AssetServerModule) Install(app *App, cmd *Commands) {
	root := mod.Root
	if root == nil {
		root = os.DirFS(".")
	}
	app.addResources(NewAssetServer(root, app.Logger()))
}

func (server *AssetServer) readFile(path string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(path, EmbeddedPrefix); ok {
		return fs.ReadFile(shaders.FS, rest)
	}
	return fs.ReadFile(server.root, path)
}

// LoadShader reads a WGSL fragment file. Loading the same path twice returns the same id.
func (server *AssetServer) LoadShader(path string) (AssetId, error) {
	key := "shader:" + path
	if id, ok := server.byPath[key]; ok {
		return id, nil
	}

	data, err := server.readFile(path)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", path, err)
	}

	asset := ShaderAsset{Path: path, Source: string(data)}
	refl, err := ReflectWGSL(asset.Composed())
	if err != nil {
		server.logger.Warnf("shader %q: reflection unavailable: %v", path, err)
	} else {
		asset.Reflection = refl
	}

	id := makeAssetId()
	server.shaders[id] = asset
	server.byPath[key] = id
	server.logger.Debugf("Loaded shader %q as %s", path, id)
	return id, nil
}

// LoadTexture decodes an image into RGBA8 sRGB texels with straight alpha. Loading the same path twice returns the same id.
func (server *AssetServer) LoadTexture(path string) (AssetId, error) {
	key := "texture:" + path
	if id, ok := server.byPath[key]; ok {
		return id, nil
	}

	data, err := server.readFile(path)
	if err != nil {
		return "", fmt.Errorf("load texture %q: %w", path, err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("load texture %q: %w", path, err)
	}

	pixels := toNRGBA(img)
	bounds := pixels.Bounds()
	id := server.CreateTexture(pixels.Pix, uint32(bounds.Dx()), uint32(bounds.Dy()), TextureFormatRGBA8UnormSrgb)
	server.byPath[key] = id
	server.logger.Debugf("Loaded %s texture %q (%dx%d) as %s", format, path, bounds.Dx(), bounds.Dy(), id)
	return id, nil
}

// toNRGBA keeps straight alpha; blending multiplies by alpha on the GPU.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}
	bounds := img.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(n, n.Bounds(), img, bounds.Min, draw.Src)
	return n
}

func (server *AssetServer) CreateTexture(texels []uint8, texWidth uint32, texHeight uint32, format TextureFormat) AssetId {
	id := makeAssetId()

	server.textures[id] = TextureAsset{
		version: 0,
		texels:  texels,
		width:   texWidth,
		height:  texHeight,
		format:  format,
	}

	return id
}

func (server *AssetServer) AddMesh(mesh MeshAsset) AssetId {
	id := makeAssetId()
	server.meshes[id] = mesh
	return id
}

func (server *AssetServer) Shader(id AssetId) (ShaderAsset, bool) {
	s, ok := server.shaders[id]
	return s, ok
}

func (server *AssetServer) Texture(id AssetId) (TextureAsset, bool) {
	t, ok := server.textures[id]
	return t, ok
}

func (server *AssetServer) Mesh(id AssetId) (MeshAsset, bool) {
	m, ok := server.meshes[id]
	return m, ok
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
