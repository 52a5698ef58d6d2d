package gekko

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

type viewUniform struct {
	ViewProj   mgl32.Mat4
	Resolution mgl32.Vec2
	Time       float32
	DeltaTime  float32
}

type meshUniform struct {
	Model mgl32.Mat4
}

var DefaultClearColor = SrgbHex("#2B2C2F")

// Render2DModule draws every entity with Transform, Mesh2D and MeshMaterial2D
// through its material's pipeline, seen by the first Camera2D.
type Render2DModule struct {
	Width  int
	Height int
	Title  string
}

func (mod Render2DModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, string(RendererRender2D))
	if app.exitRequested {
		// an earlier module failed, do not open a window for nothing
		return
	}
	ensureWindowResource(app, mod.Width, mod.Height, mod.Title)
	ws, ok := Resource[WindowState](app)
	if !ok {
		return
	}
	if !app.hasResource(reflect.TypeOf(Time{})) {
		app.UseModules(TimeModule{})
	}
	if !app.hasResource(reflect.TypeOf(AssetServer{})) {
		app.UseModules(AssetServerModule{})
	}

	gpuState, err := createGpuState(ws)
	if err != nil {
		app.Logger().Errorf("renderer: %v", err)
		app.requestExit(err)
		return
	}
	app.addResources(gpuState)

	rs, err := newRender2DState(gpuState)
	if err != nil {
		app.Logger().Errorf("renderer: %v", err)
		app.requestExit(err)
		return
	}
	app.addResources(rs)

	app.UseModules(SpriteModule{})
	app.UseSystem(
		System(render2DSystem).
			InStage(Render).
			RunAlways(),
	)
	w, h := gpuState.SurfaceSize()
	app.Logger().Infof("Renderer %s ready (%dx%d, format %v)", RendererRender2D, w, h, gpuState.surfaceConfig.Format)
}

type gpuPipeline struct {
	pipeline       *wgpu.RenderPipeline
	materialLayout *wgpu.BindGroupLayout
	err            error
}

type gpuMesh struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32
}

type gpuModel struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

type gpuMaterial struct {
	version   uint
	buffers   []*wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

func (m *gpuMaterial) release() {
	m.bindGroup.Release()
	for _, b := range m.buffers {
		b.Release()
	}
}

type samplerKey struct {
	filter wgpu.FilterMode
	wrap   wgpu.AddressMode
}

type render2DState struct {
	gpu *GpuState

	viewLayout    *wgpu.BindGroupLayout
	meshLayout    *wgpu.BindGroupLayout
	viewBuffer    *wgpu.Buffer
	viewBindGroup *wgpu.BindGroup
	vertexLayout  wgpu.VertexBufferLayout
	whiteTexture  *wgpu.TextureView

	pipelines map[*materialKind]*gpuPipeline
	meshes    map[AssetId]*gpuMesh
	models    map[EntityId]*gpuModel
	materials map[AssetId]*gpuMaterial
	textures  map[AssetId]*wgpu.TextureView
	samplers  map[samplerKey]*wgpu.Sampler

	// errors are logged once, not every frame
	reported map[string]struct{}
}

func uniformLayoutEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
	}
}

func newRender2DState(gpuState *GpuState) (*render2DState, error) {
	rs := &render2DState{
		gpu:       gpuState,
		pipelines: make(map[*materialKind]*gpuPipeline),
		meshes:    make(map[AssetId]*gpuMesh),
		models:    make(map[EntityId]*gpuModel),
		materials: make(map[AssetId]*gpuMaterial),
		textures:  make(map[AssetId]*wgpu.TextureView),
		samplers:  make(map[samplerKey]*wgpu.Sampler),
		reported:  make(map[string]struct{}),
	}

	var err error
	if rs.vertexLayout, err = createVertexBufferLayout(Vertex2D{}); err != nil {
		return nil, err
	}

	device := gpuState.device
	if rs.viewLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "View BGL",
		Entries: []wgpu.BindGroupLayoutEntry{uniformLayoutEntry(0)},
	}); err != nil {
		return nil, fmt.Errorf("view layout: %w", err)
	}
	if rs.meshLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Mesh BGL",
		Entries: []wgpu.BindGroupLayoutEntry{uniformLayoutEntry(0)},
	}); err != nil {
		return nil, fmt.Errorf("mesh layout: %w", err)
	}

	viewBytes, err := toBufferBytes(viewUniform{ViewProj: mgl32.Ident4()})
	if err != nil {
		return nil, err
	}
	if rs.viewBuffer, err = createBuffer("View", viewBytes, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, gpuState); err != nil {
		return nil, err
	}
	if rs.viewBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "View BG",
		Layout: rs.viewLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: rs.viewBuffer, Size: wgpu.WholeSize},
		},
	}); err != nil {
		return nil, fmt.Errorf("view bind group: %w", err)
	}

	white := TextureAsset{
		texels: []uint8{255, 255, 255, 255},
		width:  1,
		height: 1,
		format: TextureFormatRGBA8UnormSrgb,
	}
	if rs.whiteTexture, err = createTextureFromAsset(&white, gpuState); err != nil {
		return nil, fmt.Errorf("white texture: %w", err)
	}
	return rs, nil
}

func (rs *render2DState) release() {
	for _, m := range rs.models {
		m.bindGroup.Release()
		m.buffer.Release()
	}
	for _, m := range rs.materials {
		m.release()
	}
	for _, m := range rs.meshes {
		m.vertexBuffer.Release()
		m.indexBuffer.Release()
	}
	for _, p := range rs.pipelines {
		if p.err == nil {
			p.pipeline.Release()
			p.materialLayout.Release()
		}
	}
	for _, t := range rs.textures {
		t.Release()
	}
	for _, s := range rs.samplers {
		s.Release()
	}
	rs.whiteTexture.Release()
	rs.viewBindGroup.Release()
	rs.viewBuffer.Release()
	rs.meshLayout.Release()
	rs.viewLayout.Release()
}

func (rs *render2DState) reportOnce(logger Logger, err error) {
	msg := err.Error()
	if _, ok := rs.reported[msg]; ok {
		return
	}
	rs.reported[msg] = struct{}{}
	logger.Errorf("render: %s", msg)
}

type drawItem struct {
	entity   EntityId
	z        float32
	model    mgl32.Mat4
	mesh     AssetId
	material AssetId
}

// collectDrawItems returns drawable entities back to front: ascending Z, then entity id.
func collectDrawItems(cmd *Commands) []drawItem {
	var items []drawItem
	MakeQuery3[Transform, Mesh2D, MeshMaterial2D](cmd).Map(
		func(eid EntityId, t *Transform, mesh *Mesh2D, mat *MeshMaterial2D) bool {
			items = append(items, drawItem{
				entity:   eid,
				z:        t.Translation.Z(),
				model:    t.Matrix(),
				mesh:     mesh.Mesh,
				material: mat.Material,
			})
			return true
		})
	slices.SortFunc(items, func(a, b drawItem) int {
		if c := cmp.Compare(a.z, b.z); c != 0 {
			return c
		}
		return cmp.Compare(a.entity, b.entity)
	})
	return items
}

// findCamera picks the Camera2D with the lowest entity id.
func findCamera(cmd *Commands) (camera Camera2D, position mgl32.Vec3, found bool) {
	var best EntityId
	MakeQuery2[Camera2D, Transform](cmd).Map(func(eid EntityId, c *Camera2D, t *Transform) bool {
		if found && eid > best {
			return true
		}
		best, camera, found = eid, *c, true
		position = mgl32.Vec3{}
		if t != nil {
			position = t.Translation
		}
		return true
	}, Transform{})
	return
}

func render2DSystem(ws *WindowState, gpuState *GpuState, rs *render2DState, assets *AssetServer, materials *Materials, t *Time, cmd *Commands) {
	if ws.resized {
		ws.resized = false
		if gpuState.resize(ws.FramebufferSize()) {
			cmd.Logger().Debugf("Surface resized to %dx%d", gpuState.surfaceConfig.Width, gpuState.surfaceConfig.Height)
		}
	}
	width, height := gpuState.SurfaceSize()

	camera, camPos, hasCamera := findCamera(cmd)
	clear := DefaultClearColor
	if hasCamera && camera.ClearColor != (LinearRgba{}) {
		clear = camera.ClearColor
	}

	view := viewUniform{
		ViewProj:   camera.ViewProjection(float32(width), float32(height), camPos),
		Resolution: mgl32.Vec2{float32(width), float32(height)},
		Time:       t.ElapsedSeconds(),
		DeltaTime:  t.DeltaSeconds(),
	}
	viewBytes, err := toBufferBytes(view)
	if err != nil {
		rs.reportOnce(cmd.Logger(), err)
		return
	}
	if err := gpuState.queue.WriteBuffer(rs.viewBuffer, 0, viewBytes); err != nil {
		rs.reportOnce(cmd.Logger(), err)
		return
	}

	var items []drawItem
	if hasCamera {
		items = collectDrawItems(cmd)
	}

	nextTexture, err := gpuState.surface.GetCurrentTexture()
	if err != nil {
		cmd.Logger().Warnf("render: skipping frame: %v", err)
		return
	}
	defer nextTexture.Release()
	frameView, err := nextTexture.CreateView(nil)
	if err != nil {
		rs.reportOnce(cmd.Logger(), err)
		return
	}
	defer frameView.Release()

	encoder, err := gpuState.device.CreateCommandEncoder(nil)
	if err != nil {
		rs.reportOnce(cmd.Logger(), err)
		return
	}
	defer encoder.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       frameView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: float64(clear.R), G: float64(clear.G), B: float64(clear.B), A: float64(clear.A)},
			},
		},
	})
	defer renderPass.Release()

	seen := make(map[EntityId]struct{}, len(items))
	for _, item := range items {
		seen[item.entity] = struct{}{}
		if err := rs.draw(renderPass, item, assets, materials, cmd.Logger()); err != nil {
			rs.reportOnce(cmd.Logger(), err)
		}
	}

	if err := renderPass.End(); err != nil {
		rs.reportOnce(cmd.Logger(), err)
		return
	}
	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		rs.reportOnce(cmd.Logger(), err)
		return
	}
	defer cmdBuffer.Release()

	gpuState.queue.Submit(cmdBuffer)
	gpuState.surface.Present()

	rs.dropModels(seen)
}

func (rs *render2DState) draw(pass *wgpu.RenderPassEncoder, item drawItem, assets *AssetServer, materials *Materials, logger Logger) error {
	entry, ok := materials.entries[item.material]
	if !ok {
		return fmt.Errorf("entity %d: unknown material %s", item.entity, item.material)
	}
	if entry.kind.err != nil {
		return entry.kind.err
	}
	pipe, err := rs.pipeline(entry.kind, assets)
	if err != nil {
		return err
	}
	mesh, err := rs.mesh(item.mesh, assets)
	if err != nil {
		return fmt.Errorf("entity %d: %w", item.entity, err)
	}
	model, err := rs.model(item.entity, item.model)
	if err != nil {
		return fmt.Errorf("entity %d: %w", item.entity, err)
	}
	mat, err := rs.material(item.material, entry, pipe, assets, logger)
	if err != nil {
		return fmt.Errorf("material %s: %w", item.material, err)
	}

	pass.SetPipeline(pipe.pipeline)
	pass.SetBindGroup(ViewBindGroup, rs.viewBindGroup, nil)
	pass.SetBindGroup(MeshBindGroup, model.bindGroup, nil)
	pass.SetBindGroup(MaterialBindGroup, mat.bindGroup, nil)
	pass.SetVertexBuffer(0, mesh.vertexBuffer, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(mesh.indexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	pass.DrawIndexed(mesh.indexCount, 1, 0, 0, 0)
	return nil
}

func blendState(mode AlphaMode2D) *wgpu.BlendState {
	if mode != AlphaModeBlend {
		return nil
	}
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// pipeline builds the material kind's pipeline once. Failures are cached too.
func (rs *render2DState) pipeline(kind *materialKind, assets *AssetServer) (*gpuPipeline, error) {
	if p, ok := rs.pipelines[kind]; ok {
		return p, p.err
	}
	if kind.shader == "" {
		return nil, fmt.Errorf("material %v: shader %q not loaded", kind, kind.shaderPath)
	}
	p := &gpuPipeline{}
	p.pipeline, p.materialLayout, p.err = rs.createPipeline(kind, assets)
	if p.err != nil {
		p.err = fmt.Errorf("material %v: %w", kind, p.err)
	}
	rs.pipelines[kind] = p
	return p, p.err
}

func (rs *render2DState) createPipeline(kind *materialKind, assets *AssetServer) (*wgpu.RenderPipeline, *wgpu.BindGroupLayout, error) {
	device := rs.gpu.device
	shader, ok := assets.Shader(kind.shader)
	if !ok {
		return nil, nil, fmt.Errorf("unknown shader %s", kind.shader)
	}

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          shader.Path,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shader.Composed()},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("shader %q: %w", shader.Path, err)
	}
	defer module.Release()

	materialLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   kind.String(),
		Entries: kind.layout.layoutEntries(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("material layout: %w", err)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            kind.String(),
		BindGroupLayouts: []*wgpu.BindGroupLayout{rs.viewLayout, rs.meshLayout, materialLayout},
	})
	if err != nil {
		materialLayout.Release()
		return nil, nil, fmt.Errorf("pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  kind.String(),
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vertex",
			Buffers:    []wgpu.VertexBufferLayout{rs.vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fragment",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    rs.gpu.surfaceConfig.Format,
					Blend:     blendState(kind.alpha),
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		materialLayout.Release()
		return nil, nil, fmt.Errorf("render pipeline: %w", err)
	}
	return pipeline, materialLayout, nil
}

func (rs *render2DState) mesh(id AssetId, assets *AssetServer) (*gpuMesh, error) {
	if m, ok := rs.meshes[id]; ok {
		return m, nil
	}
	asset, ok := assets.Mesh(id)
	if !ok {
		return nil, fmt.Errorf("unknown mesh %s", id)
	}
	vertexBytes, err := toBufferBytes(asset.vertices)
	if err != nil {
		return nil, err
	}
	indexBytes, err := toBufferBytes(asset.indices)
	if err != nil {
		return nil, err
	}
	// buffer sizes must be a multiple of 4
	if pad := len(indexBytes) % 4; pad != 0 {
		indexBytes = append(indexBytes, make([]byte, 4-pad)...)
	}

	vb, err := createBuffer("Vertex Buffer", vertexBytes, wgpu.BufferUsageVertex, rs.gpu)
	if err != nil {
		return nil, err
	}
	ib, err := createBuffer("Index Buffer", indexBytes, wgpu.BufferUsageIndex, rs.gpu)
	if err != nil {
		vb.Release()
		return nil, err
	}
	m := &gpuMesh{vertexBuffer: vb, indexBuffer: ib, indexCount: uint32(len(asset.indices))}
	rs.meshes[id] = m
	return m, nil
}

func (rs *render2DState) model(eid EntityId, matrix mgl32.Mat4) (*gpuModel, error) {
	data, err := toBufferBytes(meshUniform{Model: matrix})
	if err != nil {
		return nil, err
	}
	if m, ok := rs.models[eid]; ok {
		return m, rs.gpu.queue.WriteBuffer(m.buffer, 0, data)
	}

	buf, err := createBuffer(fmt.Sprintf("Mesh %d", eid), data, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, rs.gpu)
	if err != nil {
		return nil, err
	}
	bg, err := rs.gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: rs.meshLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		buf.Release()
		return nil, fmt.Errorf("mesh bind group: %w", err)
	}
	m := &gpuModel{buffer: buf, bindGroup: bg}
	rs.models[eid] = m
	return m, nil
}

// dropModels frees per-entity buffers of entities no longer drawn.
func (rs *render2DState) dropModels(seen map[EntityId]struct{}) {
	for eid, m := range rs.models {
		if _, ok := seen[eid]; ok {
			continue
		}
		m.bindGroup.Release()
		m.buffer.Release()
		delete(rs.models, eid)
	}
}

func (rs *render2DState) material(id AssetId, entry *materialEntry, pipe *gpuPipeline, assets *AssetServer, logger Logger) (*gpuMaterial, error) {
	gm, ok := rs.materials[id]
	if ok && gm.version == entry.version {
		return gm, nil
	}
	if ok {
		gm.release()
		delete(rs.materials, id)
	}

	gm = &gpuMaterial{version: entry.version}
	var entries []wgpu.BindGroupEntry
	for _, b := range entry.kind.layout.bindings {
		switch b.kind {
		case BindingUniform:
			data, err := b.uniformBytes(entry.value)
			if err != nil {
				gm.releaseBuffers()
				return nil, err
			}
			buf, err := createBuffer(b.name, data, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, rs.gpu)
			if err != nil {
				gm.releaseBuffers()
				return nil, err
			}
			gm.buffers = append(gm.buffers, buf)
			entries = append(entries, wgpu.BindGroupEntry{Binding: b.binding, Buffer: buf, Size: wgpu.WholeSize})

		case BindingTexture:
			entries = append(entries, wgpu.BindGroupEntry{
				Binding:     b.binding,
				TextureView: rs.textureView(b.textureId(entry.value), assets, logger),
				Size:        wgpu.WholeSize,
			})
			if b.hasSampler {
				sampler, err := rs.sampler(b.filter, b.wrap)
				if err != nil {
					gm.releaseBuffers()
					return nil, err
				}
				entries = append(entries, wgpu.BindGroupEntry{Binding: b.sampler, Sampler: sampler, Size: wgpu.WholeSize})
			}
		}
	}

	bg, err := rs.gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   entry.kind.String(),
		Layout:  pipe.materialLayout,
		Entries: entries,
	})
	if err != nil {
		gm.releaseBuffers()
		return nil, fmt.Errorf("material bind group: %w", err)
	}
	gm.bindGroup = bg
	rs.materials[id] = gm
	return gm, nil
}

func (m *gpuMaterial) releaseBuffers() {
	for _, b := range m.buffers {
		b.Release()
	}
	m.buffers = nil
}

// textureView uploads a texture asset on first use. Empty or unusable ids bind white.
func (rs *render2DState) textureView(id AssetId, assets *AssetServer, logger Logger) *wgpu.TextureView {
	if id == "" {
		return rs.whiteTexture
	}
	if v, ok := rs.textures[id]; ok {
		return v
	}
	asset, ok := assets.Texture(id)
	if !ok {
		rs.reportOnce(logger, fmt.Errorf("unknown texture %s, using white", id))
		return rs.whiteTexture
	}
	view, err := createTextureFromAsset(&asset, rs.gpu)
	if err != nil {
		rs.reportOnce(logger, fmt.Errorf("texture %s: %w, using white", id, err))
		return rs.whiteTexture
	}
	rs.textures[id] = view
	return view
}

func (rs *render2DState) sampler(filter wgpu.FilterMode, wrap wgpu.AddressMode) (*wgpu.Sampler, error) {
	key := samplerKey{filter: filter, wrap: wrap}
	if s, ok := rs.samplers[key]; ok {
		return s, nil
	}
	s, err := createSampler(filter, wrap, rs.gpu)
	if err != nil {
		return nil, err
	}
	rs.samplers[key] = s
	return s, nil
}
