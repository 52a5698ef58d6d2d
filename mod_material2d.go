package gekko

import (
	"fmt"
	"reflect"
)

type materialKind struct {
	typ        reflect.Type
	shaderPath string
	shader     AssetId
	alpha      AlphaMode2D
	layout     MaterialLayout

	// set when the shader does not fit the material; no pipeline is built
	err error
}

func (k *materialKind) String() string {
	return k.typ.String()
}

// MaterialRegistry knows every material type a Material2DModule was installed for.
type MaterialRegistry struct {
	kinds map[reflect.Type]*materialKind
	order []reflect.Type
}

func NewMaterialRegistry() *MaterialRegistry {
	return &MaterialRegistry{kinds: make(map[reflect.Type]*materialKind)}
}

func (r *MaterialRegistry) register(m Material2D) (*materialKind, error) {
	t := reflect.TypeOf(m)
	if k, ok := r.kinds[t]; ok {
		return k, nil
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("material %v must be a struct value type", t)
	}
	layout, err := reflectMaterialLayout(t)
	if err != nil {
		return nil, fmt.Errorf("material %v: %w", t, err)
	}
	k := &materialKind{
		typ:        t,
		shaderPath: m.FragmentShader(),
		alpha:      materialAlphaMode(m),
		layout:     layout,
	}
	r.kinds[t] = k
	r.order = append(r.order, t)
	return k, nil
}

func (r *MaterialRegistry) Registered(m Material2D) bool {
	_, ok := r.kinds[reflect.TypeOf(m)]
	return ok
}

func (r *MaterialRegistry) Len() int {
	return len(r.kinds)
}

// loadShader loads the kind's fragment file and checks it against the layout.
// A load failure is returned; a binding mismatch only disables the kind.
func (r *MaterialRegistry) loadShader(k *materialKind, assets *AssetServer, logger Logger) error {
	if k.shader != "" {
		return nil
	}
	id, err := assets.LoadShader(k.shaderPath)
	if err != nil {
		return err
	}
	k.shader = id

	shader, _ := assets.Shader(id)
	if shader.Reflection == nil {
		// wgpu validates the module when the pipeline is built
		return nil
	}
	if err := checkShaderBindings(shader.Reflection, k.layout); err != nil {
		k.err = fmt.Errorf("material %v with shader %q: %w", k.typ, k.shaderPath, err)
		logger.Errorf("%v", k.err)
	}
	return nil
}

type materialEntry struct {
	kind    *materialKind
	value   reflect.Value
	version uint
}

// Materials holds material instances by id.
type Materials struct {
	registry *MaterialRegistry
	entries  map[AssetId]*materialEntry
}

func NewMaterials(registry *MaterialRegistry) *Materials {
	return &Materials{
		registry: registry,
		entries:  make(map[AssetId]*materialEntry),
	}
}

// Add stores a copy of the material. The material type must have been
// registered with a Material2DModule.
func (m *Materials) Add(material Material2D) (AssetId, error) {
	kind, ok := m.registry.kinds[reflect.TypeOf(material)]
	if !ok {
		return "", fmt.Errorf("material type %T is not registered, install Material2DModule[%T]", material, material)
	}
	id := makeAssetId()
	m.entries[id] = &materialEntry{kind: kind, value: copyMaterial(material)}
	return id, nil
}

// Set replaces a material instance; the renderer re-uploads it.
func (m *Materials) Set(id AssetId, material Material2D) error {
	e, ok := m.entries[id]
	if !ok {
		return fmt.Errorf("unknown material %s", id)
	}
	if reflect.TypeOf(material) != e.kind.typ {
		return fmt.Errorf("material %s is a %v, not %T", id, e.kind.typ, material)
	}
	e.value = copyMaterial(material)
	e.version++
	return nil
}

func (m *Materials) Get(id AssetId) (Material2D, bool) {
	e, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	return e.value.Interface().(Material2D), true
}

func (m *Materials) Len() int {
	return len(m.entries)
}

func copyMaterial(material Material2D) reflect.Value {
	v := reflect.ValueOf(material)
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

// Material2DModule registers material type M with the 2D renderer and loads
// its fragment shader at startup.
type Material2DModule[M Material2D] struct{}

func (Material2DModule[M]) Install(app *App, cmd *Commands) {
	registry := ensureMaterialResources(app)

	var zero M
	kind, err := registry.register(zero)
	if err != nil {
		app.Logger().Errorf("%v", err)
		app.requestExit(err)
		return
	}
	app.Logger().Debugf("Registered material %v (shader %q, alpha %v)", kind, kind.shaderPath, kind.alpha)

	app.UseSystem(
		System(func(assets *AssetServer, registry *MaterialRegistry, cmd *Commands) {
			if err := registry.loadShader(kind, assets, cmd.Logger()); err != nil {
				cmd.Logger().Errorf("%v", err)
				cmd.Exit(err)
			}
		}).InStage(Startup),
	)
}

func ensureMaterialResources(app *App) *MaterialRegistry {
	if registry, ok := Resource[MaterialRegistry](app); ok {
		return registry
	}
	registry := NewMaterialRegistry()
	app.addResources(registry, NewMaterials(registry))
	return registry
}
