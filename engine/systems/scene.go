package systems

import (
	"encoding/binary"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"github.com/spaghettifunk/geomstudio/engine/resources"
)

const objectSpacing float32 = 3

/**
 * @brief One scene instance: its SceneObject registry, lighting,
 * environment and orb field. Everything the update rules and the animation
 * engine touch lives here, so scenes never share mutable state.
 */
type Scene struct {
	ID          uuid.UUID
	Config      resources.SceneConfig
	Objects     []*metadata.SceneObject
	Lighting    metadata.Lighting
	Environment metadata.Environment
	Orbs        *OrbField
}

// Dispose releases every object and the orb field.
func (s *Scene) Dispose() {
	for _, o := range s.Objects {
		o.Dispose()
	}
	s.Objects = nil
	s.Orbs.Dispose()
	s.Orbs = nil
}

type SceneSystemConfig struct {
	/** @brief The maximum number of live scenes. */
	MaxSceneCount uint16
	/** @brief Orbs per scene. Zero disables the orb field. */
	OrbCount int
	/** @brief Options for solid wireframes. */
	Wireframe WireframeOptions
}

/**
 * @brief Creates, updates and tears down scenes. Owns no geometry of its
 * own; everything is built through the geometry and hyperframe systems.
 */
type SceneSystem struct {
	Config     *SceneSystemConfig
	geometry   *GeometrySystem
	hyperframe *HyperframeSystem
	materials  *MaterialSystem
	scenes     map[uuid.UUID]*Scene
}

func NewSceneSystem(config *SceneSystemConfig, gs *GeometrySystem, hs *HyperframeSystem, ms *MaterialSystem) (*SceneSystem, error) {
	if config.MaxSceneCount == 0 {
		err := fmt.Errorf("func NewSceneSystem - config.MaxSceneCount must be > 0")
		core.LogError("%s", err)
		return nil, err
	}
	return &SceneSystem{
		Config:     config,
		geometry:   gs,
		hyperframe: hs,
		materials:  ms,
		scenes:     make(map[uuid.UUID]*Scene),
	}, nil
}

/**
 * @brief Builds a scene from cfg. Geometry and hyperframe errors are
 * returned unchanged so the caller can retry with another object type.
 */
func (ss *SceneSystem) Create(cfg resources.SceneConfig) (*Scene, error) {
	if len(ss.scenes) >= int(ss.Config.MaxSceneCount) {
		err := fmt.Errorf("func SceneSystem.Create - maximum of %d scenes reached", ss.Config.MaxSceneCount)
		core.LogError("%s", err)
		return nil, err
	}
	cfg = cfg.Normalized()
	objects, err := ss.buildObjects(cfg)
	if err != nil {
		return nil, err
	}

	id := core.NewInstanceID()
	s := &Scene{
		ID:       id,
		Config:   cfg,
		Objects:  objects,
		Lighting: metadata.DefaultLighting(),
	}
	if ss.Config.OrbCount > 0 {
		s.Orbs = NewOrbField(ss.Config.OrbCount, cfg.EnvironmentHue, binary.LittleEndian.Uint64(id[:8]))
	}
	if err := ss.applyAll(s, cfg); err != nil {
		core.LogWarn("scene %s created with invalid parameters: %s", id, err.Error())
	}
	ss.scenes[id] = s
	core.LogInfo("scene %s created: %d x %s", id, len(objects), cfg.ObjectType)
	return s, nil
}

func (ss *SceneSystem) Get(id uuid.UUID) (*Scene, error) {
	s, ok := ss.scenes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownScene, id)
	}
	return s, nil
}

// Scenes returns the live scenes in no particular order.
func (ss *SceneSystem) Scenes() []*Scene {
	return slices.Collect(maps.Values(ss.scenes))
}

func (ss *SceneSystem) Destroy(id uuid.UUID) error {
	s, ok := ss.scenes[id]
	if !ok {
		err := fmt.Errorf("%w: %s", core.ErrUnknownScene, id)
		core.LogError("%s", err)
		return err
	}
	s.Dispose()
	delete(ss.scenes, id)
	core.LogDebug("scene %s destroyed", id)
	return nil
}

/**
 * @brief Applies cfg to s. A change of object type or count rebuilds the
 * objects; on a build error the previous objects stay in place. Every other
 * parameter goes through its update rule. Invalid colors are reported but
 * do not stop the remaining rules.
 */
func (ss *SceneSystem) Apply(s *Scene, cfg resources.SceneConfig) (bool, error) {
	if s == nil {
		return false, core.ErrSceneNotInitialized
	}
	cfg = cfg.Normalized()
	old := s.Config
	if cfg.ObjectType != old.ObjectType || cfg.ObjectCount != old.ObjectCount {
		objects, err := ss.buildObjects(cfg)
		if err != nil {
			return false, err
		}
		for _, o := range s.Objects {
			o.Dispose()
		}
		s.Objects = objects
		s.Config.ObjectType = cfg.ObjectType
		s.Config.ObjectCount = cfg.ObjectCount
		core.LogInfo("scene %s rebuilt: %d x %s", s.ID, len(objects), cfg.ObjectType)
		return true, ss.applyAll(s, cfg)
	}

	ms := ss.materials
	var errs []error
	if cfg.Scale != old.Scale {
		ms.SetScale(s, cfg.Scale)
	}
	if cfg.Metalness != old.Metalness {
		ms.SetShininess(s, cfg.Metalness)
	}
	if cfg.BaseColor != old.BaseColor {
		errs = append(errs, ms.SetBaseColor(s, cfg.BaseColor))
	}
	if cfg.EmissiveIntensity != old.EmissiveIntensity {
		ms.SetEmissiveIntensity(s, cfg.EmissiveIntensity)
	}
	if cfg.SpecularColor != old.SpecularColor {
		errs = append(errs, ms.SetSpecularColor(s, cfg.SpecularColor))
	}
	if cfg.SpecularIntensity != old.SpecularIntensity {
		ms.SetSpecularIntensity(s, cfg.SpecularIntensity)
	}
	if cfg.WireframeIntensity != old.WireframeIntensity {
		ms.SetWireframeIntensity(s, cfg.WireframeIntensity)
	}
	if cfg.HyperframeColor != old.HyperframeColor {
		errs = append(errs, ms.SetHyperframeColor(s, cfg.HyperframeColor))
	}
	if cfg.HyperframeLineColor != old.HyperframeLineColor {
		errs = append(errs, ms.SetHyperframeLineColor(s, cfg.HyperframeLineColor))
	}
	if cfg.Environment != old.Environment || cfg.EnvironmentHue != old.EnvironmentHue {
		ms.SetEnvironment(s, cfg.Environment, cfg.EnvironmentHue)
	}
	if cfg.Lighting != old.Lighting {
		errs = append(errs, ms.SetLighting(s, cfg.Lighting))
	}
	s.Config.AnimationStyle = cfg.AnimationStyle
	s.Config.CameraView = cfg.CameraView
	return false, errors.Join(errs...)
}

// applyAll runs every update rule, used after objects are (re)built.
func (ss *SceneSystem) applyAll(s *Scene, cfg resources.SceneConfig) error {
	ms := ss.materials
	ms.SetScale(s, cfg.Scale)
	ms.SetShininess(s, cfg.Metalness)
	errs := []error{ms.SetBaseColor(s, cfg.BaseColor)}
	ms.SetEmissiveIntensity(s, cfg.EmissiveIntensity)
	errs = append(errs,
		ms.SetSpecularColor(s, cfg.SpecularColor),
		ms.SetHyperframeColor(s, cfg.HyperframeColor),
		ms.SetHyperframeLineColor(s, cfg.HyperframeLineColor),
		ms.SetLighting(s, cfg.Lighting),
	)
	ms.SetSpecularIntensity(s, cfg.SpecularIntensity)
	ms.SetWireframeIntensity(s, cfg.WireframeIntensity)
	ms.SetEnvironment(s, cfg.Environment, cfg.EnvironmentHue)
	s.Config.AnimationStyle = cfg.AnimationStyle
	s.Config.CameraView = cfg.CameraView
	return errors.Join(errs...)
}

func colorOr(hex string, fallback colorful.Color) colorful.Color {
	if c, _, err := resources.ParseHexColor(hex); err == nil {
		return c
	}
	return fallback
}

// objectLayout spreads count objects along X, centred on the origin, with
// evenly spaced phases.
func objectLayout(i, count int) (math.Vec3, float32) {
	x := (float32(i) - float32(count-1)/2) * objectSpacing
	return math.NewVec3(x, 0, 0), float32(i) / float32(count) * math.K_PI_2
}

func (ss *SceneSystem) buildObjects(cfg resources.SceneConfig) ([]*metadata.SceneObject, error) {
	objects := make([]*metadata.SceneObject, 0, cfg.ObjectCount)
	fail := func(err error) ([]*metadata.SceneObject, error) {
		for _, o := range objects {
			o.Dispose()
		}
		return nil, err
	}

	white := colorful.Color{R: 1, G: 1, B: 1}
	base := colorOr(cfg.BaseColor, white)
	for i := 0; i < cfg.ObjectCount; i++ {
		g, err := ss.geometry.Build(cfg.ObjectType, nil)
		if err != nil {
			return fail(err)
		}
		solid := metadata.NewMesh(string(cfg.ObjectType), g, metadata.NewMaterial("solid", base))
		position, phase := objectLayout(i, cfg.ObjectCount)
		o := metadata.NewSceneObject(string(cfg.ObjectType), i, solid, position, phase)
		objects = append(objects, o)

		wire, err := ExtractWireframe(g, metadata.NewUnlitMaterial("wireframe", base, 0), ss.Config.Wireframe)
		if err != nil {
			return fail(err)
		}
		o.AttachWireframe(wire)

		if !ss.hyperframe.Supports(cfg.ObjectType) {
			continue
		}
		h, err := ss.hyperframe.Build(g, colorOr(cfg.HyperframeColor, white), colorOr(cfg.HyperframeLineColor, white))
		if errors.Is(err, core.ErrNoHyperframe) {
			continue
		}
		if err != nil {
			return fail(err)
		}
		o.AttachHyperframe(h)
	}
	return objects, nil
}

func (ss *SceneSystem) Shutdown() error {
	for id, s := range ss.scenes {
		s.Dispose()
		delete(ss.scenes, id)
	}
	return nil
}
