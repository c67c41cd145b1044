package systems

import (
	"testing"

	"github.com/google/uuid"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSceneSystem(t *testing.T) *SceneSystem {
	t.Helper()
	gs := newTestGeometrySystem(t, 16)
	hs := newTestHyperframeSystem(t, false)
	ss, err := NewSceneSystem(&SceneSystemConfig{
		MaxSceneCount: 4,
		OrbCount:      8,
		Wireframe:     DefaultWireframeOptions(),
	}, gs, hs, NewMaterialSystem())
	require.NoError(t, err)
	return ss
}

func newTestScene(t *testing.T, ss *SceneSystem, mutate func(c *resources.SceneConfig)) *Scene {
	t.Helper()
	cfg := resources.DefaultSceneConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := ss.Create(cfg)
	require.NoError(t, err)
	return s
}

func TestCreateSceneBuildsObjects(t *testing.T) {
	ss := newTestSceneSystem(t)
	s := newTestScene(t, ss, func(c *resources.SceneConfig) {
		c.ObjectType = resources.ObjectCompoundBox
		c.ObjectCount = 3
	})

	require.Len(t, s.Objects, 3)
	for i, o := range s.Objects {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, 24, o.CenterLines.Len())
		assert.Positive(t, o.Wireframe.Len())
		assert.Same(t, o.Transform, o.CenterLines.Transform.Parent)
	}
	// objects are centred on the origin
	assert.InDelta(t, -objectSpacing, s.Objects[0].OriginalPosition.X, 1e-6)
	assert.InDelta(t, 0, s.Objects[1].OriginalPosition.X, 1e-6)
	assert.NotEqual(t, s.Objects[0].Phase, s.Objects[1].Phase)

	// each object owns its buffers
	assert.NotSame(t, &s.Objects[0].Geometry().Positions[0], &s.Objects[1].Geometry().Positions[0])
	assert.Equal(t, 8, s.Orbs.Len())
	assert.Equal(t, "void", s.Environment.Name)
}

func TestCreateSceneWithoutHyperframe(t *testing.T) {
	ss := newTestSceneSystem(t)
	s := newTestScene(t, ss, func(c *resources.SceneConfig) { c.ObjectType = resources.ObjectTorus })
	require.Len(t, s.Objects, 1)
	assert.Nil(t, s.Objects[0].CenterLines)
	assert.Nil(t, s.Objects[0].CurvedLines)
}

func TestCreateScenePropagatesBuildErrors(t *testing.T) {
	ss := newTestSceneSystem(t)
	cfg := resources.DefaultSceneConfig()
	cfg.ObjectType = "hyperdonut"
	_, err := ss.Create(cfg)
	assert.ErrorIs(t, err, core.ErrUnknownObjectType)
	assert.Empty(t, ss.Scenes())
}

func TestScenesAreIndependent(t *testing.T) {
	ss := newTestSceneSystem(t)
	a := newTestScene(t, ss, nil)
	b := newTestScene(t, ss, nil)
	require.NotEqual(t, a.ID, b.ID)

	require.NoError(t, ss.Destroy(a.ID))
	assert.Nil(t, a.Orbs)
	assert.Equal(t, 8, b.Orbs.Len())
	assert.False(t, b.Objects[0].Geometry().IsDisposed())

	_, err := ss.Get(a.ID)
	assert.ErrorIs(t, err, core.ErrUnknownScene)
	got, err := ss.Get(b.ID)
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestSceneLimit(t *testing.T) {
	ss := newTestSceneSystem(t)
	for i := 0; i < 4; i++ {
		newTestScene(t, ss, nil)
	}
	_, err := ss.Create(resources.DefaultSceneConfig())
	assert.Error(t, err)
}

func TestDestroyUnknownScene(t *testing.T) {
	ss := newTestSceneSystem(t)
	assert.ErrorIs(t, ss.Destroy(uuid.New()), core.ErrUnknownScene)
}

func TestApplyRebuildsOnTypeOrCountChange(t *testing.T) {
	ss := newTestSceneSystem(t)
	s := newTestScene(t, ss, nil)
	old := s.Objects[0]

	cfg := s.Config
	cfg.ObjectCount = 2
	rebuilt, err := ss.Apply(s, cfg)
	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.Len(t, s.Objects, 2)
	assert.Nil(t, old.Solid)

	cfg.ObjectType = resources.ObjectTesseract
	rebuilt, err = ss.Apply(s, cfg)
	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.Equal(t, "tesseract", s.Objects[0].ObjectType)
}

func TestApplyKeepsObjectsOnBuildFailure(t *testing.T) {
	ss := newTestSceneSystem(t)
	s := newTestScene(t, ss, nil)
	before := s.Objects[0]

	cfg := s.Config
	cfg.ObjectType = "hyperdonut"
	rebuilt, err := ss.Apply(s, cfg)
	assert.ErrorIs(t, err, core.ErrUnknownObjectType)
	assert.False(t, rebuilt)
	assert.Same(t, before, s.Objects[0])
	assert.Equal(t, resources.ObjectBox, s.Config.ObjectType)
}

func TestApplyParameterChangeDoesNotRebuild(t *testing.T) {
	ss := newTestSceneSystem(t)
	s := newTestScene(t, ss, nil)
	o := s.Objects[0]
	g := o.Geometry()
	wire := o.Wireframe

	cfg := s.Config
	cfg.BaseColor = "#ff0000"
	cfg.WireframeIntensity = 50
	cfg.Scale = 2
	cfg.AnimationStyle = resources.AnimationChaos
	rebuilt, err := ss.Apply(s, cfg)
	require.NoError(t, err)
	assert.False(t, rebuilt)

	assert.Same(t, o, s.Objects[0])
	assert.Same(t, g, o.Geometry())
	assert.Same(t, wire, o.Wireframe)
	assert.Equal(t, "#ff0000", s.Config.BaseColor)
	assert.Equal(t, resources.AnimationChaos, s.Config.AnimationStyle)
	assert.Equal(t, float32(2), o.Transform.Scale.X)
	assert.InDelta(t, 0.5, o.Solid.Material.EffectiveOpacity(), 1e-6)
}

func TestApplyReportsInvalidColors(t *testing.T) {
	ss := newTestSceneSystem(t)
	s := newTestScene(t, ss, nil)
	color := s.Objects[0].Solid.Material.Color

	cfg := s.Config
	cfg.BaseColor = "cyan"
	cfg.SpecularIntensity = 1.5
	_, err := ss.Apply(s, cfg)
	assert.ErrorIs(t, err, core.ErrInvalidColor)
	assert.Equal(t, color, s.Objects[0].Solid.Material.Color)
	assert.Equal(t, "#00ffff", s.Config.BaseColor)
	assert.Equal(t, float32(1.5), s.Objects[0].Solid.Material.SpecularIntensity)
}

func TestApplyClampsOutOfRangeValues(t *testing.T) {
	ss := newTestSceneSystem(t)
	s := newTestScene(t, ss, nil)
	cfg := s.Config
	cfg.Scale = 40
	cfg.WireframeIntensity = 250
	_, err := ss.Apply(s, cfg)
	require.NoError(t, err)
	assert.Equal(t, float32(resources.MaxScale), s.Objects[0].Transform.Scale.X)
	assert.Equal(t, float32(0), s.Objects[0].Solid.Material.EffectiveOpacity())
}

func TestApplyNilScene(t *testing.T) {
	ss := newTestSceneSystem(t)
	_, err := ss.Apply(nil, resources.DefaultSceneConfig())
	assert.ErrorIs(t, err, core.ErrSceneNotInitialized)
}

func TestOrbFieldIsPerScene(t *testing.T) {
	a := NewOrbField(5, 200, 1)
	b := NewOrbField(5, 200, 1)
	a.Update(3)
	b.Update(0)
	assert.NotEqual(t, a.Orbs()[0].Position, b.Orbs()[0].Position)

	b.Update(3)
	assert.Equal(t, a.Orbs(), b.Orbs())

	a.Dispose()
	assert.Zero(t, a.Len())
	assert.Equal(t, 5, b.Len())
}
