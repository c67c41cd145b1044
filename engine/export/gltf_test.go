package export

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/spaghettifunk/geomstudio/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestObjects(t *testing.T, mutate func(c *resources.SceneConfig)) []*metadata.SceneObject {
	t.Helper()
	cfg := resources.DefaultAppConfig()
	sm, err := systems.NewSystemManager(&cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sm.Shutdown() })

	sc := resources.DefaultSceneConfig()
	if mutate != nil {
		mutate(&sc)
	}
	s, err := sm.Scenes().Create(sc)
	require.NoError(t, err)
	return s.Objects
}

func TestDocumentHasOneNodePerObject(t *testing.T) {
	objects := newTestObjects(t, func(c *resources.SceneConfig) {
		c.ObjectCount = 3
	})

	doc, err := Document(objects, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 3)
	assert.Len(t, doc.Meshes, 3)
	assert.Len(t, doc.Scenes[0].Nodes, 3)
	assert.Equal(t, generator, doc.Asset.Generator)

	// solid, wireframe, center lines and curved lines
	assert.Len(t, doc.Meshes[0].Primitives, 4)
	for _, p := range doc.Meshes[0].Primitives {
		require.NotNil(t, p.Indices)
		require.NotNil(t, p.Material)
	}
}

func TestDocumentWithoutStruts(t *testing.T) {
	objects := newTestObjects(t, nil)

	doc, err := Document(objects, Options{})
	require.NoError(t, err)
	require.Len(t, doc.Meshes, 1)
	assert.Len(t, doc.Meshes[0].Primitives, 1)
	assert.Len(t, doc.Materials, 1)
	assert.Equal(t, gltf.AlphaOpaque, doc.Materials[0].AlphaMode)
}

func TestTransparentMaterialBlends(t *testing.T) {
	objects := newTestObjects(t, func(c *resources.SceneConfig) {
		c.WireframeIntensity = 50
	})

	doc, err := Document(objects, Options{Wireframe: true})
	require.NoError(t, err)
	require.Len(t, doc.Materials, 2)
	for _, m := range doc.Materials {
		assert.Equal(t, gltf.AlphaBlend, m.AlphaMode, m.Name)
	}
}

func TestDocumentSkipsDisposedObjects(t *testing.T) {
	objects := newTestObjects(t, nil)
	objects[0].Dispose()

	_, err := Document(objects, DefaultOptions())
	assert.ErrorIs(t, err, core.ErrEmptyGeometry)

	_, err = Document(nil, DefaultOptions())
	assert.ErrorIs(t, err, core.ErrEmptyGeometry)
}

func TestSaveGLB(t *testing.T) {
	objects := newTestObjects(t, func(c *resources.SceneConfig) {
		c.ObjectType = resources.ObjectTesseract
		c.ObjectCount = 2
	})
	path := filepath.Join(t.TempDir(), "scene.glb")
	require.NoError(t, SaveGLB(path, objects, DefaultOptions()))

	doc, err := gltf.Open(path)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 2)
	assert.NotEmpty(t, doc.Accessors)
}
