package systems

import (
	"testing"

	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemManagerFrame(t *testing.T) {
	cfg := resources.DefaultAppConfig()
	cfg.Scene.ObjectType = resources.ObjectCell16
	cfg.Scene.AnimationStyle = resources.AnimationSpiral

	sm, err := NewSystemManager(&cfg)
	require.NoError(t, err)
	s, err := sm.Scenes().Create(cfg.Scene)
	require.NoError(t, err)

	sm.Update(s, 0.016, 0)
	assert.Equal(t, resources.AnimationSpiral, sm.Animation().Style())
	assert.InDelta(t, s.Objects[0].OriginalPosition.X+spiralRadius, s.Objects[0].Transform.Position.X, 1e-5)

	p := sm.Packet(s, 16.0/9.0, 0.016, 0)
	assert.Len(t, p.Objects, 1)
	assert.Len(t, p.Orbs, defaultOrbCount)
	assert.Equal(t, sm.Camera().Camera.Position, p.CameraPos)

	s.Config.CameraView = resources.CameraTop
	sm.Update(s, 0.016, 0.016)
	assert.Equal(t, resources.CameraTop, sm.Camera().View())

	require.NoError(t, sm.Shutdown())
	assert.Nil(t, s.Objects)
	assert.Zero(t, sm.Geometry().CachedCount())
}

func TestSystemManagerRejectsBadConfig(t *testing.T) {
	cfg := resources.DefaultAppConfig()
	cfg.MaxCachedGeometries = 0
	_, err := NewSystemManager(&cfg)
	assert.Error(t, err)

}

func TestSystemManagerUnpacedLoop(t *testing.T) {
	cfg := resources.DefaultAppConfig()
	cfg.TargetFPS = 0
	sm, err := NewSystemManager(&cfg)
	require.NoError(t, err)
	assert.Equal(t, defaultCameraFPS, sm.Camera().Config.FPS)
	require.NoError(t, sm.Shutdown())
}

func TestSystemManagerPrewarm(t *testing.T) {
	cfg := resources.DefaultAppConfig()
	sm, err := NewSystemManager(&cfg)
	require.NoError(t, err)

	types := []resources.ObjectType{resources.ObjectBox, resources.ObjectTesseract, resources.ObjectCell24}
	done, err := sm.Prewarm(types)
	require.NoError(t, err)
	<-done
	assert.Equal(t, len(types), sm.Geometry().CachedCount())

	_, misses := sm.Geometry().Stats()
	_, err = sm.Scenes().Create(resources.SceneConfig{ObjectType: resources.ObjectTesseract, ObjectCount: 2})
	require.NoError(t, err)
	_, missesAfter := sm.Geometry().Stats()
	assert.Equal(t, misses, missesAfter)

	require.NoError(t, sm.Shutdown())
	_, err = sm.Prewarm(types)
	assert.ErrorIs(t, err, ErrJobSystemStopped)
}
