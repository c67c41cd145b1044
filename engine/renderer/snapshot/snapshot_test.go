package snapshot

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/spaghettifunk/geomstudio/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderScene(t *testing.T, b *Backend, mutate func(c *resources.SceneConfig)) *metadata.RenderPacket {
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
	sm.Update(s, 0, 0)

	packet := sm.Packet(s, 1, 0, 0)
	packet.Orbs = nil

	require.NoError(t, b.BeginFrame(0))
	require.NoError(t, b.Draw(packet))
	require.NoError(t, b.EndFrame(0))
	return packet
}

func TestDrawsObjectOverBackground(t *testing.T) {
	b := New()
	require.NoError(t, b.Initialize("test", 64, 64))
	packet := renderScene(t, b, nil)

	img := b.Image()
	require.NotNil(t, img)
	bg := toNRGBA(packet.Environment.Background, 1)

	corner := img.RGBAAt(0, 0)
	assert.Equal(t, bg.R, corner.R)
	assert.Equal(t, bg.G, corner.G)
	assert.Equal(t, bg.B, corner.B)

	center := img.RGBAAt(32, 32)
	assert.NotEqual(t, corner, center)
	assert.Equal(t, uint64(1), b.Frames())
}

func TestWireframeOnlyObjectStillDraws(t *testing.T) {
	b := New()
	require.NoError(t, b.Initialize("test", 64, 64))
	renderScene(t, b, func(c *resources.SceneConfig) {
		c.WireframeIntensity = 100
		c.BaseColor = "#ff0000"
	})

	img := b.Image()
	red := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			p := img.RGBAAt(x, y)
			if r, g, bl := int(p.R), int(p.G), int(p.B); r > 64 && r > g+32 && r > bl+32 {
				red++
			}
		}
	}
	assert.Positive(t, red)
}

func TestWritePNG(t *testing.T) {
	b := New()
	require.NoError(t, b.Initialize("test", 32, 16))
	renderScene(t, b, nil)

	var buf bytes.Buffer
	require.NoError(t, b.WritePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestDrawBeforeInitialize(t *testing.T) {
	b := New()
	assert.Error(t, b.BeginFrame(0))
	assert.Error(t, b.Draw(&metadata.RenderPacket{}))
	assert.Error(t, b.WritePNG(&bytes.Buffer{}))
	assert.Error(t, b.Initialize("test", 0, 10))
}
