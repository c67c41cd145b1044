package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"golang.org/x/image/vector"
)

const (
	// Clip space w below this is treated as behind the camera.
	minClipW float32 = 1e-3
	// Struts never get thinner than this many pixels.
	minStrutWidth float32 = 1
	orbSegments         = 12
)

/**
 * @brief A software backend that paints each frame into an RGBA image.
 * Primitives are depth sorted back to front and filled with a coverage
 * rasterizer, so transparency blends the way a forward renderer would.
 */
type Backend struct {
	mu     sync.Mutex
	image  *image.RGBA
	ras    *vector.Rasterizer
	frames uint64
	items  []drawItem
}

type drawItem struct {
	depth  float32
	points []math.Vec2
	color  color.NRGBA
}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Initialize(appName string, width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("func snapshot.Initialize - width and height must be > 0")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allocate(width, height)
	core.LogDebug("snapshot backend for %s initialized (%dx%d)", appName, width, height)
	return nil
}

func (b *Backend) allocate(width, height uint32) {
	b.image = image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	b.ras = vector.NewRasterizer(int(width), int(height))
}

func (b *Backend) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.image = nil
	b.ras = nil
	b.items = nil
	return nil
}

func (b *Backend) Resized(width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allocate(width, height)
	return nil
}

func (b *Backend) BeginFrame(deltaTime float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.image == nil {
		return fmt.Errorf("snapshot backend is not initialized")
	}
	b.items = b.items[:0]
	return nil
}

func (b *Backend) Draw(packet *metadata.RenderPacket) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.image == nil {
		return fmt.Errorf("snapshot backend is not initialized")
	}

	bg := toNRGBA(packet.Environment.Background, 1)
	draw.Draw(b.image, b.image.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	size := b.image.Bounds().Size()
	p := projector{
		viewProj: packet.View.Mul(packet.Projection),
		width:    float32(size.X),
		height:   float32(size.Y),
		focal:    packet.Projection.Data[5] * float32(size.Y) * 0.5,
	}

	for _, o := range packet.Objects {
		b.collectObject(p, o, packet)
	}
	for _, orb := range packet.Orbs {
		b.collectOrb(p, orb)
	}

	sort.SliceStable(b.items, func(i, j int) bool {
		return b.items[i].depth > b.items[j].depth
	})
	for _, it := range b.items {
		b.fill(it)
	}
	return nil
}

func (b *Backend) EndFrame(deltaTime float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames++
	return nil
}

func (b *Backend) Frames() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

// Image returns a copy of the last frame.
func (b *Backend) Image() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.image == nil {
		return nil
	}
	out := image.NewRGBA(b.image.Bounds())
	copy(out.Pix, b.image.Pix)
	return out
}

func (b *Backend) WritePNG(w io.Writer) error {
	img := b.Image()
	if img == nil {
		return fmt.Errorf("snapshot backend has no frame")
	}
	return png.Encode(w, img)
}

func (b *Backend) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := b.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (b *Backend) fill(it drawItem) {
	if len(it.points) < 3 || it.color.A == 0 {
		return
	}
	b.ras.Reset(b.image.Bounds().Dx(), b.image.Bounds().Dy())
	b.ras.DrawOp = draw.Over
	b.ras.MoveTo(it.points[0].X, it.points[0].Y)
	for _, pt := range it.points[1:] {
		b.ras.LineTo(pt.X, pt.Y)
	}
	b.ras.ClosePath()
	b.ras.Draw(b.image, b.image.Bounds(), image.NewUniform(it.color), image.Point{})
}
