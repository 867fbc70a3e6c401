package display

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	_ "image/png"
	"io/fs"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/phanxgames/kami"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	popSeconds  = 0.25
	fadeSeconds = 0.35
	labelSize   = 14
	labelGap    = 4
)

// visual is the renderer's per-widget state. Positions always come from the
// engine; a visual only holds what the engine does not know.
type visual struct {
	kind  string
	label string
	asset string
	tint  color.RGBA
	scale float64
	pop   *gween.Tween
}

// ghost is a despawned widget fading out where it was last seen.
type ghost struct {
	visual
	pos   kami.Vec3
	alpha float64
	fade  *gween.Tween
}

// Renderer draws an engine's widgets. It follows the scene through the
// engine's spawn and despawn events.
type Renderer struct {
	engine *kami.Engine
	assets fs.FS
	face   *text.GoTextFace

	visuals map[kami.Handle]*visual
	ghosts  []*ghost
	// images caches decoded assets; a nil value records a failed load.
	images map[string]*ebiten.Image
	white  *ebiten.Image

	// ShowLabels draws each widget's label beneath it.
	ShowLabels bool
}

// NewRenderer creates a renderer for engine. assets, if non-nil, is searched
// for each kind's asset image; kinds without one are drawn as tinted quads.
func NewRenderer(engine *kami.Engine, assets fs.FS) (*Renderer, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("display: failed to parse label font: %w", err)
	}
	r := &Renderer{
		engine:     engine,
		assets:     assets,
		face:       &text.GoTextFace{Source: source, Size: labelSize},
		visuals:    make(map[kami.Handle]*visual),
		images:     make(map[string]*ebiten.Image),
		ShowLabels: true,
	}
	world := engine.World()
	kami.SpawnedEventType.Subscribe(world, r.onSpawned)
	kami.DespawnedEventType.Subscribe(world, r.onDespawned)
	return r, nil
}

func (r *Renderer) onSpawned(_ donburi.World, ev kami.SpawnedEvent) {
	v := newVisual(ev.Kind, ev.Label, ev.Asset)
	v.scale = 0
	v.pop = gween.New(0, 1, popSeconds, ease.OutBack)
	r.visuals[ev.Handle] = v
}

func (r *Renderer) onDespawned(_ donburi.World, ev kami.DespawnedEvent) {
	v, ok := r.visuals[ev.Handle]
	if !ok {
		v = r.catalogVisual(ev.Kind)
	}
	delete(r.visuals, ev.Handle)
	g := &ghost{visual: *v, pos: ev.Position, alpha: 1}
	g.scale, g.pop = 1, nil
	g.fade = gween.New(1, 0, fadeSeconds, ease.Linear)
	r.ghosts = append(r.ghosts, g)
}

func newVisual(kind, label, asset string) *visual {
	return &visual{kind: kind, label: label, asset: asset, tint: kindTint(kind), scale: 1}
}

// catalogVisual builds a visual from the catalog, for widgets that existed
// before the renderer subscribed.
func (r *Renderer) catalogVisual(kind string) *visual {
	cat := r.engine.Catalog()
	info, _ := cat.Kind(kind)
	return newVisual(kind, cat.Label(kind), info.Asset)
}

func (r *Renderer) visualFor(w kami.Widget) *visual {
	v, ok := r.visuals[w.Handle]
	if !ok {
		v = r.catalogVisual(w.Kind)
		r.visuals[w.Handle] = v
	}
	return v
}

// kindTint derives a stable, fairly saturated colour from the kind id.
func kindTint(kind string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(kind))
	sum := h.Sum32()
	return color.RGBA{
		R: 64 + uint8(sum)%160,
		G: 64 + uint8(sum>>8)%160,
		B: 64 + uint8(sum>>16)%160,
		A: 255,
	}
}

// Update advances pop-in and fade tweens by dt seconds.
func (r *Renderer) Update(dt float32) {
	for _, v := range r.visuals {
		if v.pop == nil {
			continue
		}
		val, done := v.pop.Update(dt)
		v.scale = float64(val)
		if done {
			v.scale, v.pop = 1, nil
		}
	}

	live := r.ghosts[:0]
	for _, g := range r.ghosts {
		val, done := g.fade.Update(dt)
		g.alpha = float64(val)
		if !done {
			live = append(live, g)
		}
	}
	clear(r.ghosts[len(live):])
	r.ghosts = live
}

// drawItem is one quad queued for drawing.
type drawItem struct {
	v      *visual
	pos    kami.Vec3
	alpha  float64
	handle kami.Handle
}

// Draw renders every live widget and fading ghost back-to-front by depth.
func (r *Renderer) Draw(screen *ebiten.Image, cam *Camera) {
	widgets := r.engine.Widgets()
	items := make([]drawItem, 0, len(widgets)+len(r.ghosts))
	for _, w := range widgets {
		items = append(items, drawItem{v: r.visualFor(w), pos: w.Position, alpha: 1, handle: w.Handle})
	}
	for _, g := range r.ghosts {
		items = append(items, drawItem{v: &g.visual, pos: g.pos, alpha: g.alpha})
	}
	sortDrawItems(items)

	view := cam.geoM()
	size := r.engine.WidgetSize()
	for i := range items {
		r.drawOne(screen, &items[i], size, view, cam)
	}
}

func sortDrawItems(items []drawItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].pos.Z != items[j].pos.Z {
			return items[i].pos.Z < items[j].pos.Z
		}
		return items[i].handle < items[j].handle
	})
}

func (r *Renderer) drawOne(screen *ebiten.Image, it *drawItem, size kami.Vec2, view ebiten.GeoM, cam *Camera) {
	scaled := kami.Vec2{X: size.X * it.v.scale, Y: size.Y * it.v.scale}
	if scaled.X <= 0 || scaled.Y <= 0 {
		return
	}
	bounds := kami.RectFromCenter(it.pos.X, it.pos.Y, scaled)

	img := r.image(it.v.asset)
	op := &ebiten.DrawImageOptions{}
	if img == nil {
		img = r.whitePixel()
		op.ColorScale.ScaleWithColor(it.v.tint)
	}
	b := img.Bounds()
	op.GeoM.Scale(scaled.X/float64(b.Dx()), scaled.Y/float64(b.Dy()))
	op.GeoM.Translate(bounds.X, bounds.Y)
	op.GeoM.Concat(view)
	op.ColorScale.ScaleAlpha(float32(it.alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)

	if !r.ShowLabels || it.v.label == "" {
		return
	}
	sx, sy := cam.WorldToScreen(it.pos.X, bounds.Y+bounds.Height)
	lop := &text.DrawOptions{}
	lop.GeoM.Translate(sx, sy+labelGap)
	lop.PrimaryAlign = text.AlignCenter
	lop.ColorScale.ScaleAlpha(float32(it.alpha))
	text.Draw(screen, it.v.label, r.face, lop)
}

func (r *Renderer) whitePixel() *ebiten.Image {
	if r.white == nil {
		r.white = ebiten.NewImage(1, 1)
		r.white.Fill(color.White)
	}
	return r.white
}

// image returns the decoded asset, or nil if there is none.
func (r *Renderer) image(asset string) *ebiten.Image {
	if asset == "" || r.assets == nil {
		return nil
	}
	if img, ok := r.images[asset]; ok {
		return img
	}
	var img *ebiten.Image
	if src, err := decodeAsset(r.assets, asset); err == nil {
		img = ebiten.NewImageFromImage(src)
	}
	r.images[asset] = img
	return img
}

func decodeAsset(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("display: decode %s: %w", name, err)
	}
	return img, nil
}

// Ghosts returns the number of widgets still fading out.
func (r *Renderer) Ghosts() int {
	return len(r.ghosts)
}
