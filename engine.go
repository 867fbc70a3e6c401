package kami

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/yohamta/donburi"
)

// EngineConfig configures NewEngine. Zero values select defaults.
type EngineConfig struct {
	// Catalog holds kinds, rules and the starting set. Nil uses DefaultCatalog.
	Catalog *Catalog
	// WidgetSize is the size shared by every widget. Zero uses DefaultWidgetSize.
	WidgetSize Vec2
	// SpawnArea bounds the positions of widgets created by rules and of the
	// starting set. Zero uses DefaultSpawnArea.
	SpawnArea SpawnArea
	// Seed seeds the position generator. Zero seeds from the clock.
	Seed uint64
	// World is the donburi world holding widget entities and events. Nil
	// creates a new world.
	World donburi.World
	// Metrics receives the engine's Prometheus collectors. Nil leaves them
	// unregistered. Only one engine can register with a given registry.
	Metrics prometheus.Registerer
	// Debug enables debug output to stderr.
	Debug bool
	// SkipStart leaves the catalog's starting kinds out of the first flush.
	SkipStart bool
}

// Engine owns the widget registry, the spatial index, the interaction state
// and the mutation queue, and advances them one tick at a time. An Engine is
// not safe for concurrent use; all access must come from the frame loop.
type Engine struct {
	catalog   *Catalog
	size      Vec2
	spawnArea SpawnArea
	rng       *rand.Rand

	world    donburi.World
	registry *Registry
	index    *SpatialIndex
	state    InteractionState
	queue    MutationQueue
	pointer  Vec2

	metrics  *engineMetrics
	debug    bool
	debugOut io.Writer
	ticks    uint64
}

// NewEngine creates an engine. Unless cfg.SkipStart is set, the catalog's
// starting kinds are queued at random positions and appear on the first
// flush.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	size := cfg.WidgetSize
	if size == (Vec2{}) {
		size = DefaultWidgetSize
	}
	if !(size.X > 0 && size.Y > 0) {
		return nil, fmt.Errorf("kami: widget size must be positive, got %vx%v", size.X, size.Y)
	}

	area := cfg.SpawnArea
	if area == (SpawnArea{}) {
		area = DefaultSpawnArea
	}
	if !area.X.valid() || !area.Y.valid() || !area.Z.valid() {
		return nil, fmt.Errorf("kami: spawn area ranges must be finite and non-empty, got %+v", area)
	}

	catalog := cfg.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	world := cfg.World
	if world == nil {
		world = donburi.NewWorld()
	}

	e := &Engine{
		catalog:   catalog,
		size:      size,
		spawnArea: area,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		world:     world,
		registry:  newRegistry(world),
		index:     NewSpatialIndex(math.Max(size.X, size.Y)),
		metrics:   newEngineMetrics(cfg.Metrics),
		debug:     cfg.Debug,
	}

	if !cfg.SkipStart {
		for _, kind := range catalog.Start() {
			e.queue.Spawn(kind, e.randomPosition())
		}
	}
	return e, nil
}

// Tick advances the engine by one frame:
//
//  1. record the pointer position
//  2. move a dragged widget to the pointer
//  3. on release, drop the dragged widget and queue any rule effects
//  4. on press, pick up the topmost widget under the pointer
//  5. flush queued spawns, then despawns
//  6. deliver events to subscribers
func (e *Engine) Tick(in FrameInput) {
	e.ticks++
	e.pointer = in.Pointer
	e.follow()
	if in.Released {
		e.release()
	}
	if in.Pressed {
		e.grab()
	}
	e.Flush()
	deliverEvents(e.world)
}

// RunScript ticks the engine with each frame of r until the script is
// exhausted and returns the number of ticks run.
func (e *Engine) RunScript(r *ScriptRunner) int {
	n := 0
	for {
		in, ok := r.Next()
		if !ok {
			return n
		}
		e.Tick(in)
		n++
	}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Registry returns the widget registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Index returns the spatial index.
func (e *Engine) Index() *SpatialIndex { return e.index }

// Queue returns the pending mutations, which the next flush applies.
func (e *Engine) Queue() *MutationQueue { return &e.queue }

// State returns the current interaction state.
func (e *Engine) State() InteractionState { return e.state }

// World returns the donburi world holding widgets and events.
func (e *Engine) World() donburi.World { return e.world }

// Pointer returns the pointer position recorded by the last tick.
func (e *Engine) Pointer() Vec2 { return e.pointer }

// WidgetSize returns the size shared by every widget.
func (e *Engine) WidgetSize() Vec2 { return e.size }

// Ticks returns the number of ticks run.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Widgets returns every live widget sorted by handle.
func (e *Engine) Widgets() []Widget { return e.registry.Widgets() }

// WidgetAt returns the topmost indexed widget containing p. A widget being
// dragged is found at its pre-drag bounds, not under the pointer.
func (e *Engine) WidgetAt(p Vec2) (Widget, bool) {
	h, ok := e.index.QueryTopmost(p.X, p.Y)
	if !ok {
		return Widget{}, false
	}
	return e.mustGet(h), true
}

// Bounds returns the rectangle covered by h at its current position.
func (e *Engine) Bounds(h Handle) (Rect, error) {
	w, err := e.registry.Get(h)
	if err != nil {
		return Rect{}, err
	}
	return RectFromCenter(w.Position.X, w.Position.Y, e.size), nil
}

// entryFor builds the index entry for a widget at pos.
func (e *Engine) entryFor(h Handle, pos Vec3) IndexEntry {
	return IndexEntry{
		Bounds:   RectFromCenter(pos.X, pos.Y, e.size),
		Priority: pos.Z,
		Handle:   h,
	}
}

// mustGet fetches a widget the index says exists. A miss means the index and
// registry have diverged, which only a broken update order can cause.
func (e *Engine) mustGet(h Handle) Widget {
	w, err := e.registry.Get(h)
	if err != nil {
		panic(fmt.Sprintf("kami: indexed widget %d missing from registry", h))
	}
	return w
}

func (e *Engine) randomPosition() Vec3 {
	a := e.spawnArea
	return Vec3{
		X: a.X.Min + e.rng.Float64()*(a.X.Max-a.X.Min),
		Y: a.Y.Min + e.rng.Float64()*(a.Y.Max-a.Y.Min),
		Z: a.Z.Min + e.rng.Float64()*(a.Z.Max-a.Z.Min),
	}
}
