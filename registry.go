package kami

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// ErrNotFound is returned when a handle does not name a live widget.
var ErrNotFound = errors.New("kami: widget not found")

// Handle is a stable reference to a widget, backed by its donburi entity.
type Handle uint64

func (h Handle) entity() donburi.Entity {
	return donburi.Entity(h)
}

// Widget is a snapshot of one live widget.
type Widget struct {
	Handle   Handle
	Kind     string
	Position Vec3
}

type kindData struct {
	ID string
}

var (
	kindComponent     = donburi.NewComponentType[kindData]()
	positionComponent = donburi.NewComponentType[Vec3]()
)

// Registry is the authoritative store of live widgets. It keeps each widget
// as a donburi entity carrying a kind and a position component, so the world
// can be shared with other ECS systems.
//
// The registry does not check kinds against the catalog.
type Registry struct {
	world donburi.World
	query *donburi.Query
}

func newRegistry(world donburi.World) *Registry {
	return &Registry{
		world: world,
		query: donburi.NewQuery(filter.Contains(kindComponent, positionComponent)),
	}
}

// Create adds a widget and returns its handle.
func (r *Registry) Create(kind string, pos Vec3) Handle {
	e := r.world.Create(kindComponent, positionComponent)
	entry := r.world.Entry(e)
	kindComponent.SetValue(entry, kindData{ID: kind})
	positionComponent.SetValue(entry, pos)
	return Handle(e)
}

// Get returns the widget for h, or an error wrapping ErrNotFound.
func (r *Registry) Get(h Handle) (Widget, error) {
	entry, ok := r.entry(h)
	if !ok {
		return Widget{}, fmt.Errorf("%w: handle %d", ErrNotFound, h)
	}
	return widgetFromEntry(h, entry), nil
}

// Contains reports whether h names a live widget.
func (r *Registry) Contains(h Handle) bool {
	_, ok := r.entry(h)
	return ok
}

// Destroy removes the widget. Destroying an absent handle is a no-op.
func (r *Registry) Destroy(h Handle) {
	if _, ok := r.entry(h); !ok {
		return
	}
	r.world.Remove(h.entity())
}

// SetPosition overwrites the widget's position.
func (r *Registry) SetPosition(h Handle, pos Vec3) error {
	entry, ok := r.entry(h)
	if !ok {
		return fmt.Errorf("%w: handle %d", ErrNotFound, h)
	}
	positionComponent.SetValue(entry, pos)
	return nil
}

// Len returns the number of live widgets.
func (r *Registry) Len() int {
	return r.query.Count(r.world)
}

// Each calls fn for every live widget in storage order.
func (r *Registry) Each(fn func(Widget)) {
	r.query.Each(r.world, func(entry *donburi.Entry) {
		fn(widgetFromEntry(Handle(entry.Entity()), entry))
	})
}

// Widgets returns every live widget sorted by handle.
func (r *Registry) Widgets() []Widget {
	out := make([]Widget, 0, r.Len())
	r.Each(func(w Widget) {
		out = append(out, w)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

func (r *Registry) entry(h Handle) (*donburi.Entry, bool) {
	e := h.entity()
	if !r.world.Valid(e) {
		return nil, false
	}
	entry := r.world.Entry(e)
	if !entry.HasComponent(kindComponent) || !entry.HasComponent(positionComponent) {
		return nil, false
	}
	return entry, true
}

func widgetFromEntry(h Handle, entry *donburi.Entry) Widget {
	return Widget{
		Handle:   h,
		Kind:     kindComponent.Get(entry).ID,
		Position: *positionComponent.Get(entry),
	}
}
