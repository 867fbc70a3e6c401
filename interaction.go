package kami

// InteractionState is either idle or dragging one widget. The zero value is
// idle.
type InteractionState struct {
	dragging bool
	// start is the index entry as it was when the drag began. The index keeps
	// that entry, stale, until the drop removes it.
	start IndexEntry
}

// Idle reports whether no widget is being dragged.
func (s InteractionState) Idle() bool {
	return !s.dragging
}

// Dragging returns the dragged widget and its bounds at grab time.
func (s InteractionState) Dragging() (Handle, Rect, bool) {
	if !s.dragging {
		return 0, Rect{}, false
	}
	return s.start.Handle, s.start.Bounds, true
}

func draggingState(start IndexEntry) InteractionState {
	return InteractionState{dragging: true, start: start}
}

// grab starts a drag on the topmost widget under the pointer. The index is
// left untouched: the widget stays indexed at its pre-drag bounds until it
// is dropped.
func (e *Engine) grab() {
	if !e.state.Idle() {
		return
	}
	h, ok := e.index.QueryTopmost(e.pointer.X, e.pointer.Y)
	if !ok {
		return
	}
	w := e.mustGet(h)
	e.state = draggingState(e.entryFor(h, w.Position))
	e.metrics.grabs.Inc()
	e.debugf("grab %s#%d at (%.1f, %.1f)", w.Kind, h, e.pointer.X, e.pointer.Y)
}

// follow moves the dragged widget's x and y to the pointer, keeping its
// depth. Only the registry is written.
func (e *Engine) follow() {
	h, _, ok := e.state.Dragging()
	if !ok {
		return
	}
	w, err := e.registry.Get(h)
	if err != nil {
		return
	}
	_ = e.registry.SetPosition(h, Vec3{X: e.pointer.X, Y: e.pointer.Y, Z: w.Position.Z})
}

// release drops the dragged widget: the stale entry is removed, the rule for
// the widget underneath (if any) is queued, and the widget is indexed again
// at the position it was dropped.
func (e *Engine) release() {
	if !e.state.dragging {
		return
	}
	start := e.state.start
	h := start.Handle
	e.state = InteractionState{}

	// A miss here means the index lost the entry; carry on regardless.
	e.index.Remove(start)

	this, err := e.registry.Get(h)
	if err != nil {
		return
	}

	if other, ok := e.index.QueryTopmost(e.pointer.X, e.pointer.Y); ok {
		e.combine(this, e.mustGet(other))
	} else {
		e.metrics.releases.WithLabelValues(releaseNoTarget).Inc()
		e.debugf("drop %s#%d on empty canvas", this.Kind, h)
	}

	cur, err := e.registry.Get(h)
	if err != nil {
		return
	}
	e.index.Insert(e.entryFor(h, cur.Position))
}

// combine queues the effects of the rule for the pair (this, other), where
// this is the dropped widget.
func (e *Engine) combine(this, other Widget) {
	effects, ok := e.catalog.Rules().Lookup(this.Kind, other.Kind)
	if !ok {
		e.metrics.releases.WithLabelValues(releaseNoRule).Inc()
		e.debugf("drop %s#%d on %s#%d: no rule", this.Kind, this.Handle, other.Kind, other.Handle)
		return
	}

	for _, eff := range effects {
		switch eff.Op {
		case EffectCreate:
			e.queue.Spawn(eff.Kind, e.randomPosition())
		case EffectDelete:
			if eff.Kind == this.Kind {
				e.queue.Despawn(this.Handle)
			} else {
				e.queue.Despawn(other.Handle)
			}
		}
	}

	e.metrics.releases.WithLabelValues(releaseCombined).Inc()
	e.debugf("drop %s#%d on %s#%d: %d effects", this.Kind, this.Handle, other.Kind, other.Handle, len(effects))
	CombinedEventType.Publish(e.world, CombinedEvent{
		Dragged:      this.Handle,
		DraggedKind:  this.Kind,
		Target:       other.Handle,
		TargetKind:   other.Kind,
		Effects:      effects,
		DropPosition: e.pointer,
	})
}
