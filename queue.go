package kami

// SpawnRequest asks the flush to create a widget.
type SpawnRequest struct {
	Kind     string
	Position Vec3
}

// MutationQueue defers widget creation and destruction to the end of the
// tick. Requests keep their enqueue order and are cleared by every flush.
type MutationQueue struct {
	spawns   []SpawnRequest
	despawns []Handle
}

// Spawn queues the creation of a widget of kind at pos.
func (q *MutationQueue) Spawn(kind string, pos Vec3) {
	q.spawns = append(q.spawns, SpawnRequest{Kind: kind, Position: pos})
}

// Despawn queues the destruction of h. Handles that are gone by flush time
// are skipped.
func (q *MutationQueue) Despawn(h Handle) {
	q.despawns = append(q.despawns, h)
}

// Spawns returns the pending spawn requests. The returned slice MUST NOT be
// mutated.
func (q *MutationQueue) Spawns() []SpawnRequest {
	return q.spawns
}

// Despawns returns the pending despawns. The returned slice MUST NOT be
// mutated.
func (q *MutationQueue) Despawns() []Handle {
	return q.despawns
}

// Len returns the number of pending requests of both sorts.
func (q *MutationQueue) Len() int {
	return len(q.spawns) + len(q.despawns)
}

// Flush applies queued spawns, then queued despawns, and clears the queue.
// It returns the number of widgets created and destroyed.
func (e *Engine) Flush() (spawned, despawned int) {
	q := &e.queue

	for i := range q.spawns {
		req := q.spawns[i]
		h := e.registry.Create(req.Kind, req.Position)
		e.index.Insert(e.entryFor(h, req.Position))
		spawned++

		info, ok := e.catalog.Kind(req.Kind)
		if !ok {
			info = KindInfo{ID: req.Kind}
		}
		SpawnedEventType.Publish(e.world, SpawnedEvent{
			Handle:   h,
			Kind:     req.Kind,
			Position: req.Position,
			Label:    e.catalog.Label(req.Kind),
			Asset:    info.Asset,
		})
	}
	clear(q.spawns)
	q.spawns = q.spawns[:0]

	for i, h := range q.despawns {
		q.despawns[i] = 0
		w, err := e.registry.Get(h)
		if err != nil {
			continue
		}
		entry := e.entryFor(h, w.Position)
		if dh, _, ok := e.state.Dragging(); ok && dh == h {
			// A dragged widget is still indexed at its grab bounds.
			entry = e.state.start
			e.state = InteractionState{}
		}
		e.index.Remove(entry)
		e.registry.Destroy(h)
		despawned++

		DespawnedEventType.Publish(e.world, DespawnedEvent{
			Handle:   h,
			Kind:     w.Kind,
			Position: w.Position,
		})
	}
	q.despawns = q.despawns[:0]

	e.metrics.spawns.Add(float64(spawned))
	e.metrics.despawns.Add(float64(despawned))
	e.metrics.widgets.Set(float64(e.registry.Len()))
	if spawned > 0 || despawned > 0 {
		e.debugf("flush: +%d -%d, %d widgets, %d indexed",
			spawned, despawned, e.registry.Len(), e.index.Len())
	}
	return spawned, despawned
}
