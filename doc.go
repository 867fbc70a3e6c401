// Package kami is a combination engine for a 2D canvas of draggable widgets.
//
// Dropping one widget on another looks up a rule for the pair of kinds and,
// if there is one, creates and destroys widgets. The engine resolves which
// widget is under the pointer, tracks the drag, turns a drop into effects,
// and applies them once per frame through a deferred queue.
//
// Rendering, camera and the window live in the display package; the engine
// only needs the world-space pointer position and button edges each frame.
//
// # Quick start
//
//	engine, err := kami.NewEngine(kami.EngineConfig{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for {
//		engine.Tick(kami.FrameInput{Pointer: pointer, Pressed: down, Released: up})
//	}
//
// # Frame order
//
// Each [Engine.Tick] records the pointer, moves a dragged widget to it,
// handles a release, handles a press, then flushes queued spawns followed by
// queued despawns. Flush results are published as [SpawnedEvent] and
// [DespawnedEvent] on the engine's [Donburi] world; drops that match a rule
// publish a [CombinedEvent].
//
// # Drag staleness
//
// While a widget is dragged its index entry stays at the bounds it had when
// it was picked up. Only the drop re-indexes it, so a dragged widget is never
// found under the pointer that is carrying it.
//
// # Catalogs
//
// Kinds, rules and the starting set come from a [Catalog], normally parsed
// from YAML with [LoadCatalog]. [DefaultCatalog] is built in:
//
//	start: [he_who, she_who]
//	kinds:
//	  - {id: he_who, asset: HeWho.png, label: He Who Beckoned}
//	  - {id: she_who, asset: SheWho.png, label: She Who Beckoned}
//	  - {id: leech, label: Leech Child}
//	rules:
//	  - pair: [he_who, she_who]
//	    effects:
//	      - create: leech
//	      - delete: she_who
//
// [Donburi]: https://github.com/yohamta/donburi
package kami
