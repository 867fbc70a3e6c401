// Package display runs a kami engine in an ebiten window.
//
// Each frame the left mouse button and cursor become the engine's
// [kami.FrameInput], converted to world space through a [Camera]. The
// right button pans, the wheel zooms toward the cursor and Home scrolls
// back to the origin. A [Renderer] draws widgets back-to-front by depth,
// popping new ones in and fading removed ones out.
//
//	engine, _ := kami.NewEngine(kami.EngineConfig{})
//	if err := display.Run(engine, display.RunConfig{Title: "kami", ShowFPS: true}); err != nil {
//		log.Fatal(err)
//	}
package display
