// Package islet renders small animated 3D and pixel-art scenes for
// [Ebitengine]: a floating-island diorama with a day/night cycle, a set of
// loading screens, and a frame-sequence player.
//
// # Quick start
//
// Scenes attach to a [Surface], which owns the per-frame [Scheduler] and the
// pointer. [Run] opens a window and drives the surface:
//
//	sc := islet.NewIslandScene(islet.DefaultIslandOptions())
//	s := islet.NewSurface("island", 640, 420, nil)
//	detach := sc.Attach(s)
//	defer detach()
//	islet.Run(s, islet.RunConfig{Title: "Island", Width: 640, Height: 420})
//
// A Surface is itself an [ebiten.Game], so it can also be embedded in a host
// game loop. [Surface.Step] advances the scheduler without reading input,
// which is how tests drive scenes headless.
//
// # Scene graph
//
// 3D content is a tree of [Node] values rooted at [Scene.Root]. Children
// inherit their parent's transform. Meshes come from [NewMesh] over a
// [Geometry], points from [NewPoints], and [NewGroup] makes empty pivots:
//
//	pivot := islet.NewGroup("float")
//	scene.Root().AddChild(pivot)
//	pivot.AddChild(islet.NewMesh("palm", geo, islet.Material{Color: islet.Hex("#3f7d3a")}))
//
// The renderer projects triangles on the CPU, sorts them back to front and
// submits them to Ebitengine in batches. Lighting is one ambient term plus
// directional lights evaluated per face.
//
// # Motion
//
// Procedural movement lives in a [MotionWorld]: swimmers circling a lagoon,
// floaters hovering, parallax tilting toward the pointer. Handles returned by
// the Add methods stay valid until the state is removed.
//
// # Loaders
//
// [CondorLoader], [PuppyLoader] and [NerdLoader] paint into a low-resolution
// [PixelCanvas] that is presented at the largest integer scale fitting the
// surface. [ChacanaLoader] is a full 3D loading screen built on the same
// scene graph as the island.
//
// # Configuration and logging
//
// The preset subpackage loads island options from TOML or YAML and can watch
// the file for live edits. Logging goes through a [github.com/charmbracelet/log]
// logger; see [SetLogger] and [NewFileLogger].
//
// [Ebitengine]: https://ebitengine.org
package islet
