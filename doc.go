// Package rowan is a layered 2D content framework for [Ebitengine].
//
// Rowan provides the shared math and offscreen-rendering primitives used by
// its asset subsystems: lockable transforms, 4x4 matrices, colors, rects,
// blend modes, and a persistent RenderTexture canvas.
//
// The interesting parts live in the subpackages:
//
//   - puppet — loads rigged 2D models from a tagged binary container
//     (JSON node tree + embedded textures), builds world transforms and
//     depth-sorted draw lists, and renders them with DrawTriangles.
//   - tiled — parses TMX and TMJ tile maps, decodes layer data, resolves
//     global tile indices across tilesets, and can flatten tile layers
//     into cached raster images for cheap redraws.
//   - assets — a YAML manifest that preloads puppets, maps, and images
//     in one call.
//
// Rowan is single-threaded by design, like the engine it targets: load and
// mutate content from the game loop goroutine only.
//
// [Ebitengine]: https://ebitengine.org
package rowan
