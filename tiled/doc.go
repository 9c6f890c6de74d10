// Package tiled loads Tiled tile maps in both the TMX (XML) and TMJ (JSON)
// wire formats into one unified structure set.
//
// A loaded [Map] owns its tilesets (atlas images strip-sliced into per-tile
// subimages), tile layers (decoded flat arrays of global tile ids), image
// layers, and object groups. Layer data supports the csv encoding and the
// base64 encoding with zlib, gzip, or chunked compression.
//
// Global tile ids resolve across tilesets of differing tile counts with
// [Map.ResolveCell]; the top three bits of a gid carry the standard Tiled
// flip flags and are masked off before resolution.
//
// [Map.Optimize] flattens every tile layer into a cached raster image layer:
// full-map redraws become a handful of image blits instead of per-cell
// draws, trading GPU memory for draw-call count. The pass is destructive —
// there is no un-optimize.
//
// Tileset documents referenced by source path are shared through a
// [TilesetCache]. The package-level default cache is safe only under
// single-threaded loading, like the rest of rowan.
package tiled
