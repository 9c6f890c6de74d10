// Package assets loads a game's asset catalog from a YAML manifest: named
// puppets, tile maps and standalone images, resolved relative to the
// manifest file.
package assets
