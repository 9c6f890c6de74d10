// Package puppet loads and renders rigged 2D models.
//
// A puppet is a tree of transformable nodes, some of which carry a textured
// triangle mesh ("parts"). Puppets are stored in a tagged binary container:
// a magic header, a length-prefixed JSON document describing the node tree,
// and a section of length-prefixed encoded texture blobs.
//
// Load parses the container, decodes every texture, builds the node tree
// with world transforms composed top-down, and resolves the initial draw
// list. After mutating transforms or structure, call [Puppet.Update] to
// refresh the draw list — it is not invalidated automatically.
//
//	p, err := puppet.LoadFile("chars/aka.inp")
//	if err != nil { ... }
//	p.Draw(screen, puppet.DrawOptions{X: 320, Y: 400})
package puppet
