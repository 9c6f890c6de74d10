package puppet

import (
	"fmt"
	"os"
)

// debugEnabled toggles stderr logging for this package.
var debugEnabled bool

// SetDebug toggles debug logging for the puppet package.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// Meta is the puppet's descriptive metadata.
type Meta struct {
	Name    string
	Version string
	Authors []string

	// ThumbnailID is the texture slot to use as a thumbnail, or nil.
	ThumbnailID *uint32
}

// Puppet owns a node tree and the texture array its parts reference.
type Puppet struct {
	Meta     Meta
	Root     *Node
	Textures []*Texture

	drawList []*Node
}

// Load parses a puppet container from a byte buffer. On any error the
// returned puppet is nil — there is no partial result to discard.
func Load(data []byte) (*Puppet, error) {
	doc, textures, err := readContainer(data)
	if err != nil {
		return nil, err
	}
	p := &Puppet{Textures: textures}
	if err := parseDocument(doc, p); err != nil {
		return nil, err
	}
	p.Update()
	return p, nil
}

// LoadFile reads and parses a puppet container from disk.
func LoadFile(path string) (*Puppet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("puppet: read %s: %w", path, err)
	}
	p, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("puppet: load %s: %w", path, err)
	}
	return p, nil
}

// Save serializes the puppet back into the container format. Node trees
// round-trip exactly; textures are re-encoded as PNG.
func (p *Puppet) Save() ([]byte, error) {
	doc, err := encodeDocument(p)
	if err != nil {
		return nil, err
	}
	return writeContainer(doc, p.Textures)
}

// SaveFile writes the serialized container to disk.
func (p *Puppet) SaveFile(path string) error {
	data, err := p.Save()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("puppet: write %s: %w", path, err)
	}
	return nil
}

// Update recomputes the draw list: every enabled Part in the tree, ordered
// by descending effective depth. Call after any structural, enabled, or
// zsort change — the list is not invalidated automatically.
func (p *Puppet) Update() {
	p.drawList = p.drawList[:0]
	if p.Root != nil {
		p.drawList = scanParts(p.Root, p.drawList)
	}
	sortNodeDraw(p.drawList)
}

// DrawList returns the resolved draw list from the last Update call.
// The returned slice must not be mutated by the caller.
func (p *Puppet) DrawList() []*Node {
	return p.drawList
}

// FindNode returns the first node with the given name, or nil.
func (p *Puppet) FindNode(name string) *Node {
	if p.Root == nil {
		return nil
	}
	return p.Root.FindByName(name)
}

// FindNodeByID returns the node with the given id, or nil.
func (p *Puppet) FindNodeByID(id uint32) *Node {
	if p.Root == nil {
		return nil
	}
	return p.Root.FindByID(id)
}
