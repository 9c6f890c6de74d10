package puppet

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/phanxgames/rowan"
)

// Wire structs for the JSON document inside the container. Optional fields
// use pointers so "absent" and "zero" stay distinguishable; defaults are
// applied in one place (buildNode) rather than probed ad hoc.

type jsonDocument struct {
	Meta  jsonMeta  `json:"meta"`
	Nodes *jsonNode `json:"nodes"`
}

type jsonMeta struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Authors     []string `json:"authors,omitempty"`
	ThumbnailID *uint32  `json:"thumbnail_id,omitempty"`
}

type jsonNode struct {
	Type          string         `json:"type"`
	UUID          uint32         `json:"uuid"`
	Name          string         `json:"name,omitempty"`
	Enabled       *bool          `json:"enabled,omitempty"`
	ZSort         float64        `json:"zsort"`
	Transform     *jsonTransform `json:"transform,omitempty"`
	Children      []jsonNode     `json:"children,omitempty"`
	Mesh          *jsonMesh      `json:"mesh,omitempty"`
	Textures      []int          `json:"textures,omitempty"`
	Opacity       *float64       `json:"opacity,omitempty"`
	MaskMode      string         `json:"mask_mode,omitempty"`
	MaskThreshold float64        `json:"mask_threshold,omitempty"`
	MaskedBy      []uint32       `json:"masked_by,omitempty"`
}

type jsonTransform struct {
	Trans     [3]float64 `json:"trans"`
	TransLock *[3]bool   `json:"trans_lock,omitempty"`
	Rot       [3]float64 `json:"rot"`
	RotLock   *[3]bool   `json:"rot_lock,omitempty"`
	Scale     [2]float64 `json:"scale"`
	ScaleLock *[2]bool   `json:"scale_lock,omitempty"`
}

const (
	maskModeTagMask  = "Mask"
	maskModeTagDodge = "DodgeMask"
)

type jsonMesh struct {
	Verts   []float32 `json:"verts"`
	UVs     []float32 `json:"uvs,omitempty"`
	Indices []uint16  `json:"indices,omitempty"`
}

// parseDocument decodes the JSON block into a fresh meta + node tree.
func parseDocument(doc []byte, p *Puppet) error {
	var wire jsonDocument
	if err := json.Unmarshal(doc, &wire); err != nil {
		return fmt.Errorf("puppet: parse document: %w", err)
	}

	p.Meta = Meta{
		Name:        wire.Meta.Name,
		Version:     wire.Meta.Version,
		Authors:     wire.Meta.Authors,
		ThumbnailID: wire.Meta.ThumbnailID,
	}
	if wire.Nodes != nil {
		p.Root = buildNode(*wire.Nodes, nil, p)
	}
	if p.Root == nil {
		p.Root = newNode(KindNode)
		p.Root.puppet = p
	}
	return nil
}

// buildNode constructs the concrete node for a wire entry, populates common
// then kind-specific fields, and recurses into children with this node as
// parent. The world transform is composed immediately — parents are always
// visited before their children in the top-down parse.
//
// Unknown kind tags are intentionally unsupported: the branch is skipped,
// not an error.
func buildNode(wire jsonNode, parent *Node, p *Puppet) *Node {
	kind, ok := kindFromTag(wire.Type)
	if !ok {
		if debugEnabled {
			log.Printf("puppet: ignoring node %d with unknown type %q", wire.UUID, wire.Type)
		}
		return nil
	}

	n := newNode(kind)
	n.ID = wire.UUID
	n.Name = wire.Name
	n.puppet = p
	if wire.Enabled != nil {
		n.Enabled = *wire.Enabled
	}
	n.ZSort = wire.ZSort
	if wire.Transform != nil {
		n.Transform = decodeTransform(*wire.Transform)
	}

	switch kind {
	case KindDrawable, KindPart, KindMask, KindPathDeform:
		if wire.Mesh != nil {
			n.Mesh = BuildMesh(wire.Mesh.Verts, wire.Mesh.UVs, wire.Mesh.Indices)
		}
	}
	if kind == KindPart {
		n.Textures = wire.Textures
		if wire.Opacity != nil {
			n.Opacity = *wire.Opacity
		}
		if wire.MaskMode == maskModeTagDodge {
			n.MaskMode = MaskModeDodge
		}
		n.MaskThreshold = wire.MaskThreshold
		n.MaskedBy = wire.MaskedBy
	}

	if parent != nil {
		parent.AddChild(n)
	} else {
		n.world = n.Transform.Matrix()
	}

	for _, child := range wire.Children {
		buildNode(child, n, p)
	}
	return n
}

func decodeTransform(wire jsonTransform) rowan.Transform {
	t := rowan.Transform{
		Translation: wire.Trans,
		Rotation:    wire.Rot,
		Scale:       wire.Scale,
	}
	if wire.TransLock != nil {
		t.TranslationLock = *wire.TransLock
	}
	if wire.RotLock != nil {
		t.RotationLock = *wire.RotLock
	}
	if wire.ScaleLock != nil {
		t.ScaleLock = *wire.ScaleLock
	}
	return t
}

// encodeDocument is the serialization mirror of parseDocument.
func encodeDocument(p *Puppet) ([]byte, error) {
	wire := jsonDocument{
		Meta: jsonMeta{
			Name:        p.Meta.Name,
			Version:     p.Meta.Version,
			Authors:     p.Meta.Authors,
			ThumbnailID: p.Meta.ThumbnailID,
		},
	}
	if p.Root != nil {
		root := encodeNode(p.Root)
		wire.Nodes = &root
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("puppet: encode document: %w", err)
	}
	return data, nil
}

func encodeNode(n *Node) jsonNode {
	enabled := n.Enabled
	wire := jsonNode{
		Type:    n.Kind.tag(),
		UUID:    n.ID,
		Name:    n.Name,
		Enabled: &enabled,
		ZSort:   n.ZSort,
	}
	tf := encodeTransform(n.Transform)
	wire.Transform = &tf

	if n.Mesh != nil {
		wire.Mesh = &jsonMesh{
			Verts:   n.Mesh.Verts,
			UVs:     n.Mesh.UVs,
			Indices: n.Mesh.Indices,
		}
	}
	if n.Kind == KindPart {
		wire.Textures = n.Textures
		opacity := n.Opacity
		wire.Opacity = &opacity
		if n.MaskMode == MaskModeDodge {
			wire.MaskMode = maskModeTagDodge
		} else if len(n.MaskedBy) > 0 {
			wire.MaskMode = maskModeTagMask
		}
		wire.MaskThreshold = n.MaskThreshold
		wire.MaskedBy = n.MaskedBy
	}

	for _, child := range n.children {
		wire.Children = append(wire.Children, encodeNode(child))
	}
	return wire
}

func encodeTransform(t rowan.Transform) jsonTransform {
	wire := jsonTransform{
		Trans: t.Translation,
		Rot:   t.Rotation,
		Scale: t.Scale,
	}
	if t.TranslationLock != [3]bool{} {
		lock := t.TranslationLock
		wire.TransLock = &lock
	}
	if t.RotationLock != [3]bool{} {
		lock := t.RotationLock
		wire.RotLock = &lock
	}
	if t.ScaleLock != [2]bool{} {
		lock := t.ScaleLock
		wire.ScaleLock = &lock
	}
	return wire
}
