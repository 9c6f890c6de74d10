package puppet

import (
	"github.com/phanxgames/rowan"
)

// Kind discriminates the node variants. A single flat struct is used for all
// kinds to avoid interface dispatch on the hot path; kind-specific fields are
// simply unused on other kinds.
type Kind uint8

const (
	KindNode Kind = iota
	KindDrawable
	KindPathDeform
	KindPart
	KindMask
)

// kind tag strings as they appear in the wire format.
const (
	tagNode       = "Node"
	tagDrawable   = "Drawable"
	tagPathDeform = "PathDeform"
	tagPart       = "Part"
	tagMask       = "Mask"
)

func kindFromTag(tag string) (Kind, bool) {
	switch tag {
	case tagNode:
		return KindNode, true
	case tagDrawable:
		return KindDrawable, true
	case tagPathDeform:
		return KindPathDeform, true
	case tagPart:
		return KindPart, true
	case tagMask:
		return KindMask, true
	}
	return 0, false
}

func (k Kind) tag() string {
	switch k {
	case KindDrawable:
		return tagDrawable
	case KindPathDeform:
		return tagPathDeform
	case KindPart:
		return tagPart
	case KindMask:
		return tagMask
	}
	return tagNode
}

// String returns the wire tag for the kind.
func (k Kind) String() string { return k.tag() }

// MaskMode selects how a part is combined with the nodes masking it.
type MaskMode uint8

const (
	// MaskModeMask clips the part to the mask's coverage.
	MaskModeMask MaskMode = iota
	// MaskModeDodge inverts the clip: the part shows where the mask is absent.
	MaskModeDodge
)

// Node is a single element of the puppet scene graph.
type Node struct {
	// Identity. ID is unique within a puppet; Name is not required to be.
	ID   uint32
	Name string
	Kind Kind

	// Enabled gates the whole subtree: a disabled node and all its
	// descendants are excluded from the draw list.
	Enabled bool

	// ZSort is the depth bias. A node's effective depth is ZSort plus the
	// effective depth of its parent.
	ZSort float64

	Transform rowan.Transform

	// Hierarchy. Children are owned; Parent and puppet are back-references.
	Parent   *Node
	children []*Node
	puppet   *Puppet

	// world is the cached world matrix, composed during parse and refreshed
	// by RefreshTransforms.
	world rowan.Mat4

	// Drawable kinds (Drawable, Part, Mask, PathDeform).
	Mesh *Mesh

	// Part only.
	Textures      []int    // slot indices into the owning Puppet's texture array
	Opacity       float64  // [0, 1]
	MaskMode      MaskMode
	MaskThreshold float64
	MaskedBy      []uint32 // IDs of nodes that mask this part
}

// Children returns the child list in insertion order.
// The returned slice must not be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild appends child to this node, setting puppet back-references
// through the child's subtree and recomputing its world transforms from
// this node's.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	child.adopt(n.puppet)
	n.children = append(n.children, child)
	child.RefreshTransforms()
}

func (n *Node) adopt(p *Puppet) {
	n.puppet = p
	for _, c := range n.children {
		c.adopt(p)
	}
}

// WorldTransform returns the cached world matrix: the node's local matrix
// composed with its parent's world matrix (the root uses its local matrix
// alone). Stale after mutating Transform until RefreshTransforms is called.
func (n *Node) WorldTransform() rowan.Mat4 {
	return n.world
}

// EffectiveZSort returns the node's depth bias accumulated over raw parent
// chain: own ZSort plus every ancestor's.
func (n *Node) EffectiveZSort() float64 {
	z := n.ZSort
	for p := n.Parent; p != nil; p = p.Parent {
		z += p.ZSort
	}
	return z
}

// RefreshTransforms recomputes the world matrices for this node and its
// entire subtree from the parent's cached world matrix. Call after editing
// transforms; the load path does this implicitly.
func (n *Node) RefreshTransforms() {
	local := n.Transform.Matrix()
	if n.Parent != nil {
		n.world = n.Parent.world.Mul(local)
	} else {
		n.world = local
	}
	for _, c := range n.children {
		c.RefreshTransforms()
	}
}

// FindByName returns the first node with the given name in pre-order
// traversal, or nil if no such node exists anywhere in the subtree.
func (n *Node) FindByName(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// FindByID returns the first node with the given id in pre-order traversal,
// or nil if no such node exists anywhere in the subtree.
func (n *Node) FindByID(id uint32) *Node {
	if n.ID == id {
		return n
	}
	for _, c := range n.children {
		if found := c.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// newNode returns a node with the common defaults applied.
func newNode(kind Kind) *Node {
	return &Node{
		Kind:      kind,
		Enabled:   true,
		Opacity:   1,
		Transform: rowan.IdentityTransform(),
		world:     rowan.Mat4Identity(),
	}
}
