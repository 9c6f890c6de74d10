package puppet

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on a puppet node
// simultaneously. Create one via the convenience constructors
// (TweenTranslation, TweenOpacity, TweenZSort) and call Update(dt) each
// frame. The group refreshes the node's subtree transforms after each write;
// call Puppet.Update yourself when a zsort tween needs the draw list
// re-sorted.
//
// There is no global animation manager — users call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	fields [4]*float64
	count  int
	node   *Node
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.node != nil {
		g.node.RefreshTransforms()
	}
}

// TweenTranslation creates a TweenGroup that animates the node's X and Y
// translation to the given values over the specified duration.
func TweenTranslation(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, node: node}
	g.tweens[0] = gween.New(float32(node.Transform.Translation[0]), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(node.Transform.Translation[1]), float32(toY), duration, fn)
	g.fields[0] = &node.Transform.Translation[0]
	g.fields[1] = &node.Transform.Translation[1]
	return g
}

// TweenScale creates a TweenGroup that animates the node's X and Y scale.
func TweenScale(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, node: node}
	g.tweens[0] = gween.New(float32(node.Transform.Scale[0]), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(node.Transform.Scale[1]), float32(toY), duration, fn)
	g.fields[0] = &node.Transform.Scale[0]
	g.fields[1] = &node.Transform.Scale[1]
	return g
}

// TweenOpacity creates a TweenGroup that animates a part's opacity.
func TweenOpacity(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, node: node}
	g.tweens[0] = gween.New(float32(node.Opacity), float32(to), duration, fn)
	g.fields[0] = &node.Opacity
	return g
}

// TweenZSort creates a TweenGroup that animates the node's depth bias.
// The owning puppet's draw list must be refreshed with Update to pick up
// the new ordering.
func TweenZSort(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, node: node}
	g.tweens[0] = gween.New(float32(node.ZSort), float32(to), duration, fn)
	g.fields[0] = &node.ZSort
	return g
}
