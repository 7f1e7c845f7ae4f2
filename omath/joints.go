package omath

import (
	"iter"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/dynbones/scene"
)

// Joints returns the world position and radius of every simulated joint of c, walking the joint
// hierarchy depth-first from its root. Excluded children and their subtrees are skipped. A leaf emits
// one extra terminal joint when the chain has an end length or end offset. With a radius curve the root
// joint samples the curve at 0 and terminal joints at 1; all other joints use the base radius.
// The sequence may be iterated any number of times and has no side effects.
func Joints(c scene.Chain) iter.Seq2[mgl32.Vec3, float32] {
	return func(yield func(mgl32.Vec3, float32) bool) {
		if c == nil || !c.Alive() {
			return
		}
		root := c.Root()
		if root == nil || !root.Alive() {
			return
		}
		w := jointWalker{
			chain:     c,
			root:      root,
			excluded:  c.Exclusions(),
			radius:    ChainRadius(c),
			curve:     c.RadiusCurve(),
			endLength: c.EndLength(),
			endOffset: c.EndOffset(),
		}
		w.variable = w.curve != nil && w.curve.Keys() > 0
		w.next(root, yield)
	}
}

// JointCount returns the number of values Joints yields for c.
func JointCount(c scene.Chain) (n int) {
	for range Joints(c) {
		n++
	}
	return n
}

type jointWalker struct {
	chain    scene.Chain
	root     scene.Node
	excluded []scene.Node

	radius   float32
	curve    scene.Curve
	variable bool

	endLength float32
	endOffset mgl32.Vec3
}

func (w jointWalker) next(t scene.Node, yield func(mgl32.Vec3, float32) bool) bool {
	r := w.radius
	if t == w.root && w.variable {
		r *= w.curve.Evaluate(0)
	}
	if !yield(t.Position(), r) {
		return false
	}

	children := t.Children()
	for _, child := range children {
		if w.isExcluded(child) || !child.Alive() {
			continue
		}
		if !w.next(child, yield) {
			return false
		}
	}

	if len(children) > 0 || (w.endLength <= 0 && w.endOffset == (mgl32.Vec3{})) {
		return true
	}
	r = w.radius
	if w.variable {
		r *= w.curve.Evaluate(1)
	}
	return yield(t.TransformPoint(w.terminalOffset(t)), r)
}

// terminalOffset returns the local offset of the synthetic joint past leaf t.
func (w jointWalker) terminalOffset(t scene.Node) mgl32.Vec3 {
	if w.endLength > 0 {
		parent := t.Parent()
		if parent == nil {
			return mgl32.Vec3{w.endLength, 0, 0}
		}
		pos := t.Position()
		return t.InverseTransformPoint(pos.Mul(2).Sub(parent.Position())).Mul(w.endLength)
	}
	return t.InverseTransformPoint(w.chain.Node().TransformDirection(w.endOffset).Add(t.Position()))
}

func (w jointWalker) isExcluded(n scene.Node) bool {
	for _, e := range w.excluded {
		if e == n {
			return true
		}
	}
	return false
}
