package virtual

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/dynbones/scene"
)

// DefaultParams are the chain parameters used by Humanoid.
var DefaultParams = scene.Params{UpdateRate: 60, Damping: 0.2, Elasticity: 0.1, Inertia: 0.3}

// Rig is a humanoid avatar with handles on the nodes, chains and colliders Humanoid creates.
type Rig struct {
	*Avatar

	Hips, Chest, Head, Tail       *Node
	LeftHand, RightHand           *Node
	LeftThigh, RightThigh         *Node
	Hair, TailChain               *Chain
	ChestCol, HeadCol             *Collider
	LeftHandCol, RightHandCol     *Collider
	LeftFingerCol, RightFingerCol *Collider
	LeftThighCol                  *Collider
}

// Humanoid builds a humanoid in T-pose scaled to eyeHeight with its feet at pos. The hips list both
// thighs before the spine, so leg colliders are discovered before the chest landmark. A tail hangs off
// the hips after the spine.
func Humanoid(name string, pos mgl32.Vec3, eyeHeight float32) *Rig {
	e := eyeHeight
	r := &Rig{Avatar: NewAvatar(name, pos)}

	r.Hips = r.RootNode.Add("Hips", mgl32.Vec3{0, 0.5 * e, 0})
	r.LeftThigh = r.Hips.Add("LeftUpperLeg", mgl32.Vec3{0.06 * e, -0.02 * e, 0})
	r.LeftThigh.Add("LeftLowerLeg", mgl32.Vec3{0, -0.22 * e, 0})
	r.RightThigh = r.Hips.Add("RightUpperLeg", mgl32.Vec3{-0.06 * e, -0.02 * e, 0})
	r.RightThigh.Add("RightLowerLeg", mgl32.Vec3{0, -0.22 * e, 0})

	spine := r.Hips.Add("Spine", mgl32.Vec3{0, 0.1 * e, 0})
	r.Chest = spine.Add("Chest", mgl32.Vec3{0, 0.15 * e, 0})
	neck := r.Chest.Add("Neck", mgl32.Vec3{0, 0.15 * e, 0})
	r.Head = neck.Add("Head", mgl32.Vec3{0, 0.08 * e, 0})

	hair0 := r.Head.Add("Hair0", mgl32.Vec3{0, 0, -0.05 * e})
	hair1 := hair0.Add("Hair1", mgl32.Vec3{0, -0.08 * e, 0})
	hair1.Add("Hair2", mgl32.Vec3{0, -0.08 * e, 0})

	leftArm := r.Chest.Add("LeftUpperArm", mgl32.Vec3{0.12 * e, 0.1 * e, 0})
	leftFore := leftArm.Add("LeftLowerArm", mgl32.Vec3{0.2 * e, 0, 0})
	r.LeftHand = leftFore.Add("LeftHand", mgl32.Vec3{0.23 * e, 0, 0})
	leftFinger := r.LeftHand.Add("LeftIndex", mgl32.Vec3{0.07 * e, 0, 0})

	rightArm := r.Chest.Add("RightUpperArm", mgl32.Vec3{-0.12 * e, 0.1 * e, 0})
	rightFore := rightArm.Add("RightLowerArm", mgl32.Vec3{-0.2 * e, 0, 0})
	r.RightHand = rightFore.Add("RightHand", mgl32.Vec3{-0.23 * e, 0, 0})
	rightFinger := r.RightHand.Add("RightIndex", mgl32.Vec3{-0.07 * e, 0, 0})

	r.Tail = r.Hips.Add("Tail0", mgl32.Vec3{0, 0, -0.08 * e})
	r.Tail.Add("Tail1", mgl32.Vec3{0, -0.1 * e, -0.05 * e})

	r.SetLandmark(scene.LandmarkChest, r.Chest)
	r.SetLandmark(scene.LandmarkLeftHand, r.LeftHand)
	r.SetLandmark(scene.LandmarkRightHand, r.RightHand)

	r.LeftThighCol = r.AddCollider(NewCollider(r.LeftThigh, 0.05*e))
	r.ChestCol = r.AddCollider(NewCollider(r.Chest, 0.09*e))
	r.HeadCol = r.AddCollider(NewCollider(r.Head, 0.07*e))
	r.LeftHandCol = r.AddCollider(NewCollider(r.LeftHand, 0.03*e))
	r.LeftFingerCol = r.AddCollider(NewCollider(leftFinger, 0.015*e))
	r.RightHandCol = r.AddCollider(NewCollider(r.RightHand, 0.03*e))
	r.RightFingerCol = r.AddCollider(NewCollider(rightFinger, 0.015*e))

	r.Hair = r.AddChain(NewChain(r.Head, hair0, 0.02*e, DefaultParams))
	r.Hair.Length = 0.5
	r.Hair.Cols = []scene.Collider{r.HeadCol}
	r.TailChain = r.AddChain(NewChain(r.Hips, r.Tail, 0.03*e, DefaultParams))
	return r
}
