package pose

import (
	"fmt"
	"slices"
)

// Skeleton is the joint name/index table of a keypoint model.
// Parts[i] is the name of JointID(i). Background names the id that never
// carries a landmark and is ignored by the detection gate.
type Skeleton struct {
	Name       string
	Parts      []string
	Background JointID
}

// Body25 is the OpenPose BODY_25 layout plus the Background id.
var Body25 = &Skeleton{
	Name: "BODY_25",
	Parts: []string{
		"Nose", "Neck", "RShoulder", "RElbow", "RWrist",
		"LShoulder", "LElbow", "LWrist", "MidHip", "RHip",
		"RKnee", "RAnkle", "LHip", "LKnee", "LAnkle",
		"REye", "LEye", "REar", "LEar", "LBigToe",
		"LSmallToe", "LHeel", "RBigToe", "RSmallToe", "RHeel",
		"Background",
	},
	Background: 25,
}

// COCO18 is the OpenPose COCO layout plus the Background id.
var COCO18 = &Skeleton{
	Name: "COCO",
	Parts: []string{
		"Nose", "Neck", "RShoulder", "RElbow", "RWrist",
		"LShoulder", "LElbow", "LWrist", "RHip", "RKnee",
		"RAnkle", "LHip", "LKnee", "LAnkle", "REye",
		"LEye", "REar", "LEar", "Background",
	},
	Background: 18,
}

// SkeletonByName returns a built-in skeleton.
func SkeletonByName(name string) (*Skeleton, error) {
	switch name {
	case "BODY_25", "body25", "":
		return Body25, nil
	case "COCO", "coco", "coco18":
		return COCO18, nil
	default:
		return nil, fmt.Errorf("pose: unknown skeleton %q", name)
	}
}

// Len returns the number of joint ids, Background included.
func (s *Skeleton) Len() int { return len(s.Parts) }

// IDs returns all joint ids in ascending order.
func (s *Skeleton) IDs() []JointID {
	ids := make([]JointID, len(s.Parts))
	for i := range ids {
		ids[i] = JointID(i)
	}
	return ids
}

// IndexOf returns the id of the named part.
func (s *Skeleton) IndexOf(name string) (JointID, bool) {
	i := slices.Index(s.Parts, name)
	if i < 0 {
		return 0, false
	}
	return JointID(i), true
}

// MustIndex is IndexOf that panics on unknown names.
// Use it for compile-time constant part names only.
func (s *Skeleton) MustIndex(name string) JointID {
	id, ok := s.IndexOf(name)
	if !ok {
		panic(fmt.Sprintf("pose: %s has no part %q", s.Name, name))
	}
	return id
}

// NameOf returns the part name for id.
func (s *Skeleton) NameOf(id JointID) string {
	if id < 0 || int(id) >= len(s.Parts) {
		return fmt.Sprintf("Unknown(%d)", id)
	}
	return s.Parts[id]
}
