package openpose

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/hupe1980/poseseq/codec"
	"github.com/hupe1980/poseseq/pose"
)

// PointsPerPart is the number of values per joint in pose_keypoints_2d.
const PointsPerPart = 3

// Document is one OpenPose keypoint file.
type Document struct {
	Version float64  `json:"version,omitempty"`
	People  []Person `json:"people"`
}

// Person is one detected subject of a Document.
type Person struct {
	PersonID        any       `json:"person_id,omitempty"`
	PoseKeypoints2D []float64 `json:"pose_keypoints_2d"`
}

// ParseDocument decodes an OpenPose keypoint file.
func ParseDocument(c codec.Codec, data []byte) (Document, error) {
	return codec.Decode[Document](c, data)
}

// Joints converts the flat keypoint triples of p into joints of s, dividing
// x by width and y by height. Ids whose triple is missing or short become
// the sentinel. The Background id is never populated.
func (p Person) Joints(s *pose.Skeleton, width, height float64) pose.Joints {
	kp := p.PoseKeypoints2D
	js := make(pose.Joints, s.Len())
	for _, id := range s.IDs() {
		if id == s.Background {
			continue
		}
		off := int(id) * PointsPerPart
		if off+PointsPerPart > len(kp) {
			js[id] = pose.Joint{}
			continue
		}
		js[id] = pose.Joint{
			X:          kp[off] / width,
			Y:          kp[off+1] / height,
			Confidence: kp[off+2],
		}
	}
	return js
}

// Policy selects the subject of a frame when several people are detected.
type Policy int

const (
	// LargestBBox keeps the person with the largest bounding box area.
	LargestBBox Policy = iota
	// RightmostBBox keeps the person whose bounding box reaches furthest right.
	RightmostBBox
)

func (p Policy) String() string {
	switch p {
	case LargestBBox:
		return "largest"
	case RightmostBBox:
		return "rightmost"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses the String form of a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "largest", "largest_bbox", "":
		return LargestBBox, nil
	case "rightmost", "rightmost_bbox":
		return RightmostBBox, nil
	default:
		return 0, fmt.Errorf("openpose: unknown policy %q", name)
	}
}

// Score rates a candidate subject. Degenerate boxes score 0.
func (p Policy) Score(js pose.Joints) float64 {
	box := pose.BBoxOf(js)
	if box.Degenerate() {
		return 0
	}
	switch p {
	case RightmostBBox:
		return box.X2
	default:
		return box.Area()
	}
}

// Select returns the candidate with the strictly greatest positive score.
// Ties keep the earlier candidate. ok is false when no candidate scores
// above zero.
func (p Policy) Select(candidates []pose.Joints) (best pose.Joints, ok bool) {
	var bestScore float64
	for _, js := range candidates {
		if score := p.Score(js); score > bestScore {
			best, bestScore, ok = js, score, true
		}
	}
	return best, ok
}

// Sentinel returns joints of s that are all the sentinel.
func Sentinel(s *pose.Skeleton) pose.Joints {
	js := make(pose.Joints, s.Len())
	for _, id := range s.IDs() {
		if id != s.Background {
			js[id] = pose.Joint{}
		}
	}
	return js
}

var frameName = regexp.MustCompile(`_(\d{12})_keypoints\.json$`)

// FrameNumber extracts the frame number from an OpenPose file name.
func FrameNumber(name string) (int, bool) {
	m := frameName.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
