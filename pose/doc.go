// Package pose defines the per-frame body-pose model used by the search engine.
//
// # Coordinates
//
// Joint coordinates are frame-normalized to [0, 1]. The zero Joint {0, 0, 0}
// is a sentinel meaning "not detected"; it never denotes a real position.
//
// # Types
//
//   - Joint, Joints: a single landmark and the joint-id -> landmark mapping
//   - BBox: axis-aligned box (X1, X2, Y1, Y2) with a uniform accessor set
//   - Record: joints plus the subject box (a PoseRecord)
//   - Frame: a Record placed on the time axis by the loader
//   - Reference: a Record-like query key without time association
//   - Payload: SingleFrame | FrameList, the tagged interval payload
//   - Skeleton: explicit joint name/index table (Body25, COCO18)
//
// Records are produced once by a loader and treated as immutable afterwards.
package pose
