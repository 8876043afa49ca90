// Package openpose loads OpenPose keypoint output into pose frames.
//
// OpenPose writes one JSON document per video frame:
//
//	{"people": [{"pose_keypoints_2d": [x0, y0, c0, x1, y1, c1, ...]}]}
//
// named <video>_<frame:12d>_keypoints.json. A Loader reads every document
// under a blob prefix, keeps one subject per frame (see Policy), divides pixel
// coordinates by the video size and places frame i at [i/FPS, (i+1)/FPS).
//
// Reference poses exported from a pose editor use the same document format
// and are normalized by the editor canvas instead (see LoadReference).
package openpose
