// Package mmap maps files read-only into memory.
//
//	m, err := mmap.Open("clip_000000000000_keypoints.json")
//	if err != nil { ... }
//	defer m.Close()
//	m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix uses mmap(2) and madvise(2); Windows uses MapViewOfFile and ignores
// access hints. Close is idempotent; Bytes must not be used after it.
package mmap
