// Package snapshot persists loaded frame streams in a compact binary form so
// a video's keypoints need to be parsed only once.
//
// # Format
//
//	"PSNP" | version u8 | compression u8 | codec name length u8 | codec name
//	block*: uncompressed u32 | compressed u32 | data
//
// Integers are little endian. A block whose compressed size is 0 is stored
// raw. The concatenated block data is the codec encoding of a Snapshot.
package snapshot
