package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/poseseq/blobstore"
	"github.com/hupe1980/poseseq/codec"
	"github.com/hupe1980/poseseq/pose"
	"github.com/hupe1980/poseseq/resource"
)

const (
	// Magic opens every snapshot.
	Magic = "PSNP"
	// Version is the current format version.
	Version uint8 = 1

	// DefaultBlockSize is the uncompressed size of a full block.
	DefaultBlockSize = 256 * 1024
	// MaxBlockSize bounds the uncompressed size accepted by the reader.
	MaxBlockSize = 64 * 1024 * 1024
)

var (
	// ErrCorrupt is returned for malformed headers or blocks.
	ErrCorrupt = errors.New("snapshot: corrupt data")
	// ErrVersion is returned for snapshots written by a newer format version.
	ErrVersion = errors.New("snapshot: unsupported version")
)

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}

// Snapshot is a persisted frame stream.
type Snapshot struct {
	// Skeleton names the keypoint layout of the frames (see pose.SkeletonByName).
	Skeleton string `json:"skeleton"`
	// Source is the blob prefix the frames were loaded from.
	Source string       `json:"source,omitempty"`
	Frames []pose.Frame `json:"frames"`
}

type options struct {
	compression Compression
	codec       codec.Codec
	blockSize   int
	controller  *resource.Controller
}

// Option configures Encode and Save.
type Option func(*options)

// WithCompression sets the block compression. Default: CompressionZSTD.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCodec sets the codec used for the body. Default: codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithBlockSize sets the uncompressed block size.
func WithBlockSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.blockSize = min(n, MaxBlockSize)
		}
	}
}

// WithController rate limits the bytes written by Save.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

func applyOptions(opts []Option) options {
	o := options{
		compression: CompressionZSTD,
		codec:       codec.Default,
		blockSize:   DefaultBlockSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Encode writes s to w.
func Encode(w io.Writer, s Snapshot, opts ...Option) error {
	o := applyOptions(opts)
	if !o.compression.valid() {
		return fmt.Errorf("snapshot: invalid compression %s", o.compression)
	}
	name := o.codec.Name()
	if len(name) > 255 {
		return fmt.Errorf("snapshot: codec name %q too long", name)
	}

	body, err := o.codec.Marshal(s)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}

	header := make([]byte, 0, len(Magic)+3+len(name))
	header = append(header, Magic...)
	header = append(header, Version, byte(o.compression), byte(len(name)))
	header = append(header, name...)
	if _, err := w.Write(header); err != nil {
		return err
	}

	bw := newBlockWriter(w, o.compression, o.blockSize)
	if _, err := bw.Write(body); err != nil {
		return err
	}
	return bw.Flush()
}

// Decode reads a snapshot from data.
func Decode(data []byte) (Snapshot, error) {
	h, err := parseHeader(data)
	if err != nil {
		return Snapshot{}, err
	}

	body, err := readBlocks(data[h.size:], h.Compression)
	if err != nil {
		return Snapshot{}, err
	}

	s, err := codec.Decode[Snapshot](h.codec, body)
	if err != nil {
		return Snapshot{}, corrupt("%v", err)
	}
	return s, nil
}

// Header describes a snapshot without decoding its frames.
type Header struct {
	Version     uint8
	Compression Compression
	Codec       string
}

type header struct {
	Header
	codec codec.Codec
	size  int
}

// ReadHeader parses the header at the start of data.
func ReadHeader(data []byte) (Header, error) {
	h, err := parseHeader(data)
	return h.Header, err
}

func parseHeader(data []byte) (header, error) {
	fixed := len(Magic) + 3
	if len(data) < fixed || !bytes.Equal(data[:len(Magic)], []byte(Magic)) {
		return header{}, corrupt("bad magic")
	}

	h := header{Header: Header{
		Version:     data[len(Magic)],
		Compression: Compression(data[len(Magic)+1]),
	}}
	if h.Version == 0 || h.Version > Version {
		return header{}, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	if !h.Compression.valid() {
		return header{}, corrupt("unknown compression %d", uint8(h.Compression))
	}

	n := int(data[len(Magic)+2])
	if len(data) < fixed+n {
		return header{}, corrupt("truncated codec name")
	}
	h.Codec = string(data[fixed : fixed+n])
	h.size = fixed + n

	c, err := codec.Lookup(h.Codec)
	if err != nil {
		return header{}, corrupt("%v", err)
	}
	h.codec = c
	return h, nil
}

func readBlocks(data []byte, c Compression) ([]byte, error) {
	var out []byte
	for off := 0; off < len(data); {
		if len(data)-off < blockHeaderSize {
			return nil, corrupt("truncated block header at %d", off)
		}
		uncompressed := binary.LittleEndian.Uint32(data[off:])
		compressed := binary.LittleEndian.Uint32(data[off+4:])
		off += blockHeaderSize

		if uncompressed > MaxBlockSize {
			return nil, corrupt("block of %d bytes exceeds limit", uncompressed)
		}

		if compressed == 0 {
			if uint64(len(data)-off) < uint64(uncompressed) {
				return nil, corrupt("block extends beyond data")
			}
			out = append(out, data[off:off+int(uncompressed)]...)
			off += int(uncompressed)
			continue
		}

		if uint64(len(data)-off) < uint64(compressed) {
			return nil, corrupt("compressed block extends beyond data")
		}
		var err error
		out, err = decompressBlock(out, data[off:off+int(compressed)], c, uncompressed)
		if err != nil {
			return nil, err
		}
		off += int(compressed)
	}
	return out, nil
}

// Save writes s to name in store.
func Save(ctx context.Context, store blobstore.BlobStore, name string, s Snapshot, opts ...Option) error {
	o := applyOptions(opts)

	var buf bytes.Buffer
	if err := Encode(resource.NewRateLimitedWriter(ctx, &buf, o.controller), s, opts...); err != nil {
		return err
	}
	if err := store.Put(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("snapshot: save %s: %w", name, err)
	}
	return nil
}

// Load reads the snapshot stored at name.
func Load(ctx context.Context, store blobstore.BlobStore, name string) (Snapshot, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: load %s: %w", name, err)
	}
	s, err := Decode(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: load %s: %w", name, err)
	}
	return s, nil
}
