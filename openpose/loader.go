package openpose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"runtime"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/poseseq/blobstore"
	"github.com/hupe1980/poseseq/pose"
	"github.com/hupe1980/poseseq/resource"
)

var (
	// ErrNoKeypoints is returned when a prefix holds no keypoint files.
	ErrNoKeypoints = errors.New("openpose: no keypoint files")
	// ErrNoPeople is returned when a reference document has no person.
	ErrNoPeople = errors.New("openpose: no people in document")
)

// VideoMeta describes the video the keypoints were extracted from.
type VideoMeta struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	FPS    float64 `json:"fps"`
}

// Validate reports whether every field is positive.
func (m VideoMeta) Validate() error {
	if !(m.Width > 0) || !(m.Height > 0) || !(m.FPS > 0) {
		return fmt.Errorf("openpose: invalid video meta %+v", m)
	}
	return nil
}

// Loader reads a video's keypoint files from a blob store.
type Loader struct {
	store blobstore.BlobStore
	meta  VideoMeta
	opts  options
}

// NewLoader creates a loader for the video described by meta.
func NewLoader(store blobstore.BlobStore, meta VideoMeta, opts ...Option) *Loader {
	return &Loader{
		store: store,
		meta:  meta,
		opts:  applyOptions(opts),
	}
}

type keypointFile struct {
	name  string
	index int
}

// Load reads every .json blob under prefix and returns one frame per file,
// ordered by frame number. When a file name carries no OpenPose frame
// number, all files are ordered by name and indexed by position.
func (l *Loader) Load(ctx context.Context, prefix string) ([]pose.Frame, error) {
	if err := l.meta.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	files, err := l.list(ctx, prefix)
	if err != nil {
		return nil, err
	}

	frames := make([]pose.Frame, len(files))
	var empty atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers())
	for i, f := range files {
		g.Go(func() error {
			doc, err := readDocument(gctx, l.store, f.name, l.opts)
			if err != nil {
				return fmt.Errorf("openpose: %s: %w", f.name, err)
			}
			frame, ok := l.frame(f.index, doc)
			if !ok {
				empty.Add(1)
			}
			frames[i] = frame
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.opts.logger.DebugContext(ctx, "openpose: loaded keypoints",
		"prefix", prefix,
		"frames", len(frames),
		"empty_frames", empty.Load(),
		"duration", time.Since(start),
	)
	return frames, nil
}

func (l *Loader) list(ctx context.Context, prefix string) ([]keypointFile, error) {
	names, err := l.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("openpose: list %q: %w", prefix, err)
	}

	files := make([]keypointFile, 0, len(names))
	numbered := true
	for _, name := range names {
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		n, ok := FrameNumber(name)
		numbered = numbered && ok
		files = append(files, keypointFile{name: name, index: n})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w under %q", ErrNoKeypoints, prefix)
	}

	if !numbered {
		slices.SortFunc(files, func(a, b keypointFile) int { return strings.Compare(a.name, b.name) })
		for i := range files {
			files[i].index = i
		}
		return files, nil
	}
	slices.SortStableFunc(files, func(a, b keypointFile) int { return a.index - b.index })
	return files, nil
}

func (l *Loader) workers() int {
	if n := l.opts.controller.Config().MaxConcurrentReads; n > 0 {
		return int(n)
	}
	return runtime.GOMAXPROCS(0)
}

// frame keeps the subject chosen by the policy. ok is false when the
// document has no usable subject and the frame is all sentinel.
func (l *Loader) frame(index int, doc Document) (pose.Frame, bool) {
	s := l.opts.skeleton
	candidates := make([]pose.Joints, len(doc.People))
	for i, p := range doc.People {
		candidates[i] = p.Joints(s, l.meta.Width, l.meta.Height)
	}

	js, ok := l.opts.policy.Select(candidates)
	if !ok {
		js = Sentinel(s)
	}

	return pose.Frame{
		Index:  index,
		T1:     float64(index) / l.meta.FPS,
		T2:     float64(index+1) / l.meta.FPS,
		Record: pose.NewRecord(js),
	}, ok
}

// LoadReference reads a reference pose exported by a pose editor. The first
// person of the document is used and normalized by the editor canvas
// (default 1280x720, see WithCanvas). The reference is named after the
// blob's base name.
func LoadReference(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (pose.Reference, error) {
	o := applyOptions(opts)

	doc, err := readDocument(ctx, store, name, o)
	if err != nil {
		return pose.Reference{}, fmt.Errorf("openpose: %s: %w", name, err)
	}
	if len(doc.People) == 0 {
		return pose.Reference{}, fmt.Errorf("%w: %s", ErrNoPeople, name)
	}

	return pose.Reference{
		Name:   strings.TrimSuffix(path.Base(name), ".json"),
		Joints: doc.People[0].Joints(o.skeleton, o.canvasWidth, o.canvasHeight),
	}, nil
}

func readDocument(ctx context.Context, store blobstore.BlobStore, name string, o options) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	rc := o.controller
	if err := rc.AcquireRead(ctx); err != nil {
		return Document{}, err
	}
	defer rc.ReleaseRead()

	b, err := store.Open(ctx, name)
	if err != nil {
		return Document{}, err
	}
	defer b.Close()

	size := b.Size()
	if size == 0 {
		return Document{}, io.ErrUnexpectedEOF
	}

	reserved, err := rc.AcquireMemory(ctx, size)
	if err != nil {
		return Document{}, err
	}
	defer rc.ReleaseMemory(reserved)

	r, err := b.ReadRange(ctx, 0, size)
	if err != nil {
		return Document{}, err
	}
	defer r.Close()

	data, err := io.ReadAll(resource.NewRateLimitedReader(ctx, r, rc))
	if err != nil {
		return Document{}, err
	}
	return ParseDocument(o.codec, data)
}
