package frame

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/pion/cameracore/internal/logging"
	"github.com/pion/cameracore/pkg/io"
	pionlogging "github.com/pion/logging"
)

// RowAlignment is the row count hardware buffers round the luma plane up to
// before the chroma plane starts. Newer platforms may use 64; see
// WithRowAlignment.
const RowAlignment = 32

// FenceWaitForever makes Lock block until the producer is done with the buffer.
const FenceWaitForever time.Duration = -1

// Usage describes how the CPU is going to access a locked buffer.
type Usage uint64

const (
	UsageCPUReadRarely Usage = 2
	UsageCPUReadOften  Usage = 3
)

var logger = logging.NewLogger("cameracore/frame")

// BufferDescriptor is what the owner of a hardware buffer reports about its
// layout. Stride is in bytes and is at least Width.
type BufferDescriptor struct {
	Width  int
	Height int
	Stride int
}

// HardwareBuffer is an opaque, platform managed image buffer that has to be
// locked before the CPU can read it. Unlock must tolerate being called after
// a failed Lock.
type HardwareBuffer interface {
	Lock(usage Usage, fence time.Duration) ([]byte, error)
	Unlock() error
	Describe() BufferDescriptor
}

type extractConfig struct {
	alignment int
	logger    pionlogging.LeveledLogger
}

// ExtractOption customizes ExtractNV21.
type ExtractOption func(*extractConfig)

// WithRowAlignment overrides RowAlignment.
func WithRowAlignment(rows int) ExtractOption {
	return func(c *extractConfig) {
		c.alignment = rows
	}
}

// WithLogger sets the logger lock failures are reported to.
func WithLogger(l pionlogging.LeveledLogger) ExtractOption {
	return func(c *extractConfig) {
		c.logger = l
	}
}

// ExtractNV21 locks buf, copies its NV12 content into dst with row padding
// removed and rewrites the chroma plane in NV21 order. buf is unlocked exactly
// once on every path, including a failed lock.
//
// If the lock fails or yields no memory, a diagnostic is logged, dst is left
// untouched and a *LockFailedError is returned.
func ExtractNV21(buf HardwareBuffer, dst []byte, opts ...ExtractOption) (err error) {
	cfg := extractConfig{
		alignment: RowAlignment,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	region, lockErr := buf.Lock(UsageCPUReadOften, FenceWaitForever)
	defer func() {
		if unlockErr := buf.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("frame: failed to unlock hardware buffer: %w", unlockErr)
		}
	}()

	if lockErr != nil || len(region) == 0 {
		lockFailed := newLockFailedError(lockErr)
		cfg.logger.Errorf("ExtractNV21 failed: %v (%d)", lockFailed.Err, lockFailed.Code)
		return lockFailed
	}

	return copyNV12ToNV21(dst, region, buf.Describe(), cfg.alignment)
}

func newLockFailedError(err error) *LockFailedError {
	if err == nil {
		return &LockFailedError{Err: errEmptyRegion}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return &LockFailedError{Code: int(errno), Err: err}
	}

	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		return &LockFailedError{Code: coded.Code(), Err: err}
	}

	return &LockFailedError{Code: -1, Err: err}
}

// chromaOffset returns where the chroma plane starts in a locked region: right
// after the luma rows, rounded up to the next multiple of alignment rows.
func chromaOffset(desc BufferDescriptor, alignment int) int {
	offset := desc.Height * desc.Stride
	if remainder := desc.Height % alignment; remainder != 0 {
		offset += (alignment - remainder) * desc.Stride
	}
	return offset
}

func copyNV12ToNV21(dst, src []byte, desc BufferDescriptor, alignment int) error {
	width, height, stride := desc.Width, desc.Height, desc.Stride
	if width <= 0 || height <= 0 || stride < width || alignment <= 0 {
		return ErrInvalidDimensions
	}

	yi := width * height
	if err := io.CheckSize("dst", dst, NV21Size(width, height)); err != nil {
		return err
	}

	uvStart := chromaOffset(desc, alignment)
	required := (height-1)*stride + width
	if rows := height / 2; rows > 0 {
		required = uvStart + (rows-1)*stride + width
	}
	if err := io.CheckSize("hardware buffer", src, required); err != nil {
		return err
	}

	// copy y and remove stride
	for row := 0; row < height; row++ {
		copy(dst[row*width:row*width+width], src[row*stride:])
	}

	// copy uv and remove stride
	out := dst[yi:]
	for row := 0; row < height/2; row++ {
		copy(out[row*width:row*width+width], src[uvStart+row*stride:])
	}

	SwapChroma(out[:yi/2])
	return nil
}
