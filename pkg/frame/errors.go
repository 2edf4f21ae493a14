package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned when width, height, strides or the row
	// alignment cannot describe a frame.
	ErrInvalidDimensions = errors.New("frame: invalid dimensions")
	// ErrTruncated matches a TruncatedError.
	ErrTruncated = errors.New("frame: chroma source truncated")
	// ErrLockFailed matches a LockFailedError.
	ErrLockFailed = errors.New("frame: hardware buffer lock failed")

	errEmptyRegion = errors.New("lock returned no memory region")
)

// TruncatedError is returned by PackNV21 when the chroma source regions ran
// out before the whole chroma grid was visited. The first Written bytes of
// the destination chroma plane are valid; the rest are left as they were.
type TruncatedError struct {
	Written int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("frame: chroma source truncated after %d bytes", e.Written)
}

func (e *TruncatedError) Is(target error) bool {
	return target == ErrTruncated
}

// LockFailedError is returned by ExtractNV21 when the hardware buffer could
// not be locked for reading. Code is the platform error code, or 0 if the
// lock reported success but yielded no memory.
type LockFailedError struct {
	Code int
	Err  error
}

func (e *LockFailedError) Error() string {
	return fmt.Sprintf("frame: hardware buffer lock failed: %v (%d)", e.Err, e.Code)
}

func (e *LockFailedError) Unwrap() error {
	return e.Err
}

func (e *LockFailedError) Is(target error) bool {
	return target == ErrLockFailed
}
