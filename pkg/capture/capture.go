// Package capture drives a video source and hands every frame to a set of
// listeners.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/pion/cameracore/internal/logging"
	"github.com/pion/cameracore/internal/metrics"
	"github.com/pion/cameracore/pkg/driver"
	"github.com/pion/cameracore/pkg/io/video"
	"github.com/pion/cameracore/pkg/prop"
	pionlogging "github.com/pion/logging"
)

// DefaultLockTimeout bounds how long Open and Close wait for each other when
// the context has no deadline.
const DefaultLockTimeout = 2500 * time.Millisecond

// maxConsecutiveErrors is how many failed reads in a row Run tolerates.
const maxConsecutiveErrors = 5

var (
	ErrLockTimeout  = errors.New("capture: timed out waiting for the open/close lock")
	ErrNotOpened    = errors.New("capture: session is not opened")
	ErrAlreadyOpen  = errors.New("capture: session is already opened")
	errNotYCbCr     = errors.New("capture: source produced a non YCbCr frame")
	errTooManyReads = errors.New("capture: too many consecutive read errors")
)

// Source is a video source a Session can drive. Every driver.Driver that is
// also a driver.VideoRecorder is a Source.
type Source interface {
	driver.OpenCloser
	driver.VideoRecorder
}

// Listener receives frames from a Session. The image is only valid for the
// duration of the call; use video.FrameBuffer to keep a copy.
type Listener interface {
	OnFrame(img *image.YCbCr)
}

// ListenerFunc is a proxy type for Listener
type ListenerFunc func(img *image.YCbCr)

func (f ListenerFunc) OnFrame(img *image.YCbCr) {
	f(img)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger replaces the session logger.
func WithLogger(l pionlogging.LeveledLogger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithName sets the source label used in logs and metrics.
func WithName(name string) Option {
	return func(s *Session) {
		s.name = name
	}
}

// WithTransforms applies transforms, in order, to the source reader.
func WithTransforms(transforms ...video.TransformFunc) Option {
	return func(s *Session) {
		s.transform = video.Merge(transforms...)
	}
}

type listenerEntry struct {
	id       uint64
	listener Listener
}

// Session owns a Source between Open and Close. Open and Close are
// serialized by a lock that gives up after DefaultLockTimeout.
type Session struct {
	source    Source
	props     prop.Media
	name      string
	logger    pionlogging.LeveledLogger
	transform video.TransformFunc

	// lock is held for the duration of Open and Close.
	lock chan struct{}

	mu        sync.Mutex
	reader    video.Reader
	listeners []listenerEntry
	nextID    uint64
}

// NewSession creates a closed Session that will record src with p.
func NewSession(src Source, p prop.Media, opts ...Option) *Session {
	s := &Session{
		source: src,
		props:  p,
		name:   "camera",
		logger: logging.NewLogger("cameracore/capture"),
		lock:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) acquire(ctx context.Context, op string) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, DefaultLockTimeout)
		defer cancel()
	}

	s.logger.Debugf("%s is trying to acquire the lock", op)
	select {
	case s.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w to %s: %v", ErrLockTimeout, op, ctx.Err())
	}
}

func (s *Session) release() {
	<-s.lock
}

// Open opens the source and starts recording.
func (s *Session) Open(ctx context.Context) error {
	if err := s.acquire(ctx, "open"); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	opened := s.reader != nil
	s.mu.Unlock()
	if opened {
		return ErrAlreadyOpen
	}

	s.logger.Infof("open %s", s.name)
	if err := s.source.Open(); err != nil {
		return fmt.Errorf("capture: failed to open %s: %w", s.name, err)
	}

	r, err := s.source.VideoRecord(s.props)
	if err != nil {
		if closeErr := s.source.Close(); closeErr != nil {
			s.logger.Warnf("failed to close %s: %v", s.name, closeErr)
		}
		return fmt.Errorf("capture: failed to record %s: %w", s.name, err)
	}
	if s.transform != nil {
		r = s.transform(r)
	}

	s.mu.Lock()
	s.reader = r
	s.mu.Unlock()
	return nil
}

// Close stops recording and closes the source. Closing a closed Session is a
// no-op.
func (s *Session) Close(ctx context.Context) error {
	if err := s.acquire(ctx, "close"); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	opened := s.reader != nil
	s.reader = nil
	s.mu.Unlock()
	if !opened {
		return nil
	}

	s.logger.Infof("close %s", s.name)
	return s.source.Close()
}

// AddListener registers l and returns a func that removes it again.
func (s *Session) AddListener(l Listener) (remove func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, listener: l})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, e := range s.listeners {
			if e.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) dispatch(img *image.YCbCr) {
	s.mu.Lock()
	listeners := s.listeners
	s.mu.Unlock()

	for _, e := range listeners {
		e.listener.OnFrame(img)
	}
}

// Run reads frames until the source ends, ctx is done or reads keep failing,
// and delivers each frame to the listeners one after another on the calling
// goroutine. It returns nil once the source reports io.EOF.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	r := s.reader
	s.mu.Unlock()
	if r == nil {
		return ErrNotOpened
	}

	first := true
	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		img, release, err := r.Read()
		if err == nil {
			if yuv, ok := img.(*image.YCbCr); ok {
				if first {
					s.logger.Infof("first frame from %s", s.name)
					first = false
				}
				failures = 0
				metrics.Frames.WithLabelValues(s.name).Inc()
				s.dispatch(yuv)
				release()
				continue
			}
			release()
			err = errNotYCbCr
		}

		if errors.Is(err, io.EOF) {
			return nil
		}

		metrics.ObserveError(err)
		s.logger.Warnf("failed to read frame from %s: %v", s.name, err)
		failures++
		if failures >= maxConsecutiveErrors {
			return fmt.Errorf("%w: %v", errTooManyReads, err)
		}
	}
}
