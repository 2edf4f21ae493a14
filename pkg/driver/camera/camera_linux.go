package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blackjack/webcam"
	"github.com/pion/cameracore/internal/logging"
	"github.com/pion/cameracore/pkg/driver"
	"github.com/pion/cameracore/pkg/frame"
	"github.com/pion/cameracore/pkg/io/video"
	"github.com/pion/cameracore/pkg/prop"
)

const (
	maxEmptyFrameCount = 5
	// seconds
	readTimeout = 5
)

var (
	errReadTimeout       = errors.New("read timeout")
	errEmptyFrame        = errors.New("empty frame")
	errUnsupportedFormat = errors.New("unsupported frame format")
)

var logger = logging.NewLogger("cameracore/driver/camera")

// V4L2_PIX_FMT_NV12
var pixelFormatNV12 = fourcc('N', 'V', '1', '2')

func fourcc(a, b, c, d byte) webcam.PixelFormat {
	return webcam.PixelFormat(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// Camera implementation using v4l2
// Reference: https://linuxtv.org/downloads/v4l-dvb-apis/uapi/v4l/videodev.html#videodev
type camera struct {
	path   string
	cam    *webcam.Webcam
	mutex  sync.Mutex
	cancel func()
}

func init() {
	discovered := make(map[string]struct{})
	discover(discovered, "/dev/v4l/by-path/*")
	discover(discovered, "/dev/video*")
}

func discover(discovered map[string]struct{}, pattern string) {
	devices, err := filepath.Glob(pattern)
	if err != nil {
		// No v4l device.
		return
	}
	for _, device := range devices {
		label := filepath.Base(device)
		reallink, err := filepath.EvalSymlinks(device)
		if err != nil {
			logger.Warnf("failed to resolve %s: %v", device, err)
			continue
		}
		reallink = filepath.Base(reallink)
		if _, ok := discovered[reallink]; ok {
			continue
		}

		discovered[reallink] = struct{}{}
		cam := newCamera(device)
		if err := driver.GetManager().Register(cam, driver.Info{
			Label:      label + LabelSeparator + reallink,
			DeviceType: driver.Camera,
		}); err != nil {
			logger.Errorf("failed to register %s: %v", device, err)
		}
	}
}

func newCamera(path string) *camera {
	return &camera{
		path: path,
	}
}

func (c *camera) Open() error {
	if _, err := os.Stat(c.path); err != nil {
		return err
	}

	cam, err := webcam.Open(c.path)
	if err != nil {
		return err
	}

	c.cam = cam
	return nil
}

func (c *camera) Close() error {
	if c.cam == nil {
		return nil
	}

	if c.cancel != nil {
		// Let the reader knows that the caller has closed the camera
		c.cancel()
		// Wait until the reader unlocks the buffer
		c.mutex.Lock()
		defer c.mutex.Unlock()

		// Note: StopStreaming frees frame buffers even if they are still used in Go code.
		//       Frames are copied out of the mmap'd buffers before the lock is released.
		if err := c.cam.StopStreaming(); err != nil {
			logger.Warnf("failed to stop streaming %s: %v", c.path, err)
		}
		c.cancel = nil
	}
	err := c.cam.Close()
	c.cam = nil
	return err
}

func (c *camera) VideoRecord(p prop.Media) (video.Reader, error) {
	if p.FrameFormat != "" && p.FrameFormat != frame.FormatNV21 {
		return nil, fmt.Errorf("%w: %s", errUnsupportedFormat, p.FrameFormat)
	}

	_, w, h, err := c.cam.SetImageFormat(pixelFormatNV12, uint32(p.Width), uint32(p.Height))
	if err != nil {
		return nil, err
	}
	width, height := int(w), int(h)

	decoder, err := frame.NewDecoder(frame.FormatNV21)
	if err != nil {
		return nil, err
	}

	if err := c.cam.StartStreaming(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	buf := &mmapBuffer{c: c, ctx: ctx, width: width, height: height}
	nv21 := make([]byte, frame.NV21Size(width, height))
	r := video.ReaderFunc(func() (image.Image, func(), error) {
		if ctx.Err() != nil {
			// Return EOF if the camera is already closed.
			return nil, func() {}, io.EOF
		}

		// V4L2 single planar NV12 places chroma right after the last luma row.
		err := frame.ExtractNV21(buf, nv21, frame.WithRowAlignment(1), frame.WithLogger(logger))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, func() {}, io.EOF
			}
			return nil, func() {}, err
		}
		return decoder.Decode(nv21, width, height)
	})

	return r, nil
}

func (c *camera) Properties() []prop.Media {
	properties := make([]prop.Media, 0)
	for format := range c.cam.GetSupportedFormats() {
		if format != pixelFormatNV12 {
			continue
		}
		for _, frameSize := range c.cam.GetSupportedFrameSizes(format) {
			properties = append(properties, prop.Media{
				Video: prop.Video{
					Width:       int(frameSize.MaxWidth),
					Height:      int(frameSize.MaxHeight),
					FrameFormat: frame.FormatNV21,
				},
			})
		}
	}
	return properties
}

// mmapBuffer exposes the next V4L2 capture buffer as a frame.HardwareBuffer.
// Lock holds the camera mutex so Close can't stop streaming, which unmaps the
// buffer, while the frame is being copied.
type mmapBuffer struct {
	c             *camera
	ctx           context.Context
	width, height int
	stride        int
	locked        bool
}

func (b *mmapBuffer) Lock(_ frame.Usage, fence time.Duration) ([]byte, error) {
	b.c.mutex.Lock()
	b.locked = true

	timeout := uint32(readTimeout)
	if fence >= 0 {
		timeout = uint32(fence / time.Second)
	}

	// Wait until a frame is ready
	for i := 0; i < maxEmptyFrameCount; i++ {
		if b.ctx.Err() != nil {
			return nil, io.EOF
		}

		err := b.c.cam.WaitForFrame(timeout)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			return nil, errReadTimeout
		default:
			// Camera has been stopped.
			return nil, err
		}

		data, err := b.c.cam.ReadFrame()
		if err != nil {
			// Camera has been stopped.
			return nil, err
		}

		// Frame is empty.
		// Retry reading and return errEmptyFrame if it exceeds maxEmptyFrameCount.
		if len(data) == 0 {
			continue
		}

		b.stride = frameStride(len(data), b.width, b.height)
		return data, nil
	}
	return nil, errEmptyFrame
}

func (b *mmapBuffer) Unlock() error {
	if !b.locked {
		return nil
	}
	b.locked = false
	b.c.mutex.Unlock()
	return nil
}

func (b *mmapBuffer) Describe() frame.BufferDescriptor {
	return frame.BufferDescriptor{
		Width:  b.width,
		Height: b.height,
		Stride: b.stride,
	}
}
