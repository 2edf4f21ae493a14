// Command nv21conv converts raw camera dumps to NV21.
//
// In planar mode it packs separately strided Y, U and V plane files. In
// hwbuffer mode it reads a stride padded NV12 buffer dump, drops the row
// padding and swaps the chroma order.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pion/cameracore/internal/logging"
	"github.com/pion/cameracore/pkg/frame"
)

var logger = logging.NewLogger("cameracore/nv21conv")

func main() {
	conf, err := ParseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(conf); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(c *Config) error {
	dst := make([]byte, frame.NV21Size(c.Width, c.Height))

	var err error
	switch c.Mode {
	case modePlanar:
		err = packPlanar(c, dst)
	case modeHWBuffer:
		err = extractBuffer(c, dst)
	}

	var truncated *frame.TruncatedError
	switch {
	case errors.As(err, &truncated):
		logger.Warnf("chroma planes end early, only %d of %d chroma bytes are valid",
			truncated.Written, c.Width*c.Height/2)
	case err != nil:
		return err
	}

	if c.Out != "" {
		if err := os.WriteFile(c.Out, dst, 0o644); err != nil {
			return err
		}
		logger.Infof("wrote %s (%dx%d, %d bytes)", c.Out, c.Width, c.Height, len(dst))
	}
	if c.JPEG != "" {
		if err := writeJPEG(c, dst); err != nil {
			return err
		}
		logger.Infof("wrote %s", c.JPEG)
	}
	return nil
}

func packPlanar(c *Config, dst []byte) error {
	planes := make([][]byte, 3)
	for i, path := range []string{c.Y, c.U, c.V} {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		planes[i] = data
	}

	return frame.PackNV21(dst,
		frame.Plane{Data: planes[0], RowStride: c.YStride, PixelStride: 1},
		frame.Plane{Data: planes[1], RowStride: c.YStride, PixelStride: c.UVPixelStride},
		frame.Plane{Data: planes[2], RowStride: c.YStride, PixelStride: c.UVPixelStride},
		c.Width, c.Height,
	)
}

func extractBuffer(c *Config, dst []byte) error {
	buf := &fileBuffer{
		path: c.In,
		desc: frame.BufferDescriptor{Width: c.Width, Height: c.Height, Stride: c.Stride},
	}
	return frame.ExtractNV21(buf, dst, frame.WithRowAlignment(c.Align), frame.WithLogger(logger))
}

func writeJPEG(c *Config, nv21 []byte) (err error) {
	f, err := os.Create(c.JPEG)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return frame.EncodeJPEG(f, nv21, c.Width, c.Height, c.Quality)
}
