package frame

import (
	"fmt"
	"image"

	"github.com/pion/cameracore/pkg/io"
)

// PackNV21 packs three separately strided planes into dst as NV21: width*height
// luma bytes followed by interleaved V/U pairs.
//
// Luma rows are read every y.RowStride bytes. The chroma sample at (col, row)
// is read from both u and v at col*u.PixelStride + row*y.RowStride, since
// camera HALs report a single row stride for all three planes. Packing stops
// at the first chroma offset that falls outside the shorter of the u and v
// regions and a *TruncatedError is returned; the chroma bytes after that
// point keep their previous content.
//
// dst must hold at least NV21Size(width, height) bytes. Argument errors are
// reported before anything is written.
func PackNV21(dst []byte, y, u, v Plane, width, height int) error {
	if width <= 0 || height <= 0 || y.RowStride < width || u.PixelStride <= 0 {
		return ErrInvalidDimensions
	}

	yi := width * height
	if err := io.CheckSize("dst", dst, NV21Size(width, height)); err != nil {
		return err
	}
	if err := io.CheckSize("y plane", y.Data, (height-1)*y.RowStride+width); err != nil {
		return err
	}

	for row := 0; row < height; row++ {
		copy(dst[row*width:row*width+width], y.Data[row*y.RowStride:])
	}

	capacity := len(u.Data)
	if len(v.Data) < capacity {
		capacity = len(v.Data)
	}

	vu := dst[yi:]
	index := 0
	for row := 0; row < height/2; row++ {
		for col := 0; col < width/2; col++ {
			pos := col*u.PixelStride + row*y.RowStride
			if pos >= capacity {
				return &TruncatedError{Written: index}
			}
			vu[index] = v.Data[pos]
			vu[index+1] = u.Data[pos]
			index += 2
		}
	}

	return nil
}

// EncodeNV21 writes a 4:2:0 image into dst in NV21 layout. It is the inverse
// of decoding an NV21 frame.
func EncodeNV21(dst []byte, img *image.YCbCr) error {
	if img.SubsampleRatio != image.YCbCrSubsampleRatio420 {
		return fmt.Errorf("frame: unsupported subsample ratio %s", img.SubsampleRatio)
	}

	width, height := img.Rect.Dx(), img.Rect.Dy()
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return ErrInvalidDimensions
	}
	if err := io.CheckSize("dst", dst, NV21Size(width, height)); err != nil {
		return err
	}

	for row := 0; row < height; row++ {
		off := img.YOffset(img.Rect.Min.X, img.Rect.Min.Y+row)
		copy(dst[row*width:row*width+width], img.Y[off:off+width])
	}

	vu := dst[width*height:]
	index := 0
	for row := 0; row < height/2; row++ {
		for col := 0; col < width/2; col++ {
			off := img.COffset(img.Rect.Min.X+2*col, img.Rect.Min.Y+2*row)
			vu[index] = img.Cr[off]
			vu[index+1] = img.Cb[off]
			index += 2
		}
	}
	return nil
}
