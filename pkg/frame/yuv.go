package frame

import (
	"fmt"
	"image"
)

func decodeI420(frame []byte, width, height int) (image.Image, func(), error) {
	yi := width * height
	cbi := yi + width*height/4
	cri := cbi + width*height/4

	if cri > len(frame) {
		return nil, func() {}, fmt.Errorf("frame length (%d) less than expected (%d)", len(frame), cri)
	}

	return &image.YCbCr{
		Y:              frame[:yi],
		YStride:        width,
		Cb:             frame[yi:cbi],
		Cr:             frame[cbi:cri],
		CStride:        width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, width, height),
	}, func() {}, nil
}

func decodeNV21(frame []byte, width, height int) (image.Image, func(), error) {
	return decodeSemiPlanar(frame, width, height, true)
}

func decodeNV12(frame []byte, width, height int) (image.Image, func(), error) {
	return decodeSemiPlanar(frame, width, height, false)
}

// decodeSemiPlanar splits the interleaved chroma plane of an NV12 or NV21
// frame. vFirst selects NV21 ordering.
func decodeSemiPlanar(frame []byte, width, height int, vFirst bool) (image.Image, func(), error) {
	if width%2 != 0 || height%2 != 0 {
		return nil, func() {}, fmt.Errorf("frame size (%dx%d) must be even", width, height)
	}

	yi := width * height
	ci := NV21Size(width, height)

	if ci > len(frame) {
		return nil, func() {}, fmt.Errorf("frame length (%d) less than expected (%d)", len(frame), ci)
	}

	first := make([]byte, yi/4)
	second := make([]byte, yi/4)
	j := 0
	for i := yi; i < ci; i += 2 {
		first[j] = frame[i]
		second[j] = frame[i+1]
		j++
	}

	cb, cr := first, second
	if vFirst {
		cb, cr = second, first
	}

	return &image.YCbCr{
		Y:              frame[:yi],
		YStride:        width,
		Cb:             cb,
		Cr:             cr,
		CStride:        width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, width, height),
	}, func() {}, nil
}
