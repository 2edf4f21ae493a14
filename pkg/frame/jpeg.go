package frame

import (
	"image/jpeg"
	"io"
)

// EncodeJPEG writes an NV21 frame to w as a baseline JPEG. quality is in the
// range 1-100; out of range values are clamped by image/jpeg.
func EncodeJPEG(w io.Writer, nv21 []byte, width, height, quality int) error {
	img, release, err := decodeNV21(nv21, width, height)
	if err != nil {
		return err
	}
	defer release()

	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}
