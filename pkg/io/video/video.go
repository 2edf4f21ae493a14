package video

import (
	"image"
)

type Reader interface {
	Read() (img image.Image, release func(), err error)
}

type ReaderFunc func() (img image.Image, release func(), err error)

func (rf ReaderFunc) Read() (img image.Image, release func(), err error) {
	img, release, err = rf()
	return
}

// TransformFunc produces a new Reader that will produces a transformed video
type TransformFunc func(r Reader) Reader

// Merge merges transforms and produces a new TransformFunc that will execute
// transforms in order
func Merge(transforms ...TransformFunc) TransformFunc {
	return func(r Reader) Reader {
		for _, transform := range transforms {
			if transform == nil {
				continue
			}

			r = transform(r)
		}

		return r
	}
}

// Detach produces a Reader that copies every frame into memory it owns and
// releases the source frame right away. Drivers that decode into mmap'd or
// reused buffers can be consumed safely through it.
func Detach(r Reader) Reader {
	buffer := NewFrameBuffer(0)
	return ReaderFunc(func() (image.Image, func(), error) {
		img, release, err := r.Read()
		if err != nil {
			return nil, func() {}, err
		}

		buffer.StoreCopy(img)
		if release != nil {
			release()
		}
		return buffer.Load(), func() {}, nil
	})
}
