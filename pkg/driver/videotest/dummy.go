// Package videotest provides dummy video driver for testing.
//
// The driver lays its frames out the way Android cameras hand out YUV_420_888
// images: a luma plane with padded rows and a semi-planar chroma region seen
// through two overlapping U and V planes with a pixel stride of 2. Every frame
// is packed to NV21 with frame.PackNV21.
package videotest

import (
	"context"
	"image"
	"io"
	"math/rand"
	"time"

	"github.com/pion/cameracore/pkg/driver"
	"github.com/pion/cameracore/pkg/frame"
	cameraio "github.com/pion/cameracore/pkg/io"
	"github.com/pion/cameracore/pkg/io/video"
	"github.com/pion/cameracore/pkg/prop"
)

// rowAlignment is the byte alignment of padded rows.
const rowAlignment = 64

func init() {
	driver.GetManager().Register(
		newVideoTest(),
		driver.Info{Label: "VideoTest", DeviceType: driver.Camera},
	)
}

type dummy struct {
	closed <-chan struct{}
	cancel func()
	tick   *time.Ticker
}

func newVideoTest() *dummy {
	return &dummy{}
}

func (d *dummy) Open() error {
	ctx, cancel := context.WithCancel(context.Background())
	d.closed = ctx.Done()
	d.cancel = cancel
	return nil
}

func (d *dummy) Close() error {
	d.cancel()
	if d.tick != nil {
		d.tick.Stop()
	}
	return nil
}

func alignUp(n, alignment int) int {
	return (n + alignment - 1) / alignment * alignment
}

func (d *dummy) VideoRecord(p prop.Media) (video.Reader, error) {
	if p.FrameRate == 0 {
		p.FrameRate = 30
	}
	if p.Width == 0 || p.Height == 0 {
		p.Width, p.Height = 640, 480
	}

	colors := [][3]byte{
		{235, 128, 128},
		{210, 16, 146},
		{170, 166, 16},
		{145, 54, 34},
		{107, 202, 222},
		{82, 90, 240},
		{41, 240, 110},
	}

	stride := alignUp(p.Width, rowAlignment)
	yyBase := make([]byte, stride*p.Height)
	// Interleaved U, V rows as the camera HAL writes them.
	uvBase := make([]byte, stride*p.Height/2)
	hColorBarEnd := p.Height * 3 / 4
	wGradationEnd := p.Width * 5 / 7
	for y := 0; y < p.Height; y++ {
		yi := stride * y
		ci := stride * (y / 2)
		for x := 0; x < p.Width; x++ {
			var yy, cb, cr byte
			switch {
			case y < hColorBarEnd:
				// Color bar
				c := colors[x*7/p.Width]
				yy, cb, cr = uint8(uint16(c[0])*75/100), c[1], c[2]
			case x < wGradationEnd:
				// Gray gradation
				yy, cb, cr = uint8(x*255/wGradationEnd), 128, 128
			default:
				// Noise area
				cb, cr = 128, 128
			}
			yyBase[yi+x] = yy
			uvBase[ci+x/2*2] = cb
			uvBase[ci+x/2*2+1] = cr
		}
	}
	random := rand.New(rand.NewSource(0))

	tick := time.NewTicker(time.Duration(float32(time.Second) / p.FrameRate))
	d.tick = tick
	closed := d.closed

	yy := make([]byte, len(yyBase))
	uv := make([]byte, len(uvBase))
	nv21 := make([]byte, frame.NV21Size(p.Width, p.Height))
	decoder, err := frame.NewDecoder(frame.FormatNV21)
	if err != nil {
		return nil, err
	}

	r := video.ReaderFunc(func() (image.Image, func(), error) {
		select {
		case <-closed:
			return nil, func() {}, io.EOF
		default:
		}

		<-tick.C

		if _, err := cameraio.Copy(yy, yyBase); err != nil {
			return nil, func() {}, err
		}
		if _, err := cameraio.Copy(uv, uvBase); err != nil {
			return nil, func() {}, err
		}
		for y := hColorBarEnd; y < p.Height; y++ {
			yi := stride * y
			for x := wGradationEnd; x < p.Width; x++ {
				// Noise
				yy[yi+x] = uint8(random.Int31n(2) * 255)
			}
		}

		err := frame.PackNV21(nv21,
			frame.Plane{Data: yy, RowStride: stride, PixelStride: 1},
			frame.Plane{Data: uv[:len(uv)-1], RowStride: stride, PixelStride: 2},
			frame.Plane{Data: uv[1:], RowStride: stride, PixelStride: 2},
			p.Width, p.Height,
		)
		if err != nil {
			return nil, func() {}, err
		}
		return decoder.Decode(nv21, p.Width, p.Height)
	})

	return r, nil
}

func (d dummy) Properties() []prop.Media {
	return []prop.Media{
		{
			Video: prop.Video{
				Width:       640,
				Height:      480,
				FrameFormat: frame.FormatNV21,
			},
		},
	}
}
