// Command camdump records from a camera and writes every Nth frame to disk
// as raw NV21.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pion/cameracore/internal/logging"
	"github.com/pion/cameracore/internal/metrics"
	"github.com/pion/cameracore/pkg/capture"
	"github.com/pion/cameracore/pkg/driver"
	_ "github.com/pion/cameracore/pkg/driver/camera"
	_ "github.com/pion/cameracore/pkg/driver/videotest"
	"github.com/pion/cameracore/pkg/dump"
	"github.com/pion/cameracore/pkg/frame"
	"github.com/pion/cameracore/pkg/prop"
	flag "github.com/spf13/pflag"
)

const testLabel = "VideoTest"

var logger = logging.NewLogger("cameracore/camdump")

type options struct {
	dir         string
	every       int
	width       int
	height      int
	test        bool
	timestamp   bool
	metricsAddr string
}

func (o *options) WithFlags(fs *flag.FlagSet) *options {
	fs.StringVarP(&o.dir, "dir", "d", ".", "Directory the frames are written to")
	fs.IntVarP(&o.every, "every", "n", 30, "Dump every Nth frame")
	fs.IntVar(&o.width, "width", 640, "Requested frame width")
	fs.IntVar(&o.height, "height", 480, "Requested frame height")
	fs.BoolVar(&o.test, "test", false, "Record from the synthetic test camera")
	fs.BoolVar(&o.timestamp, "timestamp", true, "Put the capture time into file names")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	return o
}

func isTestCamera(d driver.Driver) bool {
	return d.Info().Label == testLabel
}

func selectSource(test bool) (driver.Driver, capture.Source, error) {
	filter := driver.FilterAnd(
		driver.FilterVideoRecorder(),
		driver.FilterDeviceType(driver.Camera),
		driver.FilterNot(isTestCamera),
	)
	if test {
		filter = driver.FilterAnd(driver.FilterVideoRecorder(), isTestCamera)
	}

	drivers := driver.GetManager().Query(filter)
	if len(drivers) == 0 {
		return nil, nil, errors.New("no camera found")
	}
	d := drivers[0]
	src, ok := d.(capture.Source)
	if !ok {
		return nil, nil, fmt.Errorf("%s can't record video", d.Info().Label)
	}
	return d, src, nil
}

// selectProps picks the advertised property closest to the requested size.
// Drivers only advertise properties while opened, so d is opened for probing
// and closed again.
func selectProps(d driver.Driver, want prop.Media) (prop.Media, error) {
	if err := d.Open(); err != nil {
		return want, err
	}
	advertised := d.Properties()
	if err := d.Close(); err != nil {
		return want, err
	}

	best := want
	bestDistance := -1.0
	for _, p := range advertised {
		distance := p.FitnessDistance(want)
		if bestDistance < 0 || distance < bestDistance {
			best, bestDistance = p, distance
		}
	}
	return best, nil
}

// frameDumper is a capture.Listener that dumps every Nth frame.
type frameDumper struct {
	every  int
	count  int
	buf    []byte
	dumper *dump.Dumper
}

func (f *frameDumper) OnFrame(img *image.YCbCr) {
	f.count++
	if f.count%f.every != 0 {
		return
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	size := frame.NV21Size(w, h)
	if len(f.buf) < size {
		f.buf = make([]byte, size)
	}
	if err := frame.EncodeNV21(f.buf, img); err != nil {
		logger.Warnf("failed to encode frame %d: %v", f.count, err)
		return
	}

	path, err := f.dumper.Dump(f.buf[:size], w, h)
	if err != nil {
		logger.Errorf("failed to dump frame %d: %v", f.count, err)
		return
	}
	logger.Infof("frame %d -> %s", f.count, path)
}

func run() error {
	var o options
	o.WithFlags(flag.CommandLine)
	flag.Parse()
	if o.every <= 0 {
		return fmt.Errorf("invalid --every %d", o.every)
	}

	d, src, err := selectSource(o.test)
	if err != nil {
		return err
	}
	props, err := selectProps(d, prop.Media{Video: prop.Video{Width: o.width, Height: o.height}})
	if err != nil {
		return err
	}
	logger.Infof("recording from %s at %dx%d", d.Info().Label, props.Width, props.Height)

	if o.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		go func() {
			if err := http.ListenAndServe(o.metricsAddr, mux); err != nil {
				logger.Errorf("metrics server: %v", err)
			}
		}()
	}

	dumper := dump.NewDumper(o.dir)
	dumper.Timestamp = o.timestamp

	session := capture.NewSession(src, props, capture.WithName(d.Info().Label))
	session.AddListener(&frameDumper{every: o.every, dumper: dumper})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		logger.Infof("shutting down [os:%v]", sig)
		cancel()
	}()

	if err := session.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := session.Close(context.Background()); err != nil {
			logger.Warnf("failed to close %s: %v", d.Info().Label, err)
		}
	}()

	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
