package driver

import (
	"github.com/pion/cameracore/pkg/io/video"
	"github.com/pion/cameracore/pkg/prop"
)

type OpenCloser interface {
	Open() error
	Close() error
}

type Infoer interface {
	Info() Info
}

type Info struct {
	Label      string
	DeviceType DeviceType
	// Name is a human readable name; it falls back to Label when empty.
	Name string
}

type Adapter interface {
	OpenCloser
	Properties() []prop.Media
}

type VideoRecorder interface {
	VideoRecord(p prop.Media) (r video.Reader, err error)
}

type Driver interface {
	Adapter
	ID() string
	Info() Info
	Status() State
}
