package driver

import (
	"fmt"
	"testing"

	"github.com/pion/cameracore/pkg/io/video"
	"github.com/pion/cameracore/pkg/prop"
)

var (
	recordErr = fmt.Errorf("failed to start recording")
)

type adapterMock struct{}

func (a *adapterMock) Open() error              { return nil }
func (a *adapterMock) Close() error             { return nil }
func (a *adapterMock) Properties() []prop.Media { return []prop.Media{prop.Media{}} }

type videoAdapterMock struct{ adapterMock }

func (a *videoAdapterMock) VideoRecord(p prop.Media) (r video.Reader, err error) { return nil, nil }

type videoAdapterBrokenMock struct{ adapterMock }

func (a *videoAdapterBrokenMock) VideoRecord(p prop.Media) (r video.Reader, err error) {
	return nil, recordErr
}

func TestVideoWrapperState(t *testing.T) {
	var a videoAdapterMock
	d := wrapAdapter(&a, Info{})

	if d.Properties() != nil {
		t.Errorf("expected nil, but got %v", d.Properties())
	}

	vr := d.(VideoRecorder)
	if _, err := vr.VideoRecord(prop.Media{}); err == nil {
		t.Errorf("expected to get an invalid state")
	}

	if err := d.Open(); err != nil {
		t.Errorf("expected to successfully open, but got %v", err)
	}

	props := d.Properties()
	if len(props) != 1 {
		t.Fatalf("expected 1 property, but got %v", props)
	}
	if props[0].DeviceID != d.ID() {
		t.Errorf("expected DeviceID %s, but got %s", d.ID(), props[0].DeviceID)
	}

	if _, err := vr.VideoRecord(prop.Media{}); err != nil {
		t.Errorf("expected to successfully start recording, but got %v", err)
	}
	if d.Status() != StateRunning {
		t.Errorf("expected %s, got %s", StateRunning, d.Status())
	}

	if _, err := vr.VideoRecord(prop.Media{}); err == nil {
		t.Errorf("expected to get an invalid state")
	}

	if err := d.Close(); err != nil {
		t.Errorf("expected to successfully close, but got %v", err)
	}
	if d.Status() != StateClosed {
		t.Errorf("expected %s, got %s", StateClosed, d.Status())
	}
}

func TestVideoWrapperBroken(t *testing.T) {
	var a videoAdapterBrokenMock
	d := wrapAdapter(&a, Info{Label: "broken"})

	if err := d.Open(); err != nil {
		t.Fatal(err)
	}

	vr := d.(VideoRecorder)
	if _, err := vr.VideoRecord(prop.Media{}); err != recordErr {
		t.Errorf("expected %v, but got %v", recordErr, err)
	}
	if d.Status() != StateOpened {
		t.Errorf("expected the state to stay %s, got %s", StateOpened, d.Status())
	}
	if d.Info().Name != "broken" {
		t.Errorf("expected Name to default to the label, got %q", d.Info().Name)
	}
}

func TestWrapNonRecorder(t *testing.T) {
	if d := wrapAdapter(&adapterMock{}, Info{}); d != nil {
		t.Errorf("expected nil, got %v", d)
	}
}
