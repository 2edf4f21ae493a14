package driver

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pion/cameracore/pkg/io/video"
	"github.com/pion/cameracore/pkg/prop"
)

func wrapAdapter(a Adapter, info Info) Driver {
	recorder, ok := a.(VideoRecorder)
	if !ok {
		return nil
	}

	if info.Name == "" {
		info.Name = info.Label
	}

	return &videoAdapterWrapper{
		Adapter:  a,
		recorder: recorder,
		id:       uuid.NewString(),
		info:     info,
		state:    StateClosed,
	}
}

type videoAdapterWrapper struct {
	Adapter
	recorder VideoRecorder
	id       string
	info     Info

	mu    sync.Mutex
	state State
}

func (w *videoAdapterWrapper) ID() string {
	return w.id
}

func (w *videoAdapterWrapper) Info() Info {
	return w.info
}

func (w *videoAdapterWrapper) Status() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *videoAdapterWrapper) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Update(StateOpened, w.Adapter.Open)
}

func (w *videoAdapterWrapper) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Update(StateClosed, w.Adapter.Close)
}

func (w *videoAdapterWrapper) Properties() []prop.Media {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateClosed {
		return nil
	}

	p := w.Adapter.Properties()
	for i := range p {
		p[i].DeviceID = w.id
	}
	return p
}

func (w *videoAdapterWrapper) VideoRecord(p prop.Media) (video.Reader, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var r video.Reader
	err := w.state.Update(StateRunning, func() error {
		var err error
		r, err = w.recorder.VideoRecord(p)
		return err
	})
	return r, err
}
