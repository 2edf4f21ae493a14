package main

import (
	"os"
	"time"

	"github.com/pion/cameracore/pkg/frame"
)

// fileBuffer serves a raw NV12 buffer dump as a frame.HardwareBuffer. The
// file is read on Lock, so a missing dump shows up as a lock failure.
type fileBuffer struct {
	path string
	desc frame.BufferDescriptor
	data []byte
}

func (b *fileBuffer) Lock(_ frame.Usage, _ time.Duration) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, err
	}
	b.data = data
	return b.data, nil
}

func (b *fileBuffer) Unlock() error {
	b.data = nil
	return nil
}

func (b *fileBuffer) Describe() frame.BufferDescriptor {
	return b.desc
}
