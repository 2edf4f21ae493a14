package main

import (
	"bytes"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/pion/cameracore/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHardwareBuffer(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "frame.nv12")
	// 4x2 luma with a stride of 6, then one chroma row in U/V order.
	dump := []byte{
		1, 2, 3, 4, 0, 0,
		5, 6, 7, 8, 0, 0,
		10, 20, 11, 21, 0, 0,
	}
	require.NoError(t, os.WriteFile(in, dump, 0o644))

	c := &Config{
		Mode: modeHWBuffer, Width: 4, Height: 2,
		In: in, Stride: 6, Align: 2,
		Out:  filepath.Join(dir, "frame.nv21"),
		JPEG: filepath.Join(dir, "frame.jpg"), Quality: 80,
	}
	require.NoError(t, run(c))

	out, err := os.ReadFile(c.Out)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 20, 10, 21, 11}, out)

	preview, err := os.ReadFile(c.JPEG)
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(preview))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Width)
	assert.Equal(t, 2, cfg.Height)
}

func TestRunHardwareBufferMissingDump(t *testing.T) {
	dir := t.TempDir()
	c := &Config{
		Mode: modeHWBuffer, Width: 4, Height: 2, Stride: 4, Align: 2,
		In:  filepath.Join(dir, "missing.nv12"),
		Out: filepath.Join(dir, "frame.nv21"),
	}
	assert.ErrorIs(t, run(c), frame.ErrLockFailed)

	_, err := os.Stat(c.Out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunPlanar(t *testing.T) {
	dir := t.TempDir()
	c := &Config{
		Mode: modePlanar, Width: 4, Height: 2,
		Y:       writeFile(t, dir, "y.raw", "\x01\x02\x03\x04\x05\x06\x07\x08"),
		U:       writeFile(t, dir, "u.raw", "\x0a\x00\x0b\x00"),
		V:       writeFile(t, dir, "v.raw", "\x14\x00\x15\x00"),
		YStride: 4, UVPixelStride: 2,
		Out: filepath.Join(dir, "frame.nv21"),
	}
	require.NoError(t, run(c))

	out, err := os.ReadFile(c.Out)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 20, 10, 21, 11}, out)
}

func TestRunPlanarTruncated(t *testing.T) {
	dir := t.TempDir()
	c := &Config{
		Mode: modePlanar, Width: 4, Height: 2,
		Y:       writeFile(t, dir, "y.raw", "\x01\x02\x03\x04\x05\x06\x07\x08"),
		U:       writeFile(t, dir, "u.raw", "\x0a\x00\x0b\x00"),
		V:       writeFile(t, dir, "v.raw", "\x14"),
		YStride: 4, UVPixelStride: 2,
		Out: filepath.Join(dir, "frame.nv21"),
	}
	require.NoError(t, run(c), "a truncated chroma plane still produces output")

	out, err := os.ReadFile(c.Out)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 20, 10, 0, 0}, out)
}
