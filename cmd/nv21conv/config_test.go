package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pion/cameracore/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseConfigFlags(t *testing.T) {
	c, err := ParseConfig([]string{
		"--mode", "hwbuffer", "--width", "640", "--height", "480",
		"--in", "frame.nv12", "-o", "frame.nv21",
	})
	require.NoError(t, err)

	assert.Equal(t, modeHWBuffer, c.Mode)
	assert.Equal(t, 640, c.Width)
	assert.Equal(t, 480, c.Height)
	assert.Equal(t, 640, c.Stride, "stride defaults to the width")
	assert.Equal(t, frame.RowAlignment, c.Align)
	assert.Equal(t, "frame.nv21", c.Out)
}

func TestParseConfigFile(t *testing.T) {
	dir := t.TempDir()
	conf := writeFile(t, dir, "nv21conv.yaml", `
mode: planar
width: 320
height: 240
y: y.raw
u: u.raw
v: v.raw
y_stride: 384
out: from-file.nv21
quality: 75
`)

	c, err := ParseConfig([]string{"-c", conf, "--out", "from-flag.nv21", "--width", "352"})
	require.NoError(t, err)

	assert.Equal(t, modePlanar, c.Mode)
	assert.Equal(t, 352, c.Width, "flags override the file")
	assert.Equal(t, 240, c.Height)
	assert.Equal(t, 384, c.YStride)
	assert.Equal(t, 2, c.UVPixelStride, "defaults survive when the file omits a key")
	assert.Equal(t, 75, c.Quality)
	assert.Equal(t, "from-flag.nv21", c.Out)
}

func TestParseConfigErrors(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.yaml", "width: [")

	testCases := map[string][]string{
		"NoSize":        {"--mode", "hwbuffer", "--in", "a", "-o", "b"},
		"NoOutput":      {"--mode", "hwbuffer", "--width", "2", "--height", "2", "--in", "a"},
		"NoPlanes":      {"--width", "2", "--height", "2", "-o", "b", "--y", "y"},
		"NoInput":       {"--mode", "hwbuffer", "--width", "2", "--height", "2", "-o", "b"},
		"UnknownMode":   {"--mode", "rgb", "--width", "2", "--height", "2", "-o", "b"},
		"UnknownFlag":   {"--bogus"},
		"MissingConfig": {"-c", filepath.Join(dir, "missing.yaml")},
		"BrokenConfig":  {"-c", broken},
	}

	for name, args := range testCases {
		args := args
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig(args)
			assert.Error(t, err)
		})
	}
}
