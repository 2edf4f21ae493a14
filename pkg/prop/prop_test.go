package prop

import (
	"testing"

	"github.com/pion/cameracore/pkg/frame"
)

func TestFitnessDistance(t *testing.T) {
	testCases := map[string]struct {
		actual, ideal Media
		expected      float64
	}{
		"Match": {
			actual:   Media{Video: Video{Width: 640, Height: 480, FrameFormat: frame.FormatNV21}},
			ideal:    Media{Video: Video{Width: 640, Height: 480, FrameFormat: frame.FormatNV21}},
			expected: 0,
		},
		"FormatMismatch": {
			actual:   Media{Video: Video{Width: 640, Height: 480, FrameFormat: frame.FormatNV12}},
			ideal:    Media{Video: Video{Width: 640, Height: 480, FrameFormat: frame.FormatNV21}},
			expected: 1,
		},
		"HalfWidth": {
			actual:   Media{Video: Video{Width: 320, Height: 480, FrameFormat: frame.FormatNV21}},
			ideal:    Media{Video: Video{Width: 640, Height: 480, FrameFormat: frame.FormatNV21}},
			expected: 0.5,
		},
		"SquareSize": {
			actual:   Media{Video: Video{Width: 480, Height: 480, FrameFormat: frame.FormatNV21}},
			ideal:    Media{Video: Video{Width: 480, Height: 480, FrameFormat: frame.FormatNV21}},
			expected: 0,
		},
	}

	for name, c := range testCases {
		c := c
		t.Run(name, func(t *testing.T) {
			if dist := c.actual.FitnessDistance(c.ideal); dist != c.expected {
				t.Errorf("expected %v, got %v", c.expected, dist)
			}
		})
	}
}

func TestMergeWithZero(t *testing.T) {
	a := Media{
		Video: Video{
			Width: 30,
		},
	}

	b := Media{
		Video: Video{
			Height: 100,
		},
	}

	a.Merge(b)

	if a.Width == 0 {
		t.Error("expected a.Width to be 30, but got 0")
	}

	if a.Height == 0 {
		t.Error("expected a.Height to be 100, but got 0")
	}
}

func TestMergeWithSameField(t *testing.T) {
	a := Media{
		Video: Video{
			Width: 30,
		},
	}

	b := Media{
		Video: Video{
			Width: 100,
		},
	}

	a.Merge(b)

	if a.Width != 100 {
		t.Error("expected a.Width to be 100, but got 0")
	}
}

func TestMergeNested(t *testing.T) {
	type constraints struct {
		Media
	}

	a := constraints{
		Media{
			Video: Video{
				Width: 30,
			},
		},
	}

	b := Media{
		Video: Video{
			Width:       100,
			FrameFormat: frame.FormatNV21,
		},
	}

	a.Merge(b)

	if a.Width != 100 {
		t.Error("expected a.Width to be 100, but got 0")
	}
	if a.FrameFormat != frame.FormatNV21 {
		t.Errorf("expected a.FrameFormat to be %s, but got %s", frame.FormatNV21, a.FrameFormat)
	}
}
