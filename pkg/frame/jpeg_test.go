package frame

import (
	"bytes"
	"image/jpeg"
	"testing"
)

func TestEncodeJPEG(t *testing.T) {
	const (
		width  = 32
		height = 16
	)
	nv21 := make([]byte, NV21Size(width, height))
	for i := range nv21 {
		nv21[i] = byte(i)
	}

	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, nv21, width, height, 50); err != nil {
		t.Fatal(err)
	}

	img, err := jpeg.Decode(&buf)
	if err != nil {
		t.Fatalf("Expected a decodable JPEG. Failed with %v\n", err)
	}
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		t.Errorf("expected %dx%d, got %v", width, height, b)
	}

	if err := EncodeJPEG(&buf, nv21[:10], width, height, 50); err == nil {
		t.Error("expected a frame length error")
	}
}
