// Package dump writes raw NV21 frames to disk for offline inspection, e.g.
// with `ffplay -f rawvideo -pixel_format nv21 -video_size WxH`.
package dump

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pion/cameracore/internal/logging"
	"github.com/pion/cameracore/pkg/frame"
	"github.com/pion/cameracore/pkg/io"
)

var logger = logging.NewLogger("cameracore/dump")

// Dumper writes frames into Dir. With Timestamp set every frame gets its own
// file, otherwise each resolution has a single file that is overwritten.
type Dumper struct {
	Dir       string
	Timestamp bool

	now func() time.Time
}

// NewDumper creates a Dumper that names files after the current time.
func NewDumper(dir string) *Dumper {
	return &Dumper{Dir: dir, Timestamp: true}
}

// FileName returns the name Dump uses for a width x height frame taken at t.
func (d *Dumper) FileName(width, height int, t time.Time) string {
	if d.Timestamp {
		return fmt.Sprintf("dump-%d-%dx%d.NV21", t.UnixMilli(), width, height)
	}
	return fmt.Sprintf("dump-%dx%d.NV21", width, height)
}

// Dump writes the NV21 frame in data and returns the path of the new file.
func (d *Dumper) Dump(data []byte, width, height int) (string, error) {
	size := frame.NV21Size(width, height)
	if err := io.CheckSize("frame", data, size); err != nil {
		return "", err
	}

	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("dump: %w", err)
	}

	now := time.Now
	if d.now != nil {
		now = d.now
	}
	path := filepath.Join(d.Dir, d.FileName(width, height, now()))

	// os.WriteFile truncates an existing dump of the same name.
	if err := os.WriteFile(path, data[:size], 0644); err != nil {
		return "", fmt.Errorf("dump: %w", err)
	}

	logger.Debugf("dumped %dx%d frame to %s", width, height, path)
	return path, nil
}
