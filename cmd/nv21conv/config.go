package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pion/cameracore/pkg/frame"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	modePlanar   = "planar"
	modeHWBuffer = "hwbuffer"
)

// Config holds a single conversion. Every field can be set from the YAML
// file given with --conf and overridden on the command line.
type Config struct {
	Mode   string `yaml:"mode"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// planar
	Y             string `yaml:"y"`
	U             string `yaml:"u"`
	V             string `yaml:"v"`
	YStride       int    `yaml:"y_stride"`
	UVPixelStride int    `yaml:"uv_pixel_stride"`

	// hwbuffer
	In     string `yaml:"in"`
	Stride int    `yaml:"stride"`
	Align  int    `yaml:"align"`

	Out     string `yaml:"out"`
	JPEG    string `yaml:"jpeg"`
	Quality int    `yaml:"quality"`
}

// allows custom config path
var configPath string

func (c *Config) WithFlags(fs *flag.FlagSet) *Config {
	fs.StringVar(&c.Mode, "mode", modePlanar, "Conversion to run: planar or hwbuffer")
	fs.IntVar(&c.Width, "width", 0, "Frame width in pixels")
	fs.IntVar(&c.Height, "height", 0, "Frame height in pixels")
	fs.StringVar(&c.Y, "y", "", "Luma plane file (planar)")
	fs.StringVar(&c.U, "u", "", "U plane file (planar)")
	fs.StringVar(&c.V, "v", "", "V plane file (planar)")
	fs.IntVar(&c.YStride, "y-stride", 0, "Row stride of all planes, defaults to the width (planar)")
	fs.IntVar(&c.UVPixelStride, "uv-pixel-stride", 2, "Distance between chroma samples (planar)")
	fs.StringVar(&c.In, "in", "", "Stride padded NV12 buffer dump (hwbuffer)")
	fs.IntVar(&c.Stride, "stride", 0, "Row stride of the dump, defaults to the width (hwbuffer)")
	fs.IntVar(&c.Align, "align", frame.RowAlignment, "Row alignment of the luma plane (hwbuffer)")
	fs.StringVarP(&c.Out, "out", "o", "", "Output NV21 file")
	fs.StringVar(&c.JPEG, "jpeg", "", "Optional JPEG preview file")
	fs.IntVar(&c.Quality, "quality", 90, "JPEG preview quality")
	fs.StringVarP(&configPath, "conf", "c", "", "Set custom configuration file path")
	return c
}

// ParseConfig parses args into a Config. Values from the --conf file replace
// the defaults, flags given explicitly replace both.
func ParseConfig(args []string) (*Config, error) {
	var c Config
	fs := flag.NewFlagSet("nv21conv", flag.ContinueOnError)
	c.WithFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath != "" {
		explicit := map[string]string{}
		fs.Visit(func(f *flag.Flag) {
			explicit[f.Name] = f.Value.String()
		})

		if err := c.load(configPath); err != nil {
			return nil, err
		}
		for name, value := range explicit {
			if err := fs.Set(name, value); err != nil {
				return nil, err
			}
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	}
	if c.Out == "" && c.JPEG == "" {
		return errors.New("nothing to write, set --out or --jpeg")
	}

	switch c.Mode {
	case modePlanar:
		if c.Y == "" || c.U == "" || c.V == "" {
			return errors.New("planar mode needs --y, --u and --v")
		}
		if c.YStride == 0 {
			c.YStride = c.Width
		}
	case modeHWBuffer:
		if c.In == "" {
			return errors.New("hwbuffer mode needs --in")
		}
		if c.Stride == 0 {
			c.Stride = c.Width
		}
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	return nil
}
