package frame

// Return a function to get the number of bytes a frame will occupy in the given format
var FrameSizeMap = map[Format]frameSizeFunc{
	FormatI420: frameSizeI420,
	FormatNV21: frameSizeNV21,
	FormatNV12: frameSizeNV21, // NV12 and NV21 have the same frame size
}

type frameSizeFunc func(width, height int) uint

func frameSizeI420(width, height int) uint {
	yi := width * height
	cbi := yi + width*height/4
	cri := cbi + width*height/4
	return uint(cri)
}

func frameSizeNV21(width, height int) uint {
	return uint(NV21Size(width, height))
}

// NV21Size returns the packed size of a width x height 4:2:0 semi-planar
// frame: a full resolution Y plane followed by width*height/2 chroma bytes.
func NV21Size(width, height int) int {
	yi := width * height
	return yi + yi/2
}
