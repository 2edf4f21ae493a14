package frame

// Plane is a single channel of a possibly padded image held in Data.
// RowStride is the byte distance between the starts of consecutive rows.
// PixelStride is the byte distance between consecutive samples of one row;
// it is 1 for packed planes and 2 when U and V share an interleaved region.
type Plane struct {
	Data        []byte
	RowStride   int
	PixelStride int
}
