package frame

// SwapChroma swaps every adjacent byte pair of an interleaved chroma plane in
// place, turning NV12 (U, V) order into NV21 (V, U) order and back. A trailing
// odd byte is left alone.
func SwapChroma(b []byte) {
	for i := 0; i+1 < len(b); i += 2 {
		b[i], b[i+1] = b[i+1], b[i]
	}
}
