package core

// EnsureLen returns buf resliced to n frames, allocating only when its
// capacity is too small. Node scratch buffers go through it every quantum.
func EnsureLen(buf []float64, n int) []float64 {
	switch {
	case n <= 0:
		return buf[:0]
	case cap(buf) < n:
		return make([]float64, n)
	default:
		return buf[:n]
	}
}

// Zero silences buf.
func Zero(buf []float64) { clear(buf) }

// Fill sets every frame of buf to v.
func Fill(buf []float64, v float64) {
	for i := range buf {
		buf[i] = v
	}
}
