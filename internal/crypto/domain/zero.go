package domain

// Zero overwrites a byte slice with zeros. Callers use it to scrub derived
// keys and salt material once a cipher has been built from them.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
