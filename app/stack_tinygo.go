//go:build tinygo

package app

// TinyGo has no goroutine stack dump.
func captureStack() []byte {
	return nil
}
