//go:build headless

package ui

// Run reports ErrHeadless.
func Run(_ *Panel, _ string) error {
	return ErrHeadless
}
