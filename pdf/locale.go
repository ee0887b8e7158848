//go:build !cgo || nopoppler

package pdf

// SetLocale is a no-op without the poppler backend.
func SetLocale() {}
