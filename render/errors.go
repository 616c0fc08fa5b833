package render

import "errors"

var (
	// ErrUnsupportedImageFormat indicates a still-image format with no
	// registered encoder.
	ErrUnsupportedImageFormat = errors.New("unsupported still image format")
)
