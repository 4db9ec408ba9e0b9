package insight

import "errors"

var (
	ErrServiceUnavailable = errors.New("insight service unavailable")
	ErrInvalidResponse    = errors.New("invalid response from insight service")
	ErrInvalidImage       = errors.New("insight service rejected the image")
)
