package ingest

import "errors"

var (
	// ErrContentType means an HTTP source answered with something that is
	// not declared as an image.
	ErrContentType = errors.New("response is not an image")

	// ErrTransport means an HTTP request failed: network error, timeout, or
	// a non-2xx status.
	ErrTransport = errors.New("transport failure")
)
