package media

import "errors"

var (
	// ErrDecode means the supplied bytes (or an on-disk file) could not be
	// decoded as any supported image format.
	ErrDecode = errors.New("not a recognized image format")

	// ErrStore means a filesystem read, write, or delete in the content
	// store failed.
	ErrStore = errors.New("image store I/O failure")
)
