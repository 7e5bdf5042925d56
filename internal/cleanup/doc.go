// Package cleanup enforces the image store retention policy: when the total
// size of the normalized images exceeds the configured limit, the oldest
// images (by filename, which equals creation order) and their previews are
// deleted until the store is back under the limit.
package cleanup
