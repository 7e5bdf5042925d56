// Package media implements the image ingestion pipeline: normalizing
// arbitrary image bytes to canonical JPEGs in the content store, and deriving
// fixed-width preview thumbnails from them.
//
// The store is two sibling directories, images/ and previews/, related 1:1 by
// identical base filename. Image filenames are derived from the UTC save time
// at microsecond resolution, so lexical filename order equals creation order.
package media
