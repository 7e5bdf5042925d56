// Package ingest pulls images into the content store from the two supported
// origins: polled HTTP endpoints and a Telegram bot webhook.
//
// The polling side walks every enabled source, asks the interval scheduler
// whether it is due, downloads the image, and runs it through the
// normalize-then-preview pipeline. One source failing never aborts the batch.
//
// The push side consumes Telegram webhook updates: it validates the
// originating chat against the configured credential, picks the largest photo
// candidate, resolves it through the bot file API, and runs the same
// pipeline. Updates that should not produce an image (disabled credential,
// foreign chat, no photo) are ignored without error so Telegram never
// retries them.
package ingest
