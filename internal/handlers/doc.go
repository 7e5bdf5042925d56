// Package handlers provides HTTP request handlers for the screensaver bot API.
//
// It includes handlers for:
//   - The Telegram webhook ingestion endpoint
//   - Preview listing and media file serving
//   - Slideshow, cleanup, and Telegram configuration
//   - Polling source management
//   - Persisted application logs
//   - Health checks and version info
package handlers
