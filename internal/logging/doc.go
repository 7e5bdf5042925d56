// Package logging provides a simple leveled logging interface for the
// screensaver bot.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable.
// In addition to stderr output, an optional Sink can be registered to
// persist log records (for example to the application database). Sink
// writes are guarded against reentrance so a sink whose own code logs
// cannot recurse, and sink failures are always swallowed.
package logging
