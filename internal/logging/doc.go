// Package logging provides a simple leveled logging interface for the
// asset browser.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The level is read once from the DEBUG or LOG_LEVEL environment variables
// and can be overridden with SetLevel (the CLI does this for --verbose).
package logging
