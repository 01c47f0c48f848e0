// Package logging provides structured logging for the cuenta client and server.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used throughout the repository. Logging is silent unless a
// level is passed explicitly or CUENTA_LOG_LEVEL is set, so CLI output and the
// terminal UI are never interleaved with log lines by default.
//
// # Log Levels
//
//   - Debug: request/response detail, websocket frames, retry attempts
//   - Info: submissions, profile loads, server lifecycle
//   - Warn: retries, dropped event subscribers, rejected requests
//   - Error: startup failures, unexpected backend errors
//
// # Structured Logging
//
//	logging.Info("Profile updated",
//	    zap.String("user_id", id),
//	    zap.Strings("changed", fields),
//	)
//
// # Terminal UI
//
// The TUI owns stdout while it runs. Initialize it with a file output:
//
//	if err := logging.InitializeWithOutput("debug", "/tmp/cuenta.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # HTTP retries
//
// RetryLogger adapts the global logger to the leveled logger interface used
// by the retrying HTTP transport in package account.
package logging
