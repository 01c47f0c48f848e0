package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// RetryLogger satisfies the leveled logger interface of the retrying HTTP
// client. Key/value pairs become zap fields.
type RetryLogger struct{}

// Error logs a retry error
func (RetryLogger) Error(msg string, keysAndValues ...interface{}) {
	Error("HTTP retry: "+msg, kvFields(keysAndValues)...)
}

// Warn logs a retry warning
func (RetryLogger) Warn(msg string, keysAndValues ...interface{}) {
	Warn("HTTP retry: "+msg, kvFields(keysAndValues)...)
}

// Info is logged at debug level; the transport is chatty at info.
func (RetryLogger) Info(msg string, keysAndValues ...interface{}) {
	Debug("HTTP retry: "+msg, kvFields(keysAndValues)...)
}

// Debug logs retry debug output
func (RetryLogger) Debug(msg string, keysAndValues ...interface{}) {
	Debug("HTTP retry: "+msg, kvFields(keysAndValues)...)
}

func kvFields(kv []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			fields = append(fields, zap.Any(key, nil))
			break
		}
		fields = append(fields, zap.Any(key, kv[i+1]))
	}
	return fields
}
