package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AccessLogger records one entry per served HTTP request.
type AccessLogger struct {
	*logrus.Entry
}

// NewAccessLogger creates a new access logger.
func NewAccessLogger(baseLogger *logrus.Logger) *AccessLogger {
	return &AccessLogger{
		Entry: baseLogger.WithField("component", "http"),
	}
}

// LogRequest logs a served request. Server errors are logged at warn level.
func (al *AccessLogger) LogRequest(requestID, method, path, remoteAddr string, status, bytes int, duration time.Duration) {
	entry := al.WithFields(logrus.Fields{
		"request_id":  requestID,
		"method":      method,
		"path":        path,
		"remote_addr": remoteAddr,
		"status":      status,
		"bytes":       bytes,
		"duration_ms": float64(duration.Microseconds()) / 1000,
	})
	if status >= 500 {
		entry.Warn("Request failed")
		return
	}
	entry.Info("Request served")
}
