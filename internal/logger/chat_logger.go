package logger

import (
	"github.com/sirupsen/logrus"
)

// ChatLogger provides dedicated logging for chatbot requests.
type ChatLogger struct {
	*logrus.Entry
}

// NewChatLogger creates a new chat logger.
func NewChatLogger(baseLogger *logrus.Logger) *ChatLogger {
	return &ChatLogger{
		Entry: baseLogger.WithField("component", "chat"),
	}
}

// LogIntent logs how a message was routed.
func (cl *ChatLogger) LogIntent(intent string, hasUserData bool, messageLength int) {
	cl.WithFields(logrus.Fields{
		"intent":         intent,
		"has_user_data":  hasUserData,
		"message_length": messageLength,
	}).Debug("Chat message classified")
}

// LogUpstreamCall logs a completed text generation call.
func (cl *ChatLogger) LogUpstreamCall(model string, statusCode int, latencyMs float64) {
	cl.WithFields(logrus.Fields{
		"model":       model,
		"status_code": statusCode,
		"latency_ms":  latencyMs,
	}).Info("Text generation call completed")
}

// LogUpstreamError logs a failed text generation call.
func (cl *ChatLogger) LogUpstreamError(model string, err error) {
	cl.WithFields(logrus.Fields{
		"model": model,
		"error": err.Error(),
	}).Error("Text generation call failed")
}
