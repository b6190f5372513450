package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// ContextRequestID holds the id assigned by RequestLogger.
	ContextRequestID = "requestid"

	requestIDHeader = "X-Request-ID"
)

// RequestLogger logs one structured entry per request with logrus.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()

		c.Set(ContextRequestID, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		statusCode := c.Writer.Status()
		entry := log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"http_method": c.Request.Method,
			"uri":         c.Request.URL.RequestURI(),
			"status_code": statusCode,
			"latency_ms":  time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
		if username := c.GetString(ContextUsername); username != "" {
			entry = entry.WithField("username", username)
		}
		if len(c.Errors) > 0 {
			entry = entry.WithField("error", c.Errors.String())
		}

		switch {
		case statusCode >= 500:
			entry.Error("Request completed with server error")
		case statusCode >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// RequestLog returns a logger carrying the request id of c.
func RequestLog(c *gin.Context, log logrus.FieldLogger) logrus.FieldLogger {
	if id := c.GetString(ContextRequestID); id != "" {
		return log.WithField("request_id", id)
	}
	return log
}
