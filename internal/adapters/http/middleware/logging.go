package middleware

import (
	"bytes"
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rafaelleal24/stockledger/internal/core/logger"
)

const RequestIDHeader = "X-Request-ID"

func logHTTPRequest(ctx context.Context, method, path, route string, statusCode int, duration time.Duration, extraAttributes map[string]any) {
	attrs := map[string]any{
		"http.method":      method,
		"http.path":        path,
		"http.route":       route,
		"http.status_code": statusCode,
		"http.duration_ms": duration.Milliseconds(),
	}

	for key, value := range extraAttributes {
		attrs[key] = value
	}

	level := logger.LogLevelInfo
	if statusCode >= 500 {
		level = logger.LogLevelError
	} else if statusCode >= 400 {
		level = logger.LogLevelWarn
	}

	logger.Log(ctx, logger.LogEntry{
		Level:      level,
		Message:    "HTTP Request",
		Attributes: attrs,
	})
}

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// error bodies are small; anything larger is not worth logging
const maxErrorBodySize = 4 * 1024

// errorBodyWriter keeps a copy of the response body so failed requests can log the error payload.
type errorBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *errorBodyWriter) Write(b []byte) (int, error) {
	if w.Status() >= 400 && w.body.Len()+len(b) <= maxErrorBodySize {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *errorBodyWriter) WriteString(s string) (int, error) {
	if w.Status() >= 400 && w.body.Len()+len(s) <= maxErrorBodySize {
		w.body.WriteString(s)
	}
	return w.ResponseWriter.WriteString(s)
}

// LogRequest logs every request once it completes and echoes a request id header,
// generating one when the client sent none.
func LogRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		buf := bufferPool.Get().(*bytes.Buffer)
		defer bufferPool.Put(buf)
		buf.Reset()
		c.Writer = &errorBodyWriter{ResponseWriter: c.Writer, body: buf}

		c.Next()

		extraAttributes := map[string]any{
			"http.request_id": requestID,
			"http.client_ip":  c.ClientIP(),
		}
		if contentLength := c.Request.Header.Get("Content-Length"); contentLength != "" {
			if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil {
				extraAttributes["http.request_size"] = size
			}
		}
		if buf.Len() > 0 {
			extraAttributes["http.error_body"] = buf.String()
		}

		logHTTPRequest(
			c.Request.Context(),
			c.Request.Method,
			c.Request.URL.Path,
			c.FullPath(),
			c.Writer.Status(),
			time.Since(start),
			extraAttributes,
		)
	}
}
