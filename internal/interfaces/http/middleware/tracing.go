package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxRequestIDLength caps the request ID copied into span attributes
const maxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// Provider defaults to the global tracer provider when nil
	Provider trace.TracerProvider
}

// TracingWithConfig returns the otelgin server span middleware followed by a
// handler that tags the span with the request ID. otelgin marks 5xx
// responses and c.Errors on the span. Nil when tracing is disabled.
func TracingWithConfig(cfg TracingConfig) []gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}

	var opts []otelgin.Option
	if cfg.Provider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.Provider))
	}
	return []gin.HandlerFunc{otelgin.Middleware(cfg.ServiceName, opts...), tagSpan}
}

func tagSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if span.IsRecording() {
		if id := getRequestIDFromContext(c); id != "" {
			if len(id) > maxRequestIDLength {
				id = id[:maxRequestIDLength]
			}
			span.SetAttributes(attribute.String("request_id", id))
		}
	}
	c.Next()
}
