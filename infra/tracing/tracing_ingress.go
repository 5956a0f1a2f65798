package tracing

import (
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// TracingIngress opens a server span per request, continuing the trace
// carried in the request headers when there is one.
func TracingIngress() gin.HandlerFunc {
	return func(c *gin.Context) {
		tracer := opentracing.GlobalTracer()
		carrier := opentracing.HTTPHeadersCarrier(c.Request.Header)
		parentCtx, _ := tracer.Extract(opentracing.HTTPHeaders, carrier)

		span := tracer.StartSpan(c.Request.Method+" "+c.Request.RequestURI, ext.RPCServerOption(parentCtx))
		defer span.Finish()

		c.Request = c.Request.WithContext(opentracing.ContextWithSpan(c.Request.Context(), span))
		c.Next()
	}
}
