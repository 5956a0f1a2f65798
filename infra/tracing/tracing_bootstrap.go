package tracing

import (
	"io"

	"atelier/misc"

	"github.com/opentracing/opentracing-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Bootstrap install the jaeger global tracer, configured from JAEGER_*
// environment variables. Tracing stays a noop when they are absent.
func Bootstrap() io.Closer {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		misc.Log.Warnf("failed to parse jaeger config: %v", err)
		return nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = misc.GetServiceName()
	}

	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		misc.Log.Warnf("failed to build jaeger tracer: %v", err)
		return nil
	}
	opentracing.SetGlobalTracer(tracer)
	return closer
}
