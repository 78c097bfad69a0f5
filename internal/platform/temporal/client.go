// Package temporal dials the Temporal cluster with tracing and structured logging wired in.
package temporal

import (
	"errors"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
)

// ErrDisabled is returned by Dial when Temporal is switched off in configuration.
var ErrDisabled = errors.New("temporal disabled by configuration")

// Options selects the cluster to dial.
type Options struct {
	Address   string
	Namespace string
	Disabled  bool
	// TracerName names the tracer used by the client interceptor.
	TracerName string
}

// Dial connects a Temporal client with the OpenTelemetry tracing interceptor.
func Dial(opts Options, instruments *platformobservability.Instruments) (client.Client, error) {
	if opts.Disabled {
		return nil, ErrDisabled
	}
	if opts.Address == "" {
		opts.Address = client.DefaultHostPort
	}
	if opts.Namespace == "" {
		opts.Namespace = client.DefaultNamespace
	}
	if opts.TracerName == "" {
		opts.TracerName = "temporal-client"
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(opts.TracerName),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  opts.Address,
		Namespace: opts.Namespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
