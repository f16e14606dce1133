package dispatch

import (
	"net/http"
	"time"

	"github.com/bft-labs/trackship/pkg/event"
	"github.com/bft-labs/trackship/pkg/log"
	"github.com/bft-labs/trackship/pkg/metrics"
	"github.com/bft-labs/trackship/pkg/useragent"
)

const (
	// DefaultTimeout bounds every request.
	DefaultTimeout = 5 * time.Second

	// DefaultResolveTimeout bounds identification resolution.
	DefaultResolveTimeout = 30 * time.Second
)

// Option configures optional behavior of a Dispatcher.
type Option func(*options)

type options struct {
	httpClient     HTTPClient
	serializer     event.Serializer
	logger         log.Logger
	metrics        metrics.Recorder
	timeout        time.Duration
	userAgent      string
	resolver       useragent.Resolver
	resolveTimeout time.Duration
}

func defaultOptions() options {
	return options{
		httpClient:     &http.Client{},
		serializer:     event.JSONSerializer{},
		logger:         log.NewNoopLogger(),
		metrics:        metrics.Noop{},
		timeout:        DefaultTimeout,
		resolveTimeout: DefaultResolveTimeout,
	}
}

// WithHTTPClient sets the client used to perform requests.
// The per-request timeout is applied through the request context, so the
// client does not need its own Timeout.
//
// Requests sent before the identification string is known carry a User-Agent
// key with one empty value, which net/http's transport omits from the wire.
// A client that inspects headers should treat that value as absent.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithSerializer replaces the default JSON bulk serializer.
func WithSerializer(s event.Serializer) Option {
	return func(o *options) {
		o.serializer = s
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the recorder for send outcomes.
func WithMetrics(r metrics.Recorder) Option {
	return func(o *options) {
		o.metrics = r
	}
}

// WithTimeout overrides DefaultTimeout for every request of the dispatcher.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithUserAgent supplies the identification string up front.
// Automatic resolution is skipped when ua is non-empty.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithResolver replaces the default platform resolver.
func WithResolver(r useragent.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithResolveTimeout bounds how long resolution may take before it is abandoned.
func WithResolveTimeout(d time.Duration) Option {
	return func(o *options) {
		o.resolveTimeout = d
	}
}
