package dispatch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bft-labs/trackship/pkg/event"
	"github.com/bft-labs/trackship/pkg/log"
	"github.com/bft-labs/trackship/pkg/metrics"
	"github.com/bft-labs/trackship/pkg/useragent"
)

// maxDrainBytes caps how much of a response body is read before closing it.
const maxDrainBytes = 64 << 10

// Dispatcher sends event batches to a single collector endpoint.
// It is safe for concurrent use.
type Dispatcher struct {
	endpoint   *url.URL
	client     HTTPClient
	serializer event.Serializer
	logger     log.Logger
	metrics    metrics.Recorder
	timeout    time.Duration
	userAgent  *useragent.Cell
}

// New creates a Dispatcher for endpoint.
// Returns an error wrapping ErrInvalidEndpoint if the URL is not a collector URL.
func New(endpoint string, opts ...Option) (*Dispatcher, error) {
	u, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeout <= 0 {
		return nil, fmt.Errorf("dispatch: timeout must be positive, got %s", o.timeout)
	}

	d := &Dispatcher{
		endpoint:   u,
		client:     o.httpClient,
		serializer: o.serializer,
		logger:     o.logger,
		metrics:    o.metrics,
		timeout:    o.timeout,
		userAgent:  useragent.NewCell(o.userAgent),
	}

	if o.userAgent == "" {
		r := o.resolver
		if r == nil {
			r = useragent.NewPlatform(useragent.DefaultCommandProbe())
		}
		d.resolveUserAgent(r, o.resolveTimeout)
	}

	return d, nil
}

// Endpoint returns a copy of the collector URL.
func (d *Dispatcher) Endpoint() *url.URL {
	u := *d.endpoint
	return &u
}

// UserAgent returns the identification string if it has been resolved.
func (d *Dispatcher) UserAgent() (string, bool) {
	return d.userAgent.Load()
}

// Send delivers events asynchronously and calls exactly one of onSuccess or
// onFailure. Serialization failures are reported before Send returns; the
// network outcome is reported from another goroutine. Nil callbacks are ignored.
func (d *Dispatcher) Send(events []event.Event, onSuccess func(), onFailure func(error)) {
	done := func(err error) {
		switch {
		case err == nil && onSuccess != nil:
			onSuccess()
		case err != nil && onFailure != nil:
			onFailure(err)
		}
	}

	body, err := d.serialize(events)
	if err != nil {
		done(err)
		return
	}
	go func() {
		done(d.post(context.Background(), body, len(events)))
	}()
}

// SendContext delivers events and blocks until the outcome is known.
// It returns nil for any completed round trip, a *SerializationError if the
// batch could not be encoded, or a *TransportError if the request failed.
func (d *Dispatcher) SendContext(ctx context.Context, events []event.Event) error {
	body, err := d.serialize(events)
	if err != nil {
		return err
	}
	return d.post(ctx, body, len(events))
}

// Dispatch delivers events in the background. The returned channel receives
// exactly one value, the result SendContext would have returned, and is
// buffered so the caller may ignore it.
func (d *Dispatcher) Dispatch(ctx context.Context, events []event.Event) <-chan error {
	ch := make(chan error, 1)
	body, err := d.serialize(events)
	if err != nil {
		ch <- err
		return ch
	}
	go func() {
		ch <- d.post(ctx, body, len(events))
	}()
	return ch
}

func (d *Dispatcher) serialize(events []event.Event) ([]byte, error) {
	if len(events) == 0 {
		return nil, ErrEmptyBatch
	}
	body, err := d.serializer.Serialize(events)
	if err != nil {
		d.metrics.SendCompleted(metrics.OutcomeSerializationError, len(events), 0)
		d.logger.Error("serialize batch failed",
			log.Int("events", len(events)),
			log.Err(err))
		return nil, &SerializationError{Err: err}
	}
	return body, nil
}

func (d *Dispatcher) post(ctx context.Context, body []byte, n int) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	ua, _ := d.userAgent.Load()
	req, err := buildRequest(ctx, d.endpoint, http.MethodPost, ContentTypeJSON, body, ua)
	if err != nil {
		d.metrics.SendCompleted(metrics.OutcomeTransportError, n, 0)
		return &TransportError{Err: err}
	}

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		took := time.Since(start)
		d.metrics.SendCompleted(metrics.OutcomeTransportError, n, took)
		d.logger.Warn("send batch failed",
			log.URL("endpoint", d.endpoint),
			log.Int("events", n),
			log.Duration("took", took),
			log.Err(err))
		return &TransportError{Err: err}
	}

	// The response is not inspected; drain it so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	_ = resp.Body.Close()
	took := time.Since(start)

	if resp.StatusCode >= http.StatusBadRequest {
		d.logger.Warn("collector returned error status",
			log.Int("status", resp.StatusCode),
			log.Int("events", n))
	}
	d.metrics.SendCompleted(metrics.OutcomeSuccess, n, took)
	d.logger.Debug("batch sent",
		log.Int("events", n),
		log.Int("bytes", len(body)),
		log.Int("status", resp.StatusCode),
		log.Bool("user_agent", ua != ""),
		log.Duration("took", took))
	return nil
}

// resolveUserAgent starts r and publishes its result. A result that is
// already available is published before returning.
func (d *Dispatcher) resolveUserAgent(r useragent.Resolver, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ch := r.Resolve(ctx)

	select {
	case res := <-ch:
		cancel()
		d.publishUserAgent(res)
		return
	default:
	}

	go func() {
		defer cancel()
		d.publishUserAgent(awaitUserAgent(ctx, ch))
	}()
}

// awaitUserAgent waits for the resolver's result. A result that is ready when
// ctx expires still wins over the deadline.
func awaitUserAgent(ctx context.Context, ch <-chan useragent.Result) useragent.Result {
	select {
	case res := <-ch:
		return res
	case <-ctx.Done():
		select {
		case res := <-ch:
			return res
		default:
			return useragent.Result{Err: ctx.Err()}
		}
	}
}

func (d *Dispatcher) publishUserAgent(res useragent.Result) {
	if res.Err != nil {
		d.metrics.UserAgentResolved(false)
		d.logger.Debug("user agent resolution failed, sending without it", log.Err(res.Err))
		return
	}
	if d.userAgent.Publish(res.UserAgent) {
		d.metrics.UserAgentResolved(true)
		d.logger.Debug("user agent resolved", log.String("user_agent", res.UserAgent))
	}
}
