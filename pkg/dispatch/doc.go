// Package dispatch delivers batches of tracking events to a Matomo collector.
//
// A Dispatcher is bound to one endpoint. Each send serializes a batch, builds
// a single POST request and reports exactly one outcome. Any completed HTTP
// round trip counts as success, whatever the status code; only serialization
// failures and transport failures (DNS, connect, TLS, timeout, cancellation)
// are errors. Retries, batching and flush scheduling are left to the caller.
//
// # Usage
//
//	d, err := dispatch.New("https://analytics.example.org/matomo.php",
//	    dispatch.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//
//	d.Send(events,
//	    func() { queue.Ack(events) },
//	    func(err error) { queue.Requeue(events, err) },
//	)
//
// SendContext and Dispatch offer blocking and channel-based forms of the same
// operation.
//
// # User agent
//
// Unless WithUserAgent supplies one, New starts resolving an identification
// string in the background (see package useragent). Sends issued before it is
// available carry no User-Agent header.
package dispatch
