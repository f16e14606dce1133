// Package trackship delivers batches of analytics events to a Matomo collector.
//
// Example usage:
//
//	d, err := trackship.New("https://analytics.example.org/matomo.php")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	e := trackship.NewEvent("1", trackship.NewVisitorID())
//	e.ActionName = "Home"
//	e.URL = "https://example.org/"
//
//	if err := d.SendContext(ctx, []trackship.Event{e}); err != nil {
//	    log.Println(err)
//	}
//
// The dispatch, event, useragent, log and metrics packages can also be
// imported directly.
package trackship

import (
	"github.com/bft-labs/trackship/pkg/dispatch"
	"github.com/bft-labs/trackship/pkg/event"
)

// Dispatcher sends event batches to a collector.
type Dispatcher = dispatch.Dispatcher

// Option configures a Dispatcher.
type Option = dispatch.Option

// Event is a single tracked occurrence.
type Event = event.Event

// New creates a Dispatcher for the collector at endpoint.
func New(endpoint string, opts ...Option) (*Dispatcher, error) {
	return dispatch.New(endpoint, opts...)
}

// NewEvent returns an event for the given site and visitor.
func NewEvent(siteID, visitorID string) Event {
	return event.New(siteID, visitorID)
}

// NewVisitorID returns a random visitor ID.
func NewVisitorID() string {
	return event.NewVisitorID()
}
