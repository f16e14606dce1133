package dispatch

import "errors"

var (
	// ErrInvalidEndpoint is returned by New when the endpoint URL is unusable.
	ErrInvalidEndpoint = errors.New("dispatch: invalid endpoint")

	// ErrEmptyBatch is reported when a send is called with no events.
	ErrEmptyBatch = errors.New("dispatch: empty batch")
)

// SerializationError reports that a batch could not be encoded.
// No request was sent.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return "serialize batch: " + e.Err.Error()
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// TransportError reports that the request did not complete a round trip.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "send batch: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
