package event

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

// Serializer converts a batch of events into a request body.
type Serializer interface {
	// Serialize encodes events into a single payload.
	// It returns an error if any event cannot be encoded.
	Serialize(events []Event) ([]byte, error)
}

// SerializerFunc adapts an ordinary function to the Serializer interface.
type SerializerFunc func(events []Event) ([]byte, error)

// Serialize calls f(events).
func (f SerializerFunc) Serialize(events []Event) ([]byte, error) {
	return f(events)
}

// JSONSerializer encodes a batch as a Matomo bulk tracking document.
type JSONSerializer struct{}

type bulkRequest struct {
	Requests []string `json:"requests"`
}

// Serialize implements Serializer.
func (JSONSerializer) Serialize(events []Event) ([]byte, error) {
	doc := bulkRequest{Requests: make([]string, 0, len(events))}
	for i, e := range events {
		q, err := EncodeQuery(e)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		doc.Requests = append(doc.Requests, q)
	}
	// Query strings carry '&' which must stay unescaped in the document.
	b, err := json.MarshalWithOption(doc, json.DisableHTMLEscape())
	if err != nil {
		return nil, fmt.Errorf("marshal bulk request: %w", err)
	}
	return b, nil
}

// EncodeQuery renders e as a "?name=value&..." query string.
func EncodeQuery(e Event) (string, error) {
	items, err := e.QueryItems()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteByte('?')
	for i, it := range items {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(it.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(it.Value))
	}
	return sb.String(), nil
}
