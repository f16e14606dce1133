package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ContentTypeJSON is the content type of serialized batches.
const ContentTypeJSON = "application/json; charset=utf-8"

// buildRequest assembles a request for endpoint. Content-Type and the body are
// only set when non-empty. The request deadline comes from ctx.
//
// Without a userAgent the User-Agent key holds a single empty value: net/http
// then writes no User-Agent line instead of its default one. HTTPClient
// implementations therefore see Header.Values("User-Agent") == [""].
//
// It only fails for an invalid method, since endpoint was validated by
// ParseEndpoint.
func buildRequest(ctx context.Context, endpoint *url.URL, method, contentType string, body []byte, userAgent string) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), r)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	// Never serve a tracking request from an intermediate cache.
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	} else {
		req.Header["User-Agent"] = []string{""}
	}

	return req, nil
}
