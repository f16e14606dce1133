package dispatch

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// collectorScripts are the tracking script names a collector URL may end in.
var collectorScripts = []string{"matomo.php", "piwik.php"}

// ParseEndpoint validates raw as a collector URL: an absolute http or https
// URL whose path ends in matomo.php or piwik.php, without query or fragment.
func ParseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidEndpoint, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("%w: query and fragment are not allowed", ErrInvalidEndpoint)
	}
	script := path.Base(u.Path)
	for _, s := range collectorScripts {
		if script == s {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: path must end in %s, got %q", ErrInvalidEndpoint,
		strings.Join(collectorScripts, " or "), u.Path)
}
