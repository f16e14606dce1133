package dispatch

import (
	"errors"
	"testing"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{raw: "https://example.org/piwik.php"},
		{raw: "https://example.org/matomo.php"},
		{raw: "http://localhost:8080/analytics/matomo.php"},
		{raw: "  https://example.org/piwik.php  "},
		{raw: "https://example.org/", wantErr: true},
		{raw: "https://example.org/tracker.php", wantErr: true},
		{raw: "ftp://example.org/piwik.php", wantErr: true},
		{raw: "/piwik.php", wantErr: true},
		{raw: "https:///piwik.php", wantErr: true},
		{raw: "https://example.org/piwik.php?idsite=1", wantErr: true},
		{raw: "https://example.org/piwik.php#x", wantErr: true},
		{raw: "://bad", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			u, err := ParseEndpoint(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEndpoint) {
					t.Errorf("ParseEndpoint() error = %v, want ErrInvalidEndpoint", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEndpoint() error = %v", err)
			}
			if u.Host == "" {
				t.Errorf("ParseEndpoint() host empty for %q", tt.raw)
			}
		})
	}
}
