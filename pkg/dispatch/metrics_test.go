package dispatch

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/trackship/pkg/event"
	"github.com/bft-labs/trackship/pkg/metrics"
	"github.com/bft-labs/trackship/pkg/useragent"
	"github.com/google/go-cmp/cmp"
)

type recordedSend struct {
	Outcome string
	Events  int
}

type fakeRecorder struct {
	mu        sync.Mutex
	sends     []recordedSend
	userAgent []bool
}

func (r *fakeRecorder) SendCompleted(outcome string, events int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = append(r.sends, recordedSend{outcome, events})
}

func (r *fakeRecorder) UserAgentResolved(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userAgent = append(r.userAgent, ok)
}

func TestDispatcher_RecordsMetrics(t *testing.T) {
	rec := &fakeRecorder{}
	calls := 0
	client := &countingClient{resp: func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("connection reset")
		}
		return (&countingClient{}).Do(req)
	}}

	d, err := New("https://example.org/piwik.php",
		WithHTTPClient(client),
		WithSerializer(scenarioSerializer),
		WithResolver(useragent.Static("ua")),
		WithMetrics(rec),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_ = d.SendContext(context.Background(), scenarioBatch)
	_ = d.SendContext(context.Background(), scenarioBatch[:1])

	bad := event.SerializerFunc(func([]event.Event) ([]byte, error) { return nil, errors.New("bad") })
	d2, _ := New("https://example.org/piwik.php", WithSerializer(bad), WithUserAgent("ua"), WithMetrics(rec))
	_ = d2.SendContext(context.Background(), scenarioBatch)

	want := []recordedSend{
		{metrics.OutcomeSuccess, 2},
		{metrics.OutcomeTransportError, 1},
		{metrics.OutcomeSerializationError, 2},
	}
	if diff := cmp.Diff(want, rec.sends); diff != "" {
		t.Errorf("recorded sends mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true}, rec.userAgent); diff != "" {
		t.Errorf("recorded resolutions mismatch (-want +got):\n%s", diff)
	}
}
