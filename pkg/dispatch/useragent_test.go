package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/trackship/pkg/useragent"
)

// pendingResolver yields whatever the test sends on it.
type pendingResolver chan useragent.Result

func (r pendingResolver) Resolve(context.Context) <-chan useragent.Result { return r }

// refusingResolver fails the test if resolution is attempted.
type refusingResolver struct{ t *testing.T }

func (r refusingResolver) Resolve(context.Context) <-chan useragent.Result {
	r.t.Error("resolver called although a user agent was supplied")
	return make(chan useragent.Result)
}

func userAgentServer(t *testing.T) (*httptest.Server, <-chan []string) {
	t.Helper()
	seen := make(chan []string, 16)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Values("User-Agent")
	}))
	t.Cleanup(ts.Close)
	return ts, seen
}

func TestUserAgent_OmittedUntilResolved(t *testing.T) {
	ts, seen := userAgentServer(t)
	pending := make(pendingResolver, 1)

	d, err := New(ts.URL+"/piwik.php",
		WithHTTPClient(ts.Client()),
		WithSerializer(scenarioSerializer),
		WithResolver(pending),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := d.SendContext(context.Background(), scenarioBatch); err != nil {
		t.Fatalf("SendContext() error = %v", err)
	}
	if got := <-seen; len(got) != 0 {
		t.Errorf("User-Agent before resolution = %q, want header absent", got)
	}

	pending <- useragent.Result{UserAgent: "Mozilla/5.0 (Pi; arm64) test"}
	waitForUserAgent(t, d)

	if err := d.SendContext(context.Background(), scenarioBatch); err != nil {
		t.Fatalf("SendContext() error = %v", err)
	}
	if got := <-seen; len(got) != 1 || got[0] != "Mozilla/5.0 (Pi; arm64) test" {
		t.Errorf("User-Agent after resolution = %q", got)
	}
}

func TestUserAgent_ResolutionFailureDoesNotFailSends(t *testing.T) {
	ts, seen := userAgentServer(t)

	d, err := New(ts.URL+"/piwik.php",
		WithHTTPClient(ts.Client()),
		WithSerializer(scenarioSerializer),
		WithResolver(useragent.NewPlatform(failingProbe{}, useragent.WithExecutor(useragent.InlineExecutor{}))),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := d.UserAgent(); ok {
		t.Error("UserAgent() reported a value after failed resolution")
	}

	if err := d.SendContext(context.Background(), scenarioBatch); err != nil {
		t.Fatalf("SendContext() error = %v", err)
	}
	if got := <-seen; len(got) != 0 {
		t.Errorf("User-Agent = %q, want header absent", got)
	}
}

func TestUserAgent_SuppliedSkipsResolution(t *testing.T) {
	ts, seen := userAgentServer(t)

	d, err := New(ts.URL+"/piwik.php",
		WithHTTPClient(ts.Client()),
		WithSerializer(scenarioSerializer),
		WithUserAgent("custom-agent/1.0"),
		WithResolver(refusingResolver{t}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := d.SendContext(context.Background(), scenarioBatch); err != nil {
		t.Fatalf("SendContext() error = %v", err)
	}
	if got := <-seen; len(got) != 1 || got[0] != "custom-agent/1.0" {
		t.Errorf("User-Agent = %q, want custom-agent/1.0", got)
	}
}

func TestUserAgent_SynchronousResolver(t *testing.T) {
	d := newTestDispatcher(t, "https://example.org/piwik.php", WithResolver(useragent.Static("fixed")))
	// newTestDispatcher's empty Static is replaced by the later option.
	if ua, ok := d.UserAgent(); !ok || ua != "fixed" {
		t.Errorf("UserAgent() = %q, %v, want fixed, true", ua, ok)
	}
}

func TestUserAgent_ResolveTimeout(t *testing.T) {
	never := make(pendingResolver)
	d, err := New("https://example.org/piwik.php",
		WithResolver(never),
		WithResolveTimeout(10*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if _, ok := d.UserAgent(); ok {
		t.Error("UserAgent() reported a value after timeout")
	}
}

func TestAwaitUserAgent_ReadyResultBeatsDeadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 100; i++ {
		ch := make(chan useragent.Result, 1)
		ch <- useragent.Result{UserAgent: "ready"}
		if res := awaitUserAgent(ctx, ch); res.Err != nil || res.UserAgent != "ready" {
			t.Fatalf("iteration %d: awaitUserAgent() = %+v, want ready result", i, res)
		}
	}
}

func TestAwaitUserAgent_Deadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := awaitUserAgent(ctx, make(chan useragent.Result))
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("awaitUserAgent() error = %v, want context.Canceled", res.Err)
	}
}

func TestUserAgent_ConcurrentSendsDuringResolution(t *testing.T) {
	client := &countingClient{}
	pending := make(pendingResolver, 1)
	d, err := New("https://example.org/piwik.php",
		WithHTTPClient(client),
		WithSerializer(scenarioSerializer),
		WithResolver(pending),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.SendContext(context.Background(), scenarioBatch); err != nil {
				t.Errorf("SendContext() error = %v", err)
			}
		}()
		if i == 16 {
			pending <- useragent.Result{UserAgent: "resolved"}
		}
	}
	wg.Wait()

	if n := client.calls.Load(); n != 32 {
		t.Errorf("HTTP calls = %d, want 32", n)
	}
}

type failingProbe struct{}

func (failingProbe) Open(context.Context) (useragent.Surface, error) {
	return nil, context.DeadlineExceeded
}

func waitForUserAgent(t *testing.T, d *Dispatcher) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, ok := d.UserAgent(); ok {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("user agent was not resolved")
		}
		time.Sleep(2 * time.Millisecond)
	}
}
