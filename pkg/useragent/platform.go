package useragent

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// DefaultSuffix is appended to every platform-derived identification string.
const DefaultSuffix = "MatomoTracker SDK HTTPDispatcher"

const productNamePath = "/sys/devices/virtual/dmi/id/product_name"

// deviceModelPattern matches the platform token that opens the comment
// section of a browser-style user agent, e.g. "(iPhone;" or "(X11;".
var deviceModelPattern = regexp.MustCompile(`(?i)\((iPad|iPhone|iPod|Macintosh|X11|Linux|Windows[^;)]*);`)

// Probe opens transient surfaces used to read the ambient platform string.
type Probe interface {
	Open(ctx context.Context) (Surface, error)
}

// Surface is a short-lived resource that yields the ambient platform string.
// Close must be called exactly once, whether or not Query succeeded.
type Surface interface {
	Query(ctx context.Context) (string, error)
	Close() error
}

// Platform resolves the identification string from an ambient platform read.
type Platform struct {
	probe       Probe
	exec        Executor
	deviceModel func() string
	suffix      string
}

// PlatformOption configures a Platform resolver.
type PlatformOption func(*Platform)

// WithExecutor sets where the probe is opened and queried.
// Defaults to GoExecutor.
func WithExecutor(e Executor) PlatformOption {
	return func(p *Platform) {
		p.exec = e
	}
}

// WithDeviceModel overrides how the device model is determined.
func WithDeviceModel(fn func() string) PlatformOption {
	return func(p *Platform) {
		p.deviceModel = fn
	}
}

// WithSuffix overrides DefaultSuffix.
func WithSuffix(s string) PlatformOption {
	return func(p *Platform) {
		p.suffix = s
	}
}

// NewPlatform creates a Platform resolver reading through probe.
func NewPlatform(probe Probe, opts ...PlatformOption) *Platform {
	p := &Platform{
		probe:       probe,
		exec:        GoExecutor{},
		deviceModel: DeviceModel,
		suffix:      DefaultSuffix,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve implements Resolver.
func (p *Platform) Resolve(ctx context.Context) <-chan Result {
	ch := make(chan Result, 1)
	p.exec.Go(func() {
		ch <- p.resolve(ctx)
	})
	return ch
}

func (p *Platform) resolve(ctx context.Context) Result {
	surface, err := p.probe.Open(ctx)
	if err != nil {
		return Result{Err: fmt.Errorf("open probe: %w", err)}
	}
	defer surface.Close()

	ambient, err := surface.Query(ctx)
	if err != nil {
		return Result{Err: fmt.Errorf("query probe: %w", err)}
	}
	ambient = strings.TrimSpace(ambient)
	if ambient == "" {
		return Result{Err: ErrNoUserAgent}
	}
	return Result{UserAgent: Format(ambient, p.deviceModel(), p.suffix)}
}

// Format rewrites the device-model token of ambient to model and appends suffix.
// An empty model leaves the token untouched.
func Format(ambient, model, suffix string) string {
	if model != "" {
		ambient = deviceModelPattern.ReplaceAllLiteralString(ambient, "("+model+";")
	}
	if suffix == "" {
		return ambient
	}
	return ambient + " " + suffix
}

// DeviceModel returns the hardware product name reported by the firmware,
// or "" when it is unavailable.
func DeviceModel() string {
	b, err := os.ReadFile(productNamePath)
	if err != nil {
		return ""
	}
	model := strings.TrimSpace(string(b))
	// Semicolons and parentheses would break the comment section.
	return strings.NewReplacer(";", "", "(", "", ")", "").Replace(model)
}
