package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrInvalidHost marks a host identifier that cannot be probed at all.
	ErrInvalidHost = errors.New("invalid host")
	// ErrTimeout marks an attempt that ran past its per-attempt timeout.
	ErrTimeout = errors.New("probe timed out")
	// ErrUnexpectedStatus marks an answer outside the 2xx class.
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// maxDrain bounds how much of a response body is read to allow connection reuse.
const maxDrain = 64 << 10

// Attempt is the outcome of a single probe.
type Attempt struct {
	Host       string
	Reachable  bool
	StatusCode int
	Latency    time.Duration
	// Err describes why the host was unreachable. Nil when Reachable.
	Err error
}

// Prober performs one liveness check against host, bounded by timeout.
type Prober interface {
	Probe(ctx context.Context, host string, timeout time.Duration) (Attempt, error)
}

// HTTPProber probes hosts with HTTP GET requests over a shared client.
type HTTPProber struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTPProber creates a prober. A nil client gets a dedicated client with
// its own connection pool; a nil logger falls back to slog.Default().
// Timeouts are applied per attempt, so client.Timeout should be left unset.
func NewHTTPProber(client *http.Client, logger *slog.Logger) *HTTPProber {
	if client == nil {
		client = &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPProber{
		client: client,
		logger: logger,
	}
}

// Probe sends a single GET to host. The returned error is non-nil only for
// ErrInvalidHost; every network-level failure is reported in Attempt.Err.
func (p *HTTPProber) Probe(ctx context.Context, host string, timeout time.Duration) (Attempt, error) {
	attempt := Attempt{Host: host}

	if err := validateHost(host); err != nil {
		return attempt, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, host, nil)
	if err != nil {
		return attempt, fmt.Errorf("%w %q: %w", ErrInvalidHost, host, err)
	}

	start := time.Now()
	res, err := p.client.Do(req)
	if err != nil {
		attempt.Latency = time.Since(start)
		attempt.Err = p.classify(ctx, err)
		p.logFailure(ctx, attempt)
		return attempt, nil
	}
	defer res.Body.Close()

	_, drainErr := io.Copy(io.Discard, io.LimitReader(res.Body, maxDrain))
	attempt.Latency = time.Since(start)
	attempt.StatusCode = res.StatusCode

	switch {
	case drainErr != nil:
		attempt.Err = p.classify(ctx, drainErr)
		p.logFailure(ctx, attempt)
	case res.StatusCode >= 200 && res.StatusCode < 300:
		attempt.Reachable = true
	default:
		attempt.Err = fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode)
		p.logger.Debug("Probe answered with non-success status",
			slog.String("host", host),
			slog.Int("status", res.StatusCode))
	}

	return attempt, nil
}

// classify separates the per-attempt deadline from cancellation of the parent.
func (p *HTTPProber) classify(parent context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	return err
}

func (p *HTTPProber) logFailure(parent context.Context, attempt Attempt) {
	if parent.Err() != nil {
		return
	}

	p.logger.Warn("Host is not healthy",
		slog.String("host", attempt.Host),
		slog.Duration("latency", attempt.Latency),
		slog.String("error", attempt.Err.Error()))
}

func validateHost(host string) error {
	u, err := url.Parse(host)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidHost, host, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w %q: URL must use http or https scheme", ErrInvalidHost, host)
	}

	if u.Host == "" {
		return fmt.Errorf("%w %q: URL must have a host", ErrInvalidHost, host)
	}

	return nil
}
