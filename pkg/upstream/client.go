package upstream

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pokedex/pkg/metrics"
	"pokedex/pkg/utils"
)

const (
	DefaultTimeout = 10 * time.Second

	// maxErrorBody bounds how much of a failed response ends up in StatusError.
	maxErrorBody = 512
)

type Options struct {
	BaseURL string
	Timeout time.Duration

	// HTTPClient is optional; its own Timeout is left untouched, the
	// per-call deadline comes from Timeout.
	HTTPClient *http.Client
	Metrics    *metrics.Collector
}

// Client issues single-shot GETs against the catalog API.
type Client struct {
	base    *url.URL
	timeout time.Duration
	http    *http.Client
	metrics *metrics.Collector
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("upstream: base url is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("upstream: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream: base url %q must be absolute", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	return &Client{
		base:    base,
		timeout: cmp.Or(opts.Timeout, DefaultTimeout),
		http:    hc,
		metrics: opts.Metrics,
	}, nil
}

// BaseURL returns the configured base address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Resolve turns path into an absolute URL. Absolute inputs are returned
// unchanged, everything else is appended to the base address.
func (c *Client) Resolve(path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return c.base.String() + "/" + strings.TrimLeft(path, "/")
}

// Get fetches path and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	target := c.Resolve(path)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := c.get(ctx, target, out)
	c.metrics.ObserveUpstream(outcome(err), time.Since(start))
	return err
}

func (c *Client) get(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &TransportError{URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return classify(ctx, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody+1))
		return &StatusError{
			Status:  resp.StatusCode,
			Message: utils.LimitStr(strings.TrimSpace(string(body)), maxErrorBody),
			URL:     target,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return classify(ctx, target, fmt.Errorf("decode body: %w", err))
	}
	return nil
}

func classify(ctx context.Context, target string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{URL: target, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &TimeoutError{URL: target, Err: err}
	}
	return &TransportError{URL: target, Err: err}
}

func outcome(err error) string {
	var (
		se *StatusError
		te *TimeoutError
	)
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &se):
		return metrics.OutcomeStatus
	case errors.As(err, &te):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeTransport
	}
}
