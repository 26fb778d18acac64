package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dplus/internal/logging"
	"github.com/dplus/internal/metrics"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

const maxResponseBytes = 4 << 20

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ResponseCache stores raw backend bodies keyed by request URL.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// Options configures a Client. Zero values fall back to sensible defaults.
type Options struct {
	BaseURL         string
	Timeout         time.Duration
	Cache           ResponseCache
	BreakerFailures uint32
	BreakerOpenFor  time.Duration
	BreakerHalfOpen uint32
	BreakerInterval time.Duration
}

// Client is the typed backend client. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    httpDoer
	cache   ResponseCache
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	openFor := opts.BreakerOpenFor
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	halfOpen := opts.BreakerHalfOpen
	if halfOpen == 0 {
		halfOpen = 1
	}

	settings := gobreaker.Settings{
		Name:        "backend-api",
		MaxRequests: halfOpen,
		Interval:    opts.BreakerInterval,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("backend circuit breaker state changed")
			metrics.SetBreakerState(name, int(to))
		},
	}

	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		http:    &http.Client{Timeout: timeout},
		cache:   opts.Cache,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// SetHTTPClient swaps the transport, mainly for tests.
func (c *Client) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
		return
	}
	c.http = client
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Country(ctx context.Context, p CountryParams) (*Country, error) {
	return get[Country](ctx, c, p)
}

func (c *Client) Countries(ctx context.Context, p ListParams) ([]Country, error) {
	return list[Country](ctx, c, countryListParams(p))
}

func (c *Client) City(ctx context.Context, p CityParams) (*City, error) {
	return get[City](ctx, c, p)
}

func (c *Client) Cities(ctx context.Context, p CityListParams) ([]City, error) {
	return list[City](ctx, c, p)
}

func (c *Client) Category(ctx context.Context, p CategoryParams) (*Category, error) {
	return get[Category](ctx, c, p)
}

func (c *Client) Categories(ctx context.Context, p ListParams) ([]Category, error) {
	return list[Category](ctx, c, categoryListParams(p))
}

func (c *Client) Event(ctx context.Context, p EventParams) (*Event, error) {
	return get[Event](ctx, c, p)
}

func (c *Client) Events(ctx context.Context, p EventListParams) (*EventList, error) {
	return get[EventList](ctx, c, p)
}

func (c *Client) Folder(ctx context.Context, p FolderParams) (*Folder, error) {
	return get[Folder](ctx, c, p)
}

func (c *Client) Group(ctx context.Context, p GroupParams) (*Group, error) {
	return get[Group](ctx, c, p)
}

func (c *Client) Place(ctx context.Context, p PlaceParams) (*Place, error) {
	return get[Place](ctx, c, p)
}

func (c *Client) Stag(ctx context.Context, p StagParams) (*Stag, error) {
	return get[Stag](ctx, c, p)
}

func (c *Client) Tag(ctx context.Context, p TagParams) (*Tag, error) {
	return get[Tag](ctx, c, p)
}

func (c *Client) Date(ctx context.Context, p DateParams) (*EventList, error) {
	return get[EventList](ctx, c, p)
}

func (c *Client) Today(ctx context.Context, p TodayParams) (*EventList, error) {
	return get[EventList](ctx, c, p)
}

func (c *Client) Week(ctx context.Context, p WeekParams) (*EventList, error) {
	return get[EventList](ctx, c, p)
}

func (c *Client) Search(ctx context.Context, p SearchParams) (*EventList, error) {
	return get[EventList](ctx, c, p)
}

func (c *Client) Nearby(ctx context.Context, p NearbyParams) (*EventList, error) {
	return get[EventList](ctx, c, p)
}

func list[T any](ctx context.Context, c *Client, ep endpoint) ([]T, error) {
	items, err := get[[]T](ctx, c, ep)
	if err != nil {
		return nil, err
	}
	return *items, nil
}

func get[T any](ctx context.Context, c *Client, ep endpoint) (*T, error) {
	target, err := BuildURL(c.baseURL, ep)
	if err != nil {
		return nil, err
	}

	body, err := c.load(ctx, ep, target)
	if err != nil {
		return nil, err
	}

	var envelope Envelope[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("api: decode %s response: %w", ep.name(), err)
	}
	if !envelope.Success || envelope.DBResponse == nil {
		return nil, fmt.Errorf("%s: %w", ep.name(), ErrNotFound)
	}
	return envelope.DBResponse, nil
}

func (c *Client) load(ctx context.Context, ep endpoint, target string) ([]byte, error) {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, target)
		switch {
		case err != nil:
			metrics.RecordCacheLookup("error")
			logging.Ctx(ctx).Warn().Err(err).Str("endpoint", ep.name()).Msg("response cache read failed")
		case ok:
			metrics.RecordCacheLookup("hit")
			return body, nil
		default:
			metrics.RecordCacheLookup("miss")
		}
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.fetch(ctx, ep, target)
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, target, body, ep.ttl()); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("endpoint", ep.name()).Msg("response cache write failed")
		}
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, ep endpoint, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("api: build %s request: %w", ep.name(), err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "dplus-web/1.0")
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		metrics.RecordUpstream(ep.name(), "error", time.Since(start))
		return nil, fmt.Errorf("api: request %s: %w", ep.name(), err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstream(ep.name(), strconv.Itoa(resp.StatusCode), time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("api: read %s response: %w", ep.name(), err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", ep.name(), ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		message := strings.TrimSpace(string(body))
		if len(message) > 200 {
			message = message[:200]
		}
		return nil, &UpstreamError{Endpoint: ep.name(), StatusCode: resp.StatusCode, Message: message}
	}
	return body, nil
}
