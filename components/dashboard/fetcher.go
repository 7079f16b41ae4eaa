package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultSourceLabel  = "API"
	maxLoggedBody       = 512
)

// FetchRequest describes one JSON GET. RegionID, when set, receives loading
// and error states while the request runs.
type FetchRequest struct {
	URL         string
	Query       map[string]string
	RegionID    string
	SourceLabel string
}

// JSONFetcher performs a GET and decodes JSON. It never returns an error:
// failures are logged, shown in the region and reported as ok=false.
type JSONFetcher interface {
	FetchJSON(ctx context.Context, req FetchRequest) (any, bool)
}

// JSONFetcherFunc adapts a function into a JSONFetcher.
type JSONFetcherFunc func(ctx context.Context, req FetchRequest) (any, bool)

// FetchJSON implements JSONFetcher.
func (fn JSONFetcherFunc) FetchJSON(ctx context.Context, req FetchRequest) (any, bool) {
	return fn(ctx, req)
}

// FetchError carries the detail logged for a failed request.
type FetchError struct {
	URL    string
	Status int
	Body   string
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("dashboard: fetch %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("dashboard: fetch %s: http %d", e.URL, e.Status)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetcherOptions configures HTTPFetcher.
type FetcherOptions struct {
	Client    *resty.Client
	Board     *RegionBoard
	Logger    zerolog.Logger
	Timeout   time.Duration
	Cache     ResponseCache
	RateLimit rate.Limit
	Burst     int
	UserAgent string
}

// HTTPFetcher is the resty-backed JSONFetcher.
type HTTPFetcher struct {
	client  *resty.Client
	board   *RegionBoard
	logger  zerolog.Logger
	timeout time.Duration
	cache   ResponseCache
	limiter *rate.Limiter
}

// NewHTTPFetcher builds a fetcher with safe defaults.
func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	client := opts.Client
	if client == nil {
		client = resty.New().SetTimeout(timeout)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	board := opts.Board
	if board == nil {
		board = NewRegionBoard(nil)
	}
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(opts.RateLimit, burst)
	}
	return &HTTPFetcher{
		client:  client,
		board:   board,
		logger:  opts.Logger,
		timeout: timeout,
		cache:   opts.Cache,
		limiter: limiter,
	}
}

// FetchJSON implements JSONFetcher.
func (f *HTTPFetcher) FetchJSON(ctx context.Context, req FetchRequest) (any, bool) {
	label := req.SourceLabel
	if label == "" {
		label = defaultSourceLabel
	}
	if req.RegionID != "" {
		f.board.ShowLoading(ctx, req.RegionID, label)
	}

	fetch := func() (any, error) { return f.get(ctx, req) }
	var (
		data any
		err  error
	)
	if f.cache != nil {
		data, err = f.cache.GetOrFetch(requestKey(req.URL, req.Query), fetch)
	} else {
		data, err = fetch()
	}

	if err != nil {
		event := f.logger.Error().Err(err).Str("source", label).Str("url", req.URL)
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) && fetchErr.Status != 0 {
			event = event.Int("status", fetchErr.Status).Str("body", fetchErr.Body)
		}
		event.Msg("fetch failed")
		if req.RegionID != "" {
			f.board.ShowError(ctx, req.RegionID, MsgFetchFailed, label)
		}
		return nil, false
	}

	if req.RegionID != "" {
		if kind, _ := f.board.Kind(req.RegionID); kind != RegionTable && kind != RegionDisplay {
			f.board.ClearLoading(ctx, req.RegionID)
		}
	}
	f.logger.Debug().Str("source", label).Str("url", req.URL).Msg("fetch ok")
	return data, true
}

func (f *HTTPFetcher) get(ctx context.Context, req FetchRequest) (any, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: req.URL, Err: err}
		}
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(req.Query).
		Get(req.URL)
	if err != nil {
		return nil, &FetchError{URL: req.URL, Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &FetchError{URL: req.URL, Status: resp.StatusCode(), Body: truncate(resp.String(), maxLoggedBody)}
	}
	data, err := decodeJSON(resp.Body())
	if err != nil {
		return nil, &FetchError{URL: req.URL, Status: resp.StatusCode(), Body: truncate(resp.String(), maxLoggedBody), Err: err}
	}
	return data, nil
}

func decodeJSON(body []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode json: trailing data after document")
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
