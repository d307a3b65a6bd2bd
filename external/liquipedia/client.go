package liquipedia

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/rawmatch"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/resilience"
	"github.com/riskibarqy/mlbb-analytics/internal/usecase"
)

const (
	defaultBaseURL   = "https://api.liquipedia.net/api/v3"
	defaultWiki      = "mobilelegends"
	defaultUserAgent = "mlbb-analytics/1.0"
	defaultPageSize  = 200
	maxPages         = 50
	maxResponseBytes = 6 << 20
)

var errLiquipediaTransient = crerr.New("liquipedia transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Wiki           string
	APIKey         string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	PageSize       int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads match2 records from the Liquipedia API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	wiki       string
	apiKey     string
	userAgent  string
	maxRetries int
	pageSize   int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight[[]byte]
}

type matchResponse struct {
	Result []map[string]any `json:"result"`
	Error  []any            `json:"error"`
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	wiki := strings.TrimSpace(cfg.Wiki)
	if wiki == "" {
		wiki = defaultWiki
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		wiki:       wiki,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		userAgent:  userAgent,
		maxRetries: maxRetries,
		pageSize:   pageSize,
		logger:     logger.Named("liquipedia"),
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

// FetchTournamentMatches returns every match whose parent is the given page,
// following offset pagination until a short page.
func (c *Client) FetchTournamentMatches(ctx context.Context, page string) ([]rawmatch.Match, error) {
	page = strings.TrimSpace(page)
	if page == "" {
		return nil, fmt.Errorf("%w: page is required", usecase.ErrInvalidInput)
	}

	var out []rawmatch.Match
	for pageIdx := 0; pageIdx < maxPages; pageIdx++ {
		query := url.Values{}
		query.Set("wiki", c.wiki)
		query.Set("conditions", "[[parent::"+page+"]]")
		query.Set("limit", strconv.Itoa(c.pageSize))
		query.Set("offset", strconv.Itoa(pageIdx*c.pageSize))
		query.Set("order", "date ASC")

		var resp matchResponse
		if err := c.doJSON(ctx, "/match", query, &resp); err != nil {
			return nil, err
		}
		if len(resp.Error) > 0 {
			return nil, crerr.Newf("liquipedia returned errors for page %q: %v", page, resp.Error)
		}
		for _, item := range resp.Result {
			if item == nil {
				continue
			}
			out = append(out, rawmatch.FromMap(item))
		}
		if len(resp.Result) < c.pageSize {
			break
		}
	}

	c.logger.DebugContext(ctx, "liquipedia matches fetched", "page", page, "count", len(out))
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		var body []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			body, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		}, isLiquipediaCircuitFailure)
		return body, execErr
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "liquipedia circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode provider payload")
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Apikey "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errLiquipediaTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errLiquipediaTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errLiquipediaTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "liquipedia request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" || apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, apiKey, "REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 512
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}

func isLiquipediaCircuitFailure(err error) bool {
	return stderrors.Is(err, errLiquipediaTransient)
}
