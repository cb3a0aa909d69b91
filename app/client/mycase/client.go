package mycase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"casebot/app/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/samber/do"
	"github.com/samber/oops"
)

const maxErrorBody = 512

// ErrNoCase is returned when a lookup that must yield a case yields none.
var ErrNoCase = errors.New("no matching case")

// Client talks to the MyCase REST API. It keeps no per-call state and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return New(cfg.MyCase, nil), nil
}

// New builds a client; a nil httpClient gets one bounded by cfg.Timeout.
func New(cfg config.MyCase, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		httpClient: httpClient,
		retryDelay: cfg.RetryDelay,
	}
}

func (c *Client) ListCases(ctx context.Context, credential string) ([]CaseSummary, error) {
	var resp envelope[[]CaseSummary]
	if err := c.get(ctx, credential, "/cases", nil, &resp); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

func (c *Client) FindByCaseNumber(ctx context.Context, credential string, q Query) ([]CaseSummary, error) {
	var resp envelope[[]CaseSummary]
	if err := c.get(ctx, credential, casePath(q.CaseNumber, ""), hintValues(q), &resp); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

func (c *Client) CaseHistory(ctx context.Context, credential string, q Query) (*CaseHistory, error) {
	var resp envelope[*CaseHistory]
	if err := c.get(ctx, credential, casePath(q.CaseNumber, "history"), hintValues(q), &resp); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

func (c *Client) Charges(ctx context.Context, credential string, q Query) ([]Charge, error) {
	var resp envelope[[]Charge]
	if err := c.get(ctx, credential, casePath(q.CaseNumber, "charges"), hintValues(q), &resp); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

func (c *Client) Parties(ctx context.Context, credential string, q Query) ([]Party, error) {
	var resp envelope[[]Party]
	if err := c.get(ctx, credential, casePath(q.CaseNumber, "parties"), hintValues(q), &resp); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

func (c *Client) PaymentInfo(ctx context.Context, credential string, q Query) (*PaymentInfo, error) {
	var resp envelope[*PaymentInfo]
	if err := c.get(ctx, credential, casePath(q.CaseNumber, "payment"), hintValues(q), &resp); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

func (c *Client) DocumentUploadURLs(ctx context.Context, credential string, q Query) (*DocumentUploadURLs, error) {
	var resp envelope[*DocumentUploadURLs]
	if err := c.get(ctx, credential, casePath(q.CaseNumber, "documents"), hintValues(q), &resp); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

func casePath(caseNumber, resource string) string {
	path := "/cases/" + url.PathEscape(caseNumber)
	if resource != "" {
		path += "/" + resource
	}

	return path
}

func hintValues(q Query) url.Values {
	values := url.Values{}
	if code := q.CourtType.Code(); code != "" {
		values.Set("courtType", code)
	}
	if q.LocationCode != "" {
		values.Set("locationCode", q.LocationCode)
	}

	return values
}

// get performs one request with at most one retry on transient failures.
func (c *Client) get(ctx context.Context, credential, path string, query url.Values, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	attempt := 0
	op := func() error {
		attempt++

		err := c.do(ctx, credential, u, result)
		if err == nil {
			return nil
		}

		if !isTransient(err) {
			return backoff.Permanent(err)
		}

		slog.Warn("MyCase request failed",
			"path", path,
			"attempt", attempt,
			"error", err,
		)

		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), 1), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		return oops.
			In("mycase").
			With("path", path).
			With("attempts", attempt).
			Wrapf(err, "GET %s", path)
	}

	return nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func (c *Client) do(ctx context.Context, credential, u string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if credential != "" {
		req.Header.Set("Authorization", credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &statusError{code: resp.StatusCode, body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}

	return nil
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *statusError
	if errors.As(err, &statusErr) {
		switch statusErr.code {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return false
	}

	return true
}

// StatusCode extracts the upstream HTTP status from an error returned by Client, or 0.
func StatusCode(err error) int {
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.code
	}

	return 0
}
