// Package apiclient implements the signed HTTP client the Executor uses to
// talk to the control-plane API: request signing, cursor-based pagination
// for list operations, and response-body normalization.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Client issues authenticated requests against a single control-plane base
// URL using a fixed key/secret pair.
type Client struct {
	BaseURL   string
	KeyID     string
	KeySecret string

	httpClient *http.Client
	now        func() time.Time
}

// New returns a Client configured with the given base URL, signing
// credentials and per-request timeout.
func New(baseURL, keyID, keySecret string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		KeyID:     keyID,
		KeySecret: keySecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// List walks pagination.next cursors, concatenating the "data" array of
// each page, until the control plane reports no further page. It returns
// the full accumulated sequence of records.
func (c *Client) List(ctx context.Context, path string, query url.Values) ([]interface{}, error) {
	var records []interface{}
	next := c.resolvePath(path)
	first := true

	for next != "" {
		var q url.Values
		if first {
			q = query
		}
		first = false

		body, _, err := c.do(ctx, http.MethodGet, next, q, nil)
		if err != nil {
			return nil, err
		}

		result := gjson.ParseBytes(body)
		for _, rec := range result.Get("data").Array() {
			records = append(records, rec.Value())
		}

		nextField := result.Get("pagination.next")
		if !nextField.Exists() || nextField.Type == gjson.Null || nextField.String() == "" {
			next = ""
		} else {
			next = c.resolvePath(nextField.String())
		}
	}
	return records, nil
}

// Post issues an HTTP POST with a JSON-encoded body and returns the "data"
// field of the response.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body interface{}) (map[string]interface{}, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "apiclient: encoding request body")
	}
	respBody, _, err := c.do(ctx, http.MethodPost, c.resolvePath(path), query, payload)
	if err != nil {
		return nil, err
	}
	return extractData(respBody)
}

// Fetch issues an HTTP GET against a single-record endpoint and returns the
// "data" field of the response.
func (c *Client) Fetch(ctx context.Context, path string) (map[string]interface{}, error) {
	respBody, _, err := c.do(ctx, http.MethodGet, c.resolvePath(path), nil, nil)
	if err != nil {
		return nil, err
	}
	return extractData(respBody)
}

// Delete issues an HTTP DELETE and discards the response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, _, err := c.do(ctx, http.MethodDelete, c.resolvePath(path), nil, nil)
	return err
}

func extractData(body []byte) (map[string]interface{}, error) {
	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		return nil, errors.New("apiclient: response missing \"data\" field")
	}
	rec, ok := data.Value().(map[string]interface{})
	if !ok {
		return nil, errors.New("apiclient: response \"data\" field is not an object")
	}
	return rec, nil
}

// resolvePath joins a path with the client's base URL unless it already
// carries that base (pagination.next may come back absolute or relative).
func (c *Client) resolvePath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, c.BaseURL) || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path
}

// do performs one signed HTTP round trip and returns the response body
// bytes. A non-2xx status is surfaced as a *RequestError carrying the
// status and body so callers can inspect it for create-or-find
// reconciliation.
func (c *Client) do(ctx context.Context, method, fullURL string, query url.Values, body []byte) ([]byte, int, error) {
	parsed, err := url.Parse(fullURL)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "apiclient: parsing url %q", fullURL)
	}
	if len(query) > 0 {
		existing := parsed.Query()
		for k, vs := range query {
			for _, v := range vs {
				existing.Add(k, v)
			}
		}
		parsed.RawQuery = existing.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, parsed.String(), bodyReader)
	if err != nil {
		return nil, 0, errors.Wrap(err, "apiclient: building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	timestamp := c.now().UTC().Format("2006-01-02T15:04:05-07:00")
	canonQuery, err := canonicalQueryString(parsed.RawQuery)
	if err != nil {
		return nil, 0, err
	}
	sts := stringToSign(strings.ToUpper(method), timestamp, parsed.Path, canonQuery, body)
	sig := sign(c.KeySecret, sts)

	req.Header.Set("X-Scalr-Key-Id", c.KeyID)
	req.Header.Set("X-Scalr-Signature", sig)
	req.Header.Set("X-Scalr-Date", timestamp)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "apiclient: %s %s", method, parsed.Path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.Wrapf(err, "apiclient: reading response body for %s %s", method, parsed.Path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return respBody, resp.StatusCode, &RequestError{
			Method:     method,
			Path:       parsed.Path,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	return respBody, resp.StatusCode, nil
}
