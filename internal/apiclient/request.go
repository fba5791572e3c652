package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Request describes an outgoing call before transmission.
type Request struct {
	Method string
	Path   string // joined to the client's base URL, e.g. "/health"
	Query  url.Values
	// Headers are applied after the client's default headers and can replace them.
	Headers map[string]string
	// Body is sent as-is when it is a []byte, string or io.Reader, otherwise
	// it is marshaled to JSON. A nil Body sends no payload.
	Body any
}

// Response is the transport result, passed through without transformation.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do issues the request. On failure it returns a *RequestError classifying
// the failure as setup, network or server (see errors.go); the response body
// of a server error is preserved in RequestError.Response. Successful
// responses are returned exactly as received.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	op := fmt.Sprintf("%s %s", req.Method, req.Path)

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, c.fail(&RequestError{Kind: KindSetup, Op: op, Err: err})
	}

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.fail(&RequestError{Kind: KindNetwork, Op: op, Err: err})
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, c.fail(&RequestError{Kind: KindNetwork, Op: op, Err: fmt.Errorf("reading response body: %w", err)})
	}

	resp := &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       body,
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, c.fail(&RequestError{Kind: KindServer, StatusCode: res.StatusCode, Op: op, Response: resp})
	}

	return resp, nil
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path})
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// newHTTPRequest builds the transport request: base URL join, default and
// per-call headers, a correlation id, and - when the credentials provider
// holds a token - the Authorization header. Token absence is not an error,
// the header is simply not set.
func (c *Client) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		switch b := req.Body.(type) {
		case []byte:
			bodyReader = bytes.NewReader(b)
		case string:
			bodyReader = strings.NewReader(b)
		case io.Reader:
			bodyReader = b
		default:
			data, err := json.Marshal(req.Body)
			if err != nil {
				return nil, fmt.Errorf("marshaling request body: %w", err)
			}
			bodyReader = bytes.NewReader(data)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	for k, v := range c.defaultHeaders {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	if c.creds != nil {
		if token, ok := c.creds.Token(); ok && token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return httpReq, nil
}

// fail logs the classified error and returns it unchanged.
func (c *Client) fail(reqErr *RequestError) *RequestError {
	switch reqErr.Kind {
	case KindServer:
		switch reqErr.StatusCode {
		case http.StatusUnauthorized:
			c.logger.Warn("request unauthorized",
				slog.String("op", reqErr.Op),
				slog.Int("status", reqErr.StatusCode),
			)
		case http.StatusInternalServerError:
			c.logger.Error("server error",
				slog.String("op", reqErr.Op),
				slog.Int("status", reqErr.StatusCode),
			)
		default:
			c.logger.Warn("request failed",
				slog.String("op", reqErr.Op),
				slog.Int("status", reqErr.StatusCode),
			)
		}
	case KindNetwork:
		c.logger.Error("no response from server",
			slog.String("op", reqErr.Op),
			slog.Any("error", reqErr.Err),
		)
	case KindSetup:
		c.logger.Error("could not build request",
			slog.String("op", reqErr.Op),
			slog.Any("error", reqErr.Err),
		)
	}
	return reqErr
}
