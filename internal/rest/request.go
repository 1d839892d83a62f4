// Package rest implements the request construction, pagination, batching,
// and response normalization layer for the Postmark REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// HeaderServerToken carries the Postmark server credential.
const HeaderServerToken = "X-Postmark-Server-Token"

// Request is a fully-addressed, authenticated request descriptor. It is
// built without performing any I/O and consumed once by the transport.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// NewRequest builds a request descriptor for the given endpoint. Only GET
// and POST are supported by the API surface this library covers. The server
// token and Accept headers are attached unconditionally.
func NewRequest(method, path, token string, query url.Values) (*Request, error) {
	switch method {
	case http.MethodGet, http.MethodPost:
	default:
		return nil, fmt.Errorf("unsupported method %q: only GET and POST are allowed", method)
	}

	header := make(http.Header)
	header.Set("Accept", "application/json")
	header.Set(HeaderServerToken, token)

	return &Request{
		Method: method,
		Path:   path,
		Query:  query,
		Header: header,
	}, nil
}

// EncodeBody marshals v as the JSON request body and sets the content type.
func (r *Request) EncodeBody(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	r.Body = body
	r.Header.Set("Content-Type", "application/json")
	return nil
}

// HTTPRequest materializes the descriptor against a base URL. This is the
// only step that touches net/http; the descriptor itself stays pure.
func (r *Request) HTTPRequest(ctx context.Context, baseURL string) (*http.Request, error) {
	u := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(r.Path, "/")

	var body *bytes.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if len(r.Query) > 0 {
		req.URL.RawQuery = r.Query.Encode()
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	return req, nil
}
