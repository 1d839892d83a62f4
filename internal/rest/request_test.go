package rest

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_MethodValidation(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req, err := NewRequest(method, "/templates", "token-1", nil)
		require.NoError(t, err)
		assert.Equal(t, method, req.Method)
	}

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch, "BOGUS"} {
		_, err := NewRequest(method, "/templates", "token-1", nil)
		require.Error(t, err, method)
		assert.Contains(t, err.Error(), "only GET and POST")
	}
}

func TestNewRequest_Headers(t *testing.T) {
	req, err := NewRequest(http.MethodGet, "/templates", "server-token-abc", nil)
	require.NoError(t, err)

	assert.Equal(t, "server-token-abc", req.Header.Get(HeaderServerToken))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Empty(t, req.Header.Get("Content-Type"), "GET requests carry no body content type")
}

func TestRequest_EncodeBody(t *testing.T) {
	req, err := NewRequest(http.MethodPost, "/email/withTemplate/", "tok", nil)
	require.NoError(t, err)

	require.NoError(t, req.EncodeBody(map[string]string{"From": "a@example.com"}))

	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"From":"a@example.com"}`, string(req.Body))
}

func TestRequest_HTTPRequest(t *testing.T) {
	query := url.Values{}
	query.Set("count", "10")
	query.Set("offset", "0")
	query.Set("type", "Layout")

	req, err := NewRequest(http.MethodGet, "/templates", "tok", query)
	require.NoError(t, err)

	httpReq, err := req.HTTPRequest(context.Background(), "https://api.postmarkapp.com")
	require.NoError(t, err)

	assert.Equal(t, "https://api.postmarkapp.com/templates?count=10&offset=0&type=Layout", httpReq.URL.String())
	assert.Equal(t, "tok", httpReq.Header.Get(HeaderServerToken))
	assert.Equal(t, "application/json", httpReq.Header.Get("Accept"))
}

func TestRequest_HTTPRequest_JoinsSlashes(t *testing.T) {
	req, err := NewRequest(http.MethodGet, "templates", "tok", nil)
	require.NoError(t, err)

	httpReq, err := req.HTTPRequest(context.Background(), "https://api.postmarkapp.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://api.postmarkapp.com/templates", httpReq.URL.String())
}

func TestRequest_HTTPRequest_Body(t *testing.T) {
	req, err := NewRequest(http.MethodPost, "/email/withTemplate/", "tok", nil)
	require.NoError(t, err)
	require.NoError(t, req.EncodeBody(map[string]int{"TemplateId": 42}))

	httpReq, err := req.HTTPRequest(context.Background(), "https://api.postmarkapp.com")
	require.NoError(t, err)

	body, err := io.ReadAll(httpReq.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"TemplateId":42}`, string(body))
}
