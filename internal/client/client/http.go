package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/common"
	"github.com/dmitrijs2005/vendordesk/internal/logging"
	"github.com/dmitrijs2005/vendordesk/internal/metrics"
	"github.com/google/uuid"
)

const maxResponseBytes = 8 << 20

// UploadField is the multipart form field the backend reads images from.
const UploadField = "image"

// Request describes one API call. Body is JSON encoded unless Upload is set.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Upload *Upload
}

type Upload struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Prepared is a Request with its body already encoded, so it can be sent
// more than once.
type Prepared struct {
	method      string
	path        string
	body        []byte
	contentType string
}

func (p *Prepared) Method() string { return p.method }
func (p *Prepared) Path() string   { return p.path }

// Prepare encodes the request body once.
func Prepare(r Request) (*Prepared, error) {
	p := &Prepared{method: r.Method, path: r.Path}
	if p.method == "" {
		p.method = http.MethodGet
	}
	if len(r.Query) > 0 {
		p.path += "?" + r.Query.Encode()
	}

	switch {
	case r.Upload != nil:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, UploadField, r.Upload.FileName))
		ct := r.Upload.ContentType
		if ct == "" {
			ct = http.DetectContentType(r.Upload.Content)
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(r.Upload.Content); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		p.body = buf.Bytes()
		p.contentType = w.FormDataContentType()

	case r.Body != nil:
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", p.method, r.Path, err)
		}
		p.body = b
		p.contentType = "application/json"
	}

	return p, nil
}

// HTTPClient performs single exchanges with the backend.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
	metrics *metrics.Metrics
}

type Option func(*HTTPClient)

func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *HTTPClient) { c.metrics = m }
}

// NewHTTPClient returns a client for the API rooted at baseURL. timeout
// bounds each exchange; zero means no limit.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Do sends p with accessToken (if any) and returns the response body of a
// 2xx answer.
func (c *HTTPClient) Do(ctx context.Context, p *Prepared, accessToken string) ([]byte, error) {
	var body io.Reader
	if p.body != nil {
		body = bytes.NewReader(p.body)
	}

	req, err := http.NewRequestWithContext(ctx, p.method, c.baseURL+p.path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", p.method, p.path, err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, reqID)
	if p.contentType != "" {
		req.Header.Set("Content-Type", p.contentType)
	}
	if accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+accessToken)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(p.method, 0)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.log.Warn(ctx, "request failed", "method", p.method, "path", p.path, "request_id", reqID, "error", err)
		return nil, &APIError{Method: p.method, Path: p.path, Message: "server unavailable", cause: err}
	}
	defer resp.Body.Close()

	c.metrics.ObserveRequest(p.method, resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &APIError{Method: p.method, Path: p.path, Status: resp.StatusCode, Message: "failed to read response", cause: err}
	}

	c.log.Debug(ctx, "api call", "method", p.method, "path", p.path, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start))

	if resp.StatusCode >= 300 {
		return nil, &APIError{
			Method:  p.method,
			Path:    p.path,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, data),
		}
	}

	return data, nil
}

// RefreshTokens exchanges a refresh token for a new pair. It talks to the
// backend directly; a 401 here is final.
func (c *HTTPClient) RefreshTokens(ctx context.Context, refreshToken string) (models.Tokens, error) {
	if refreshToken == "" {
		return models.Tokens{}, common.ErrNoRefreshToken
	}

	p, err := Prepare(Request{
		Method: http.MethodPost,
		Path:   common.RefreshTokenPath,
		Body:   map[string]string{"refreshToken": refreshToken},
	})
	if err != nil {
		return models.Tokens{}, err
	}

	data, err := c.Do(ctx, p, "")
	if err != nil {
		return models.Tokens{}, err
	}

	var resp models.AuthResponse
	if err := decodeData(data, &resp); err != nil {
		return models.Tokens{}, err
	}
	if resp.AccessToken == "" {
		return models.Tokens{}, errors.New("refresh response did not contain an access token")
	}
	return resp.Tokens(), nil
}

// decodeData unmarshals the "data" member of an enveloped response, or the
// whole body when there is no envelope.
func decodeData(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if json.Unmarshal(body, &env) == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		body = env.Data
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeField unmarshals body[name], falling back to decodeData. Used for
// responses like {"user": {...}} that may also arrive enveloped.
func decodeField(body []byte, name string, out any) error {
	var fields map[string]json.RawMessage
	if json.Unmarshal(body, &fields) == nil {
		if raw, ok := fields[name]; ok && string(raw) != "null" {
			return json.Unmarshal(raw, out)
		}
		if raw, ok := fields["data"]; ok {
			var inner map[string]json.RawMessage
			if json.Unmarshal(raw, &inner) == nil {
				if v, ok := inner[name]; ok && string(v) != "null" {
					return json.Unmarshal(v, out)
				}
			}
		}
	}
	return decodeData(body, out)
}
