package client

import (
	"context"
	"net/http"
)

// RequestFunc issues one request using accessToken.
type RequestFunc func(ctx context.Context, accessToken string) error

// Authorizer runs fn with the current access token and decides whether a
// failure is worth a refresh and a second attempt.
type Authorizer interface {
	Do(ctx context.Context, fn RequestFunc) error
}

// TokenSource is the minimal Authorizer: it reads the token and never
// retries.
type TokenSource func(ctx context.Context) (string, error)

func (t TokenSource) Do(ctx context.Context, fn RequestFunc) error {
	tok, err := t(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, tok)
}

// API exposes the backend endpoints.
type API struct {
	http *HTTPClient
	auth Authorizer
}

func NewAPI(h *HTTPClient, auth Authorizer) *API {
	return &API{http: h, auth: auth}
}

// call sends r through the authorizer and decodes the (possibly enveloped)
// response into out.
func (a *API) call(ctx context.Context, r Request, out any) error {
	body, err := a.raw(ctx, r)
	if err != nil {
		return err
	}
	return decodeData(body, out)
}

func (a *API) raw(ctx context.Context, r Request) ([]byte, error) {
	p, err := Prepare(r)
	if err != nil {
		return nil, err
	}

	var body []byte
	err = a.auth.Do(ctx, func(ctx context.Context, token string) error {
		b, err := a.http.Do(ctx, p, token)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	return body, err
}

func get(path string) Request {
	return Request{Method: http.MethodGet, Path: path}
}

func post(path string, body any) Request {
	return Request{Method: http.MethodPost, Path: path, Body: body}
}

func put(path string, body any) Request {
	return Request{Method: http.MethodPut, Path: path, Body: body}
}

func patch(path string, body any) Request {
	return Request{Method: http.MethodPatch, Path: path, Body: body}
}

func del(path string) Request {
	return Request{Method: http.MethodDelete, Path: path}
}
