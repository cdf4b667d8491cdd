// Package supabase adapts the hosted backend's auth and storage HTTP APIs.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/senuthbros6699-eng/dialect/domain"
)

const DefaultTimeout = 15 * time.Second

type Config struct {
	URL        string
	AnonKey    string
	ServiceKey string
	JWTSecret  string
	HTTPClient *http.Client
}

// Client sends authenticated requests to the backend
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
}

func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	serviceKey := cfg.ServiceKey
	if serviceKey == "" {
		serviceKey = cfg.AnonKey
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		serviceKey: serviceKey,
		http:       hc,
	}
}

type request struct {
	method      string
	path        string
	bearer      string
	contentType string
	header      map[string]string
	body        io.Reader
}

type apiError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e apiError) text() string {
	for _, s := range []string{e.Message, e.Msg, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (c *Client) jsonRequest(method, path, bearer string, payload any) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, err
	}
	return request{
		method:      method,
		path:        path,
		bearer:      bearer,
		contentType: "application/json",
		body:        bytes.NewReader(data),
	}, nil
}

// do sends r and decodes a JSON response into out when out is not nil
func (c *Client) do(ctx context.Context, r request, out any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return err
	}
	bearer := r.bearer
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	for k, v := range r.header {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%w: %s %s: %s", statusError(resp.StatusCode), r.method, r.path, apiErr.text())
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusError(code int) error {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrBadParamInput
	case http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		return domain.ErrInternalServerError
	}
}
