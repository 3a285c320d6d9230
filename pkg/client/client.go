// Package client talks to a flowbox API server.
//
//	c := client.New("http://localhost:8080", nil, nil)
//	created, err := c.CreateLayout(ctx, doc, scene.FormatTOML, pipeline.Options{Width: 320})
//	svg, err := c.Render(ctx, created.ID, pipeline.Options{Formats: []string{"svg"}})
//
// Reads are retried with backoff on network failures and 5xx responses.
// Stored layouts never change, so [Client.GetLayout] caches them on disk
// when the client has a cache.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/flowbox/pkg/errors"
	"github.com/matzehuels/flowbox/pkg/httputil"
	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/pipeline"
	"github.com/matzehuels/flowbox/pkg/scene"
)

const (
	httpTimeout   = 30 * time.Second
	retryAttempts = 3
)

// Layout is a stored layout as returned by the server.
type Layout struct {
	ID        string            `json:"id"`
	SceneHash string            `json:"scene_hash"`
	CreatedAt time.Time         `json:"created_at"`
	Cached    bool              `json:"cached,omitempty"`
	Layout    layoutfile.Layout `json:"layout"`
}

// Client is an API client. It is safe for concurrent use when its cache is
// nil.
type Client struct {
	base    string
	http    *http.Client
	cache   *httputil.Cache
	headers map[string]string
	delay   time.Duration
}

// New creates a client for the server at baseURL. cache may be nil to
// disable layout caching. Headers are sent with every request.
func New(baseURL string, cache *httputil.Cache, headers map[string]string) *Client {
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeout},
		cache:   cache,
		headers: headers,
		delay:   time.Second,
	}
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.retry(ctx, func() error {
		body, err := c.do(ctx, http.MethodGet, "/healthz", nil, "", nil)
		if err != nil {
			return err
		}
		return body.Close()
	})
}

// CreateLayout posts a scene document and returns the stored layout.
// Layout overrides are taken from opts. Creation is not retried.
func (c *Client) CreateLayout(ctx context.Context, doc []byte, format scene.Format, opts pipeline.Options) (Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return Layout{}, err
	}
	q := layoutQuery(opts)
	q.Set("format", string(format))

	body, err := c.do(ctx, http.MethodPost, "/v1/layout", q, contentType(format), doc)
	if err != nil {
		return Layout{}, err
	}
	defer body.Close()

	var l Layout
	if err := json.NewDecoder(body).Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	if c.cache != nil {
		_ = c.cache.Set(layoutKey(l.ID), l)
	}
	return l, nil
}

// GetLayout fetches a stored layout.
func (c *Client) GetLayout(ctx context.Context, id string) (Layout, error) {
	if err := errors.ValidateLayoutID(id); err != nil {
		return Layout{}, err
	}
	var l Layout
	if c.cache != nil {
		if ok, _ := c.cache.Get(layoutKey(id), &l); ok {
			return l, nil
		}
	}

	err := c.retry(ctx, func() error {
		body, err := c.do(ctx, http.MethodGet, "/v1/layouts/"+id, nil, "", nil)
		if err != nil {
			return err
		}
		defer body.Close()
		return json.NewDecoder(body).Decode(&l)
	})
	if err != nil {
		return Layout{}, err
	}
	if c.cache != nil {
		_ = c.cache.Set(layoutKey(id), l)
	}
	return l, nil
}

// DeleteLayout deletes a stored layout.
func (c *Client) DeleteLayout(ctx context.Context, id string) error {
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}
	body, err := c.do(ctx, http.MethodDelete, "/v1/layouts/"+id, nil, "", nil)
	if err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Delete(layoutKey(id))
	}
	return body.Close()
}

// Render renders a stored layout in every format of opts.Formats.
func (c *Client) Render(ctx context.Context, id string, opts pipeline.Options) (map[string][]byte, error) {
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(opts.Formats))
	q := renderQuery(opts)
	for _, format := range opts.Formats {
		err := c.retry(ctx, func() error {
			body, err := c.do(ctx, http.MethodGet, "/v1/layouts/"+id+"/render."+format, q, "", nil)
			if err != nil {
				return err
			}
			defer body.Close()
			data, err := io.ReadAll(body)
			if err != nil {
				return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", format))
			}
			out[format] = data
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
	}
	return out, nil
}

func (c *Client) retry(ctx context.Context, fn func() error) error {
	return httputil.Retry(ctx, retryAttempts, c.delay, fn)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, ct string, payload []byte) (io.ReadCloser, error) {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path))
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, httputil.DecodeError(resp)
	}
	return resp.Body, nil
}

func layoutKey(id string) string { return "layout:" + id }

func contentType(f scene.Format) string {
	switch f {
	case scene.FormatTOML:
		return "application/toml"
	case scene.FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

func layoutQuery(opts pipeline.Options) url.Values {
	q := url.Values{}
	setInt(q, "width", opts.Width)
	setInt(q, "height", opts.Height)
	setInt(q, "max_lines", opts.MaxLines)
	setString(q, "orientation", opts.Orientation)
	setString(q, "direction", opts.Direction)
	setString(q, "gravity", opts.Gravity)
	setBool(q, "refresh", opts.Refresh)
	return q
}

func renderQuery(opts pipeline.Options) url.Values {
	q := url.Values{}
	setString(q, "style", opts.Style)
	setBool(q, "labels", opts.Labels)
	setBool(q, "lines", opts.Lines)
	setBool(q, "interactive", opts.Interactive)
	setBool(q, "detailed", opts.Detailed)
	setBool(q, "refresh", opts.Refresh)
	if opts.Scale > 0 {
		q.Set("scale", strconv.FormatFloat(opts.Scale, 'g', -1, 64))
	}
	return q
}

func setInt(q url.Values, k string, v int) {
	if v != 0 {
		q.Set(k, strconv.Itoa(v))
	}
}

func setString(q url.Values, k, v string) {
	if v != "" {
		q.Set(k, v)
	}
}

func setBool(q url.Values, k string, v bool) {
	if v {
		q.Set(k, "true")
	}
}
