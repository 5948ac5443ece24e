// Package client fetches SDMX-ML documents over HTTP and decodes them.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	sdmxml "github.com/sdmxkit/sdmxml"
	"github.com/sdmxkit/sdmxml/message"
	"github.com/sdmxkit/sdmxml/registry"
)

// maxBodyBytes caps how much of a response body is read. SDMX providers
// occasionally return unbounded data sets; 512 MiB is well past anything a
// structure query produces.
const maxBodyBytes = 512 << 20

// Client issues queries against one SDMX REST provider.
type Client struct {
	source registry.Source
	http   *http.Client
	opts   []sdmxml.ReadOption
	log    *slog.Logger
}

// Option adjusts a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithReadOptions passes decode options through to every response.
func WithReadOptions(opts ...sdmxml.ReadOption) Option {
	return func(c *Client) { c.opts = append(c.opts, opts...) }
}

// WithLogger directs request diagnostics to the given logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client for the given source.
func New(source registry.Source, opts ...Option) (*Client, error) {
	if source.URL == "" {
		return nil, fmt.Errorf("client: source %q has no url", source.ID)
	}
	c := &Client{
		source: source,
		http:   &http.Client{Timeout: 60 * time.Second},
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Response carries a decoded message together with transport metadata.
type Response struct {
	Message     message.Message
	StatusCode  int
	ContentType string
	URL         string
}

// Get fetches the resource at the given path below the source URL and
// decodes the SDMX-ML body. The path is joined to the source URL, so
// "datastructure/ECB/EXR" queries that structure endpoint.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	u, err := c.buildURL(path, query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml")
	for k, v := range c.source.Headers {
		req.Header.Set(k, v)
	}

	c.log.Debug("sdmx request", "source", c.source.ID, "url", u)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         u,
	}
	if err := checkContentType(out.ContentType); err != nil {
		// Error responses are frequently served with a generic content
		// type, so only reject when the status was a success.
		if resp.StatusCode < 300 {
			return out, err
		}
	}
	body := io.LimitReader(resp.Body, maxBodyBytes)
	msg, err := sdmxml.Read(body, c.opts...)
	if err != nil {
		if resp.StatusCode >= 300 {
			return out, fmt.Errorf("client: %s returned status %d", c.source.ID, resp.StatusCode)
		}
		return out, err
	}
	out.Message = msg

	// A well-formed SDMX error document can arrive under any status code.
	if em, ok := msg.(*message.ErrorMessage); ok {
		return out, fmt.Errorf("client: %s returned error %s", c.source.ID, errorSummary(em))
	}
	return out, nil
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	base, err := url.Parse(c.source.URL)
	if err != nil {
		return "", fmt.Errorf("client: bad source url: %w", err)
	}
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("client: bad path %q: %w", path, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	u := base.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func checkContentType(ct string) error {
	if ct == "" {
		return nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return fmt.Errorf("client: unparseable content type %q", ct)
	}
	switch {
	case mt == "application/xml", mt == "text/xml":
		return nil
	case strings.HasPrefix(mt, "application/vnd.sdmx.") && strings.HasSuffix(mt, "+xml"):
		return nil
	}
	return fmt.Errorf("client: unexpected content type %q", ct)
}

func errorSummary(em *message.ErrorMessage) string {
	f := em.MessageFooter()
	if f == nil {
		return "(no footer)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d", f.Code)
	for _, t := range f.Text {
		if s := t.String(); s != "" {
			b.WriteString(": ")
			b.WriteString(s)
			break
		}
	}
	return b.String()
}
