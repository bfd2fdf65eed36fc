// Package roomapi wraps the campus facility-reservation endpoints: listing
// open slots across paginated weekly views, submitting reservations and
// querying existing ones.
package roomapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production service root.
const DefaultBaseURL = "http://stu.bit.edu.cn"

const (
	appConfigPath = "/xsfw/sys/swpubapp/indexmenu/getAppConfig.do?appId=4974886768205231&appName=cdyyapp"
	indexPath     = "/xsfw/sys/cdyyapp/*default/index.do"
	siteInfoPath  = "/xsfw/sys/cdyyapp/modules/CdyyApplyController/getSiteInfo.do"
	reservePath   = "/xsfw/sys/cdyyapp/modules/CdyyApplyController/saveReserveSite.do"
	ordersPath    = "/xsfw/sys/cdyyapp/modules/kyycd/cdsyqkcx.do"
)

const dateLayout = "2006-01-02"

// status is the envelope every endpoint wraps its payload in.
type status struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

func (s status) ok() bool { return s.Code == "0" && s.Msg == "成功" }

// Client issues requests against one authenticated session. The *http.Client
// handed to New must already carry valid session credentials (cookies); this
// package only performs the app-config handshake the service requires before
// it answers listing calls, and pins the Referer it expects afterwards.
//
// The http.Client is shared by all concurrent page fetches of a listing call,
// so it must be safe for concurrent use (the stdlib client is).
type Client struct {
	hc      *http.Client
	baseURL string
	referer string
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different service root, e.g. a test
// server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New performs the session handshake and returns a ready client.
func New(ctx context.Context, hc *http.Client, opts ...Option) (*Client, error) {
	c := &Client{
		hc:      hc,
		baseURL: DefaultBaseURL,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	if err := c.prepare(ctx); err != nil {
		return nil, err
	}
	c.referer = c.baseURL + indexPath
	return c, nil
}

// prepare fetches the app config once. The service refuses listing calls on
// sessions that never loaded it.
func (c *Client) prepare(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, minRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+appConfigPath, nil)
	if err != nil {
		return err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("app config handshake: %w", err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	if res.StatusCode >= 400 {
		return fmt.Errorf("app config handshake failed (status=%d)", res.StatusCode)
	}
	return nil
}

// postData sends the service's standard envelope: a form POST whose single
// "data" field holds the JSON-encoded payload. timeout bounds this one
// request only.
func (c *Client) postData(ctx context.Context, path string, payload any, timeout time.Duration) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	form := url.Values{"data": {string(body)}}
	return c.postForm(ctx, path, form, timeout)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("%s returned status %d", path, res.StatusCode)
	}
	return b, nil
}
