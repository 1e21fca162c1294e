package monarch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Device defines the operations the control surface needs from a Monarch.
// It is implemented by *Client and can be replaced in tests.
type Device interface {
	Send(ctx context.Context, cmd Command) (string, error)
	FetchStatus(ctx context.Context, timeout time.Duration) (Status, error)
}

// Ensure Client implements Device at compile time.
var _ Device = (*Client)(nil)

const (
	sdkPath          = "/Monarch/syncconnect/sdk.aspx"
	defaultUserAgent = "monarchctl/0.1"

	// CommandTimeout bounds every command request.
	CommandTimeout = 10 * time.Second
)

// Endpoint identifies a device and the credentials used to reach it.
type Endpoint struct {
	Host     string
	User     string
	Password string
}

// Client talks to the Monarch SDK endpoint over HTTP.
type Client struct {
	http       *resty.Client
	endpoint   *url.URL
	log        logrus.FieldLogger
	cmdTimeout time.Duration
}

// NewClient builds a Client for ep. A nil logger falls back to the logrus
// standard logger.
func NewClient(ep Endpoint, log logrus.FieldLogger) (*Client, error) {
	base, err := parseEndpoint(ep)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	// No client-wide timeout: each call bounds itself through its context,
	// and status polls may legitimately outlast CommandTimeout.
	r := resty.New()
	r.SetHeader("User-Agent", defaultUserAgent)
	// Credentials travel both in the URL and as a transport-level
	// Authorization header; some firmware only honours one of them.
	r.SetBasicAuth(ep.User, ep.Password)
	r.SetDisableWarn(true)
	r.SetLogger(log)

	return &Client{http: r, endpoint: base, log: log, cmdTimeout: CommandTimeout}, nil
}

// Host returns the device address the client targets.
func (c *Client) Host() string {
	return c.endpoint.Host
}

// URL returns the full request URL for cmd, credentials included.
func (c *Client) URL(cmd Command) *url.URL {
	u := *c.endpoint
	u.RawQuery = url.Values{"command": {string(cmd)}}.Encode()
	return &u
}

// Send issues cmd and returns the raw reply body. A reply containing RETRY
// is reported as ErrBusy alongside the body.
func (c *Client) Send(ctx context.Context, cmd Command) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, c.cmdTimeout)
	defer cancel()

	body, err := c.get(ctx, cmd)
	if err != nil {
		return body, err
	}
	if isBusy(body) {
		return body, ErrBusy
	}
	return body, nil
}

// FetchStatus issues GetStatus with the given per-request timeout and parses
// the reply. A non-positive timeout falls back to CommandTimeout.
func (c *Client) FetchStatus(ctx context.Context, timeout time.Duration) (Status, error) {
	if c == nil {
		return Status{}, fmt.Errorf("client is nil")
	}
	if timeout <= 0 {
		timeout = c.cmdTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	body, err := c.get(ctx, CommandGetStatus)
	if err != nil {
		return Status{}, err
	}
	return ParseStatus(body), nil
}

func (c *Client) get(ctx context.Context, cmd Command) (string, error) {
	reqURL := c.URL(cmd)
	c.log.WithField("url", reqURL.Redacted()).Debug("starting request")

	resp, err := c.http.R().
		SetContext(ctx).
		Get(reqURL.String())
	if err != nil {
		return "", classify(err)
	}

	body := resp.String()
	c.log.WithFields(logrus.Fields{
		"command": string(cmd),
		"status":  resp.StatusCode(),
		"body":    body,
	}).Debug("device replied")

	if !resp.IsSuccess() {
		return body, &HTTPError{StatusCode: resp.StatusCode()}
	}
	return body, nil
}

func parseEndpoint(ep Endpoint) (*url.URL, error) {
	host := strings.TrimSpace(ep.Host)
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimRight(host, "/")
	if host == "" {
		return nil, fmt.Errorf("device host is empty")
	}
	if strings.Contains(host, "://") {
		return nil, fmt.Errorf("device host %q: only plain http is supported", ep.Host)
	}

	u := &url.URL{Scheme: "http", Host: host, Path: sdkPath}
	if ep.User != "" || ep.Password != "" {
		u.User = url.UserPassword(ep.User, ep.Password)
	}
	if _, err := url.Parse(u.String()); err != nil {
		return nil, fmt.Errorf("parse device host %q: %w", ep.Host, err)
	}
	return u, nil
}
