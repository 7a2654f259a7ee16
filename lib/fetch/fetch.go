// Package fetch retrieves pages from the source site. Every page is fetched
// once, synchronously, with no retry.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"railcodes/lib/restyutil"
	"railcodes/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("railcodes.lib.fetch")

const (
	DefaultBaseURL   = "http://www.railwaycodes.org.uk/"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultTimeout   = 30 * time.Second
)

var ErrConnectivity = errors.New("source site unreachable")

// the source host could not be reached or answered with a server error.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, ErrConnectivity.Error(), e.Err)
}

func (e *ConnectivityError) Unwrap() []error {
	return []error{ErrConnectivity, e.Err}
}

func IsConnectivityError(err error) bool {
	return errors.Is(err, ErrConnectivity)
}

// the page was served but with a client error status, it most likely no
// longer exists.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

// what collectors and the catalogue need from a client.
type Fetcher interface {
	Resolve(ref string) string
	Get(ctx context.Context, url string) ([]byte, error)
	Document(ctx context.Context, url string) (*goquery.Document, error)
}

type Client struct {
	BaseURL *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// wraps the transport with cloudflare's anti-bot bypass
	Bypass bool
	// when set, every request/response pair is written to this directory
	DumpDir string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	if opts.Bypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseURL.Hostname()))
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "railcodes.lib.fetch.http")
	if opts.DumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(opts.DumpDir)
		if err != nil {
			return nil, err
		}
		restyutil.DumpMessages(client, output)
	}

	return &Client{
		BaseURL: baseURL,
		Http:    client,
	}, nil
}

// resolves `ref` against the base url, absolute urls are left as is.
func (c *Client) Resolve(ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.BaseURL.ResolveReference(parsed).String()
}

func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	url = c.Resolve(url)

	ctx, span := tracer.Start(ctx, "Get")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	res, err := c.Http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		err = &ConnectivityError{URL: url, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach source site")
		return nil, err
	}

	status := res.StatusCode()
	if status >= 500 {
		err = &ConnectivityError{URL: url, Err: fmt.Errorf("server responded %s", res.Status())}
		span.RecordError(err)
		span.SetStatus(codes.Error, "server error")
		return nil, err
	}
	if status >= 400 {
		err = &StatusError{URL: url, Status: status}
		span.RecordError(err)
		span.SetStatus(codes.Error, "client error")
		return nil, err
	}

	return res.Body(), nil
}

func (c *Client) Document(ctx context.Context, url string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "Document")
	defer span.End()

	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}
	return doc, nil
}
