package davclient

import (
	"net/http"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
)

type config struct {
	Timeout       time.Duration
	HTTPClient    *http.Client
	Transport     ITransport
	StrictListing bool
	Source        ByteSource
	Sink          ByteSink
}

type Option func(c *config)

// WithTimeout bounds every request issued by the default transport.
func WithTimeout(t time.Duration) Option {
	return func(c *config) {
		c.Timeout = t
	}
}

// WithHTTPClient replaces the http client used by the default transport,
// e.g. to supply a custom TLS configuration.
func WithHTTPClient(cli *http.Client) Option {
	return func(c *config) {
		c.HTTPClient = cli
	}
}

func WithTransport(t ITransport) Option {
	return func(c *config) {
		c.Transport = t
	}
}

// WithStrictListing makes List fail with ErrMalformedResponse when the
// PROPFIND body is not well-formed, instead of returning what was recovered.
func WithStrictListing(v bool) Option {
	return func(c *config) {
		c.StrictListing = v
	}
}

func WithSource(s ByteSource) Option {
	return func(c *config) {
		c.Source = s
	}
}

func WithSink(s ByteSink) Option {
	return func(c *config) {
		c.Sink = s
	}
}

func applyOpts(opts ...Option) *config {
	c := &config{
		Timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
