package transfer

import (
	"context"
	"time"

	"github.com/xxxsen/davc/davclient"
)

// ClientFactory returns a connected client. Clients are not shared between
// workers, every worker gets its own.
type ClientFactory func(ctx context.Context) (davclient.IClient, error)

type config struct {
	Thread        int
	Factory       ClientFactory
	RetryTimes    int
	RetryInterval time.Duration
}

type Option func(*config)

func WithClientFactory(fn ClientFactory) Option {
	return func(c *config) {
		c.Factory = fn
	}
}

func WithThread(t int) Option {
	return func(c *config) {
		c.Thread = t
	}
}

func WithRetry(times int, interval time.Duration) Option {
	return func(c *config) {
		c.RetryTimes = times
		c.RetryInterval = interval
	}
}
