package davtest

type config struct {
	prefix string
	users  map[string]string
}

type Option func(c *config)

// WithPrefix mounts the webdav tree under prefix, e.g. "/dav".
func WithPrefix(p string) Option {
	return func(c *config) {
		c.prefix = p
	}
}

// WithUser enables basic auth; every request must carry one of the registered users.
func WithUser(u string, p string) Option {
	return func(c *config) {
		if c.users == nil {
			c.users = make(map[string]string)
		}
		c.users[u] = p
	}
}

func applyOpts(opts ...Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
