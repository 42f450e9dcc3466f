package cachepool

// config holds the internal configuration assembled via functional options.
type config struct {
	clock Clock
}

// Option configures a Pool.
type Option func(*config)

// WithClock sets the time source used for expiration checks. Defaults to
// the wall clock; tests inject a fake to drive TTL behavior without
// sleeping.
func WithClock(c Clock) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.clock = c
		}
	}
}
