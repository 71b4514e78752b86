package symbols

import (
	"github.com/go-kit/log"
)

// Option configures Collect.
type Option func(*options)

type options struct {
	policy DuplicatePolicy
	logger log.Logger
}

func defaultOptions() options {
	return options{
		policy: KeepLast,
		logger: log.NewNopLogger(),
	}
}

// WithDuplicatePolicy selects which symbol survives an address collision.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

func WithLogger(l log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
