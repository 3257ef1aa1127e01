package store

import "go.uber.org/zap"

type options struct {
	logger     *zap.Logger
	cacheSize  int
	syncWrites bool
}

// Option configures a Store at Open time.
type Option func(*options)

// WithLogger injects a structured logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithCacheSize sets the term dictionary's bounded front-cache capacity.
// The default is 5000 entries.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithSyncWrites makes every committed transaction fsync before returning.
// Off by default, trading durability for throughput.
func WithSyncWrites(sync bool) Option {
	return func(o *options) { o.syncWrites = sync }
}

func newOptions(opts ...Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}
