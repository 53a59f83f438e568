package surface

import (
	"log/slog"
	"time"

	"github.com/san-kum/cosmos/internal/config"
	"github.com/san-kum/cosmos/internal/logx"
	"github.com/san-kum/cosmos/internal/procgen"
)

type options struct {
	cfg    *config.Config
	rnd    procgen.Rand
	clock  func() time.Time
	logger *slog.Logger
}

type Option func(*options)

// WithConfig replaces config.DefaultConfig.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithRand sets the placement source. The default is seeded from the
// config seed when non-zero, else from the time of mount.
func WithRand(r procgen.Rand) Option {
	return func(o *options) { o.rnd = r }
}

// WithClock overrides the frame timestamp handed to the animator.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cfg == nil {
		o.cfg = config.DefaultConfig()
	}
	if o.logger == nil {
		o.logger = logx.Logger()
	}
	return o
}
