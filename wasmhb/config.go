package wasmhb

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/boxesandglue/luatextshape/hb"
)

// DefaultModuleName is the import module name guests use.
const DefaultModuleName = "harfbuzz"

// DefaultMaxRequestSize bounds the bytes a single call may copy out of guest
// memory (font blobs, text).
const DefaultMaxRequestSize = 64 << 20

var validate = validator.New()

type config struct {
	Logger         *zap.Logger     `validate:"-"`
	Pool           *hb.FeaturePool `validate:"-"`
	ModuleName     string          `validate:"required,max=64"`
	MaxFeatures    int             `validate:"gte=0"`
	MaxRequestSize int             `validate:"gt=0"`
}

// Option configures a Host.
type Option func(*config)

// WithLogger sets the host logger. The default is hb.Logger().
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.Logger = l
	}
}

// WithModuleName changes the import module name.
func WithModuleName(name string) Option {
	return func(c *config) {
		c.ModuleName = name
	}
}

// WithMaxFeatures limits the feature records per shape_full call. Zero means
// no limit.
func WithMaxFeatures(n int) Option {
	return func(c *config) {
		c.MaxFeatures = n
	}
}

// WithMaxRequestSize limits the bytes read from guest memory per call.
func WithMaxRequestSize(n int) Option {
	return func(c *config) {
		c.MaxRequestSize = n
	}
}

// WithFeaturePool makes the host draw feature scratch arrays from p.
func WithFeaturePool(p *hb.FeaturePool) Option {
	return func(c *config) {
		c.Pool = p
	}
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{
		ModuleName:     DefaultModuleName,
		MaxFeatures:    hb.DefaultMaxFeatures,
		MaxRequestSize: DefaultMaxRequestSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("wasmhb: invalid configuration: %w", err)
	}
	if c.Logger == nil {
		c.Logger = hb.Logger()
	}
	if c.Pool == nil {
		c.Pool = hb.NewFeaturePool(c.MaxFeatures)
	}
	return c, nil
}
