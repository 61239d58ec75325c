package luahb

import (
	"fmt"

	"github.com/boxesandglue/luatextshape/hb"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DefaultModuleName is the name the module is preloaded under.
const DefaultModuleName = "harfbuzz"

// AliasModuleName is the module name of the original C binding. Preload
// registers it as well so existing scripts keep working.
const AliasModuleName = "luaharfbuzz"

// validate is a package-level singleton; validators cache struct metadata.
var validate = validator.New()

type config struct {
	Logger      *zap.Logger     `validate:"-"`
	Pool        *hb.FeaturePool `validate:"-"`
	ModuleName  string          `validate:"required,max=64"`
	Shapers     []string        `validate:"omitempty,dive,required"`
	MaxFeatures int             `validate:"gte=0"`
}

// Option configures the module.
type Option func(*config)

// WithLogger sets the logger for binding events. The default is hb.Logger().
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.Logger = l
	}
}

// WithMaxFeatures limits the number of features a single shaping call may
// pass. The default is hb.DefaultMaxFeatures; zero means no limit. It is
// ignored when WithFeaturePool is given.
func WithMaxFeatures(n int) Option {
	return func(c *config) {
		c.MaxFeatures = n
	}
}

// WithFeaturePool makes the module draw feature scratch arrays from p.
func WithFeaturePool(p *hb.FeaturePool) Option {
	return func(c *config) {
		c.Pool = p
	}
}

// WithShapers sets the shaper list used when a script passes none.
func WithShapers(names ...string) Option {
	return func(c *config) {
		c.Shapers = names
	}
}

// WithModuleName changes the name passed to require.
func WithModuleName(name string) Option {
	return func(c *config) {
		c.ModuleName = name
	}
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{ModuleName: DefaultModuleName, MaxFeatures: hb.DefaultMaxFeatures}
	for _, opt := range opts {
		opt(c)
	}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("luahb: invalid configuration: %w", err)
	}
	if c.Logger == nil {
		c.Logger = hb.Logger()
	}
	if c.Pool == nil {
		if c.MaxFeatures == hb.DefaultMaxFeatures {
			c.Pool = hb.DefaultFeaturePool
		} else {
			c.Pool = hb.NewFeaturePool(c.MaxFeatures)
		}
	}
	return c, nil
}
