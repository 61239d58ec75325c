package hb

import (
	"runtime/debug"
	"strings"
	"sync"
)

// EnginePath is the module path of the shaping engine.
const EnginePath = "github.com/boxesandglue/textshape"

// DevelVersion is reported when the binary carries no module information for
// the engine.
const DevelVersion = "devel"

var engineVersion = sync.OnceValue(func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return DevelVersion
	}
	for _, dep := range info.Deps {
		if dep.Path != EnginePath {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			dep = dep.Replace
		}
		if v := strings.TrimPrefix(dep.Version, "v"); v != "" {
			return v
		}
	}
	return DevelVersion
})

// Version returns the engine's version string ("0.1.0").
// HarfBuzz equivalent: hb_version_string()
func Version() string {
	return engineVersion()
}
