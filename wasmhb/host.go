// Package wasmhb is a wazero host module that lets WebAssembly guests shape
// text with the hb object model.
//
// Guests import functions from the "harfbuzz" module. Objects live on the
// host and are referred to by i32 handles; handle 0 means failure.
// Functions that do not return a handle or a length return a status code
// (StatusOK and so on); the message of the calling guest's last failure
// is available through last_error. Several guests may share a Host.
//
//	r := wazero.NewRuntime(ctx)
//	host, err := wasmhb.New()
//	if err != nil {
//		return err
//	}
//	if _, err := host.Instantiate(ctx, r); err != nil {
//		return err
//	}
//	guest, err := r.Instantiate(ctx, guestWasm)
package wasmhb

import (
	"context"
	"errors"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/boxesandglue/luatextshape/hb"
)

// Status codes returned to guests.
const (
	StatusOK            uint32 = 0
	StatusTypeError     uint32 = 1
	StatusResourceError uint32 = 2
	StatusMemoryError   uint32 = 3
	StatusInvalidInput  uint32 = 4
)

// errorLength is returned by functions that report a count or length when
// they fail.
const errorLength = ^uint32(0)

// Host owns the handle table shared by every guest instantiated against it.
type Host struct {
	cfg     *config
	handles *handleTable
	log     *zap.Logger

	mu      sync.Mutex
	lastErr map[api.Module]string
}

// New returns a Host configured by opts.
func New(opts ...Option) (*Host, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Host{
		cfg:     cfg,
		handles: newHandleTable(),
		log:     cfg.Logger,
		lastErr: make(map[api.Module]string),
	}, nil
}

// Handles returns the number of live handles.
func (h *Host) Handles() int {
	return h.handles.len()
}

// Pool returns the feature pool used by shape_full.
func (h *Host) Pool() *hb.FeaturePool {
	return h.cfg.Pool
}

// Instantiate registers the host module in r.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	b := r.NewHostModuleBuilder(h.cfg.ModuleName)
	export := func(name string, fn any) {
		b.NewFunctionBuilder().WithFunc(fn).Export(name)
	}

	export("blob_create", h.blobCreate)
	export("face_create", h.faceCreate)
	export("font_create", h.fontCreate)
	export("font_set_scale", h.fontSetScale)
	export("buffer_create", h.bufferCreate)
	export("buffer_add_utf8", h.bufferAddUTF8)
	export("buffer_set_direction", h.bufferSetDirection)
	export("buffer_set_script", h.bufferSetScript)
	export("buffer_set_language", h.bufferSetLanguage)
	export("buffer_guess_segment_properties", h.bufferGuessSegmentProperties)
	export("buffer_get_length", h.bufferGetLength)
	export("buffer_get_glyphs", h.bufferGetGlyphs)
	export("feature_from_string", h.featureFromString)
	export("shape_full", h.shapeFull)
	export("version", h.version)
	export("shapers", h.shapers)
	export("destroy", h.destroy)
	export("last_error", h.lastError)

	h.log.Debug("wasm host module registered", zap.String("module", h.cfg.ModuleName))
	return b.Instantiate(ctx)
}

// fail records err as the last error of guest m and maps it to a status
// code. Messages of closed guests are dropped.
func (h *Host) fail(m api.Module, fn string, err error) uint32 {
	h.mu.Lock()
	for g := range h.lastErr {
		if g.IsClosed() {
			delete(h.lastErr, g)
		}
	}
	h.lastErr[m] = err.Error()
	h.mu.Unlock()
	h.log.Debug("host call failed", zap.String("func", fn), zap.Error(err))
	return statusOf(err)
}

func statusOf(err error) uint32 {
	var me *memoryError
	if errors.As(err, &me) {
		return StatusMemoryError
	}
	switch {
	case errors.Is(err, hb.ErrTypeMismatch):
		return StatusTypeError
	case errors.Is(err, hb.ErrAllocation):
		return StatusResourceError
	}
	return StatusInvalidInput
}

// typeError reports that handle does not refer to a live value of kind want.
func (h *Host) typeError(m api.Module, fn string, arg int, handle uint32, want kind) uint32 {
	got := "invalid handle"
	if e, ok := h.handles.get(handle); ok {
		got = e.kind.String()
	}
	return h.fail(m, fn, hb.TypeMismatch(fn, arg, want.String(), got))
}
