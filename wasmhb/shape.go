package wasmhb

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero/api"

	"github.com/boxesandglue/luatextshape/hb"
)

// featureRecordSize is the size of one guest feature record: tag, value,
// start, end as little-endian u32.
const featureRecordSize = 16

// featureEndOfBuffer in a record's end field means "to the end of the
// buffer".
const featureEndOfBuffer = 0xFFFFFFFF

func encodeFeature(rec []byte, f hb.Feature) {
	end := uint32(featureEndOfBuffer)
	if f.End != hb.FeatureGlobalEnd {
		end = uint32(f.End)
	}
	binary.LittleEndian.PutUint32(rec[0:], uint32(f.Tag))
	binary.LittleEndian.PutUint32(rec[4:], f.Value)
	binary.LittleEndian.PutUint32(rec[8:], uint32(f.Start))
	binary.LittleEndian.PutUint32(rec[12:], end)
}

func decodeFeature(rec []byte) hb.Feature {
	end := uint(binary.LittleEndian.Uint32(rec[12:]))
	if end == featureEndOfBuffer {
		end = hb.FeatureGlobalEnd
	}
	return hb.NewFeature(
		hb.Tag(binary.LittleEndian.Uint32(rec[0:])),
		binary.LittleEndian.Uint32(rec[4:]),
		uint(binary.LittleEndian.Uint32(rec[8:])),
		end,
	)
}

// featureFromString parses a HarfBuzz feature string and writes its record
// at out.
func (h *Host) featureFromString(_ context.Context, m api.Module, ptr, size, out uint32) uint32 {
	s, err := h.read("feature_from_string", m, ptr, size)
	if err != nil {
		return h.fail(m, "feature_from_string", err)
	}
	f, err := hb.ParseFeature(string(s))
	if err != nil {
		return h.fail(m, "feature_from_string", err)
	}
	var rec [featureRecordSize]byte
	encodeFeature(rec[:], f)
	if err := h.write("feature_from_string", m, out, rec[:]); err != nil {
		return h.fail(m, "feature_from_string", err)
	}
	return StatusOK
}

// shapeFull shapes buf with font and the n feature records at ptr. Handle
// kinds are checked before any scratch is taken; the scratch array goes
// back to the pool on every return.
func (h *Host) shapeFull(_ context.Context, m api.Module, font, buf, ptr, n uint32) uint32 {
	f, ok := getTyped[*hb.Font](h.handles, font, kindFont)
	if !ok {
		return h.typeError(m, "shape_full", 1, font, kindFont)
	}
	b, ok := getTyped[*hb.Buffer](h.handles, buf, kindBuffer)
	if !ok {
		return h.typeError(m, "shape_full", 2, buf, kindBuffer)
	}

	size := uint64(n) * featureRecordSize
	if size > uint64(h.cfg.MaxRequestSize) {
		return h.fail(m, "shape_full", hb.AllocationError("shape_full",
			fmt.Sprintf("%d feature records exceed the request limit of %d bytes", n, h.cfg.MaxRequestSize)))
	}

	scratch, err := h.cfg.Pool.Acquire(int(n))
	if err != nil {
		return h.fail(m, "shape_full", err)
	}
	defer scratch.Release()

	if n > 0 {
		view, ok := m.Memory().Read(ptr, uint32(size))
		if !ok {
			return h.fail(m, "shape_full", &memoryError{op: "shape_full", ptr: ptr, size: uint32(size)})
		}
		for i := range scratch.Len() {
			scratch.Set(i, decodeFeature(view[i*featureRecordSize:]))
		}
	}

	if err := hb.ShapeFull(f, b, scratch.Features(), nil); err != nil {
		return h.fail(m, "shape_full", err)
	}
	return StatusOK
}

// version writes the engine version string and returns its length.
func (h *Host) version(_ context.Context, m api.Module, ptr, capacity uint32) uint32 {
	return h.writeString("version", m, ptr, capacity, hb.Version())
}

// shapers writes the comma-separated shaper list and returns its length.
func (h *Host) shapers(_ context.Context, m api.Module, ptr, capacity uint32) uint32 {
	return h.writeString("shapers", m, ptr, capacity, strings.Join(hb.Shapers(), ","))
}

// lastError writes the message of the calling guest's most recent failure.
func (h *Host) lastError(_ context.Context, m api.Module, ptr, capacity uint32) uint32 {
	h.mu.Lock()
	msg := h.lastErr[m]
	h.mu.Unlock()
	return h.writeString("last_error", m, ptr, capacity, msg)
}
