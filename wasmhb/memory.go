package wasmhb

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/boxesandglue/luatextshape/hb"
)

// memoryError reports a guest pointer range outside linear memory.
type memoryError struct {
	op        string
	ptr, size uint32
}

func (e *memoryError) Error() string {
	return fmt.Sprintf("%s: memory range [%d, %d) out of bounds", e.op, e.ptr, uint64(e.ptr)+uint64(e.size))
}

// read copies size bytes at ptr out of the guest's memory.
func (h *Host) read(op string, m api.Module, ptr, size uint32) ([]byte, error) {
	if int64(size) > int64(h.cfg.MaxRequestSize) {
		return nil, hb.AllocationError(op, fmt.Sprintf("%d bytes exceed the request limit of %d", size, h.cfg.MaxRequestSize))
	}
	view, ok := m.Memory().Read(ptr, size)
	if !ok {
		return nil, &memoryError{op: op, ptr: ptr, size: size}
	}
	return append([]byte(nil), view...), nil
}

func (h *Host) write(op string, m api.Module, ptr uint32, data []byte) error {
	if !m.Memory().Write(ptr, data) {
		return &memoryError{op: op, ptr: ptr, size: uint32(len(data))}
	}
	return nil
}

// writeString writes as much of s as fits in capacity bytes at ptr and
// returns the full length of s, so guests can retry with a larger buffer.
func (h *Host) writeString(op string, m api.Module, ptr, capacity uint32, s string) uint32 {
	n := min(uint32(len(s)), capacity)
	if n > 0 {
		if err := h.write(op, m, ptr, []byte(s[:n])); err != nil {
			h.fail(m, op, err)
			return errorLength
		}
	}
	return uint32(len(s))
}
