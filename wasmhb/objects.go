package wasmhb

import (
	"context"
	"encoding/binary"

	"github.com/tetratelabs/wazero/api"

	"github.com/boxesandglue/luatextshape/hb"
)

// glyphRecordSize is the size of one buffer_get_glyphs record: codepoint,
// cluster, x_advance, y_advance, x_offset, y_offset as little-endian 32-bit
// integers.
const glyphRecordSize = 24

func (h *Host) blobCreate(_ context.Context, m api.Module, ptr, size uint32) uint32 {
	data, err := h.read("blob_create", m, ptr, size)
	if err != nil {
		h.fail(m, "blob_create", err)
		return 0
	}
	return h.handles.insert(kindBlob, hb.NewBlob(data))
}

func (h *Host) faceCreate(_ context.Context, m api.Module, blob, index uint32) uint32 {
	b, ok := getTyped[*hb.Blob](h.handles, blob, kindBlob)
	if !ok {
		h.typeError(m, "face_create", 1, blob, kindBlob)
		return 0
	}
	face, err := hb.NewFace(b, int(index))
	if err != nil {
		h.fail(m, "face_create", err)
		return 0
	}
	return h.handles.insert(kindFace, face)
}

func (h *Host) fontCreate(_ context.Context, m api.Module, face uint32) uint32 {
	f, ok := getTyped[*hb.Face](h.handles, face, kindFace)
	if !ok {
		h.typeError(m, "font_create", 1, face, kindFace)
		return 0
	}
	font, err := hb.NewFont(f)
	if err != nil {
		h.fail(m, "font_create", err)
		return 0
	}
	return h.handles.insert(kindFont, font)
}

func (h *Host) fontSetScale(_ context.Context, m api.Module, font, x, y uint32) uint32 {
	f, ok := getTyped[*hb.Font](h.handles, font, kindFont)
	if !ok {
		return h.typeError(m, "font_set_scale", 1, font, kindFont)
	}
	f.SetScale(int(int32(x)), int(int32(y)))
	return StatusOK
}

func (h *Host) bufferCreate(context.Context, api.Module) uint32 {
	return h.handles.insert(kindBuffer, hb.NewBuffer())
}

func (h *Host) buffer(m api.Module, fn string, handle uint32) (*hb.Buffer, uint32) {
	b, ok := getTyped[*hb.Buffer](h.handles, handle, kindBuffer)
	if !ok {
		return nil, h.typeError(m, fn, 1, handle, kindBuffer)
	}
	return b, StatusOK
}

func (h *Host) bufferAddUTF8(_ context.Context, m api.Module, buf, ptr, size uint32) uint32 {
	b, status := h.buffer(m, "buffer_add_utf8", buf)
	if b == nil {
		return status
	}
	text, err := h.read("buffer_add_utf8", m, ptr, size)
	if err != nil {
		return h.fail(m, "buffer_add_utf8", err)
	}
	if err := b.AddUTF8(string(text), 0, -1); err != nil {
		return h.fail(m, "buffer_add_utf8", err)
	}
	return StatusOK
}

func (h *Host) bufferSetDirection(_ context.Context, m api.Module, buf, dir uint32) uint32 {
	b, status := h.buffer(m, "buffer_set_direction", buf)
	if b == nil {
		return status
	}
	d := hb.Direction(dir)
	if d != hb.DirectionInvalid && !d.IsValid() {
		return h.fail(m, "buffer_set_direction", hb.InvalidInput("buffer_set_direction", "unknown direction"))
	}
	b.SetDirection(d)
	return StatusOK
}

func (h *Host) bufferSetScript(_ context.Context, m api.Module, buf, tag uint32) uint32 {
	b, status := h.buffer(m, "buffer_set_script", buf)
	if b == nil {
		return status
	}
	b.SetScript(hb.ScriptFromISO15924Tag(hb.Tag(tag)))
	return StatusOK
}

func (h *Host) bufferSetLanguage(_ context.Context, m api.Module, buf, ptr, size uint32) uint32 {
	b, status := h.buffer(m, "buffer_set_language", buf)
	if b == nil {
		return status
	}
	lang, err := h.read("buffer_set_language", m, ptr, size)
	if err != nil {
		return h.fail(m, "buffer_set_language", err)
	}
	b.SetLanguage(hb.ParseLanguage(string(lang)))
	return StatusOK
}

func (h *Host) bufferGuessSegmentProperties(_ context.Context, m api.Module, buf uint32) uint32 {
	b, status := h.buffer(m, "buffer_guess_segment_properties", buf)
	if b == nil {
		return status
	}
	b.GuessSegmentProperties()
	return StatusOK
}

// bufferGetLength returns the number of entries, or 0xFFFFFFFF for a bad
// handle.
func (h *Host) bufferGetLength(_ context.Context, m api.Module, buf uint32) uint32 {
	b, _ := h.buffer(m, "buffer_get_length", buf)
	if b == nil {
		return errorLength
	}
	return uint32(b.Len())
}

// bufferGetGlyphs writes up to capacity glyph records at ptr and returns the
// total number of glyphs, or 0xFFFFFFFF on failure.
func (h *Host) bufferGetGlyphs(_ context.Context, m api.Module, buf, ptr, capacity uint32) uint32 {
	b, _ := h.buffer(m, "buffer_get_glyphs", buf)
	if b == nil {
		return errorLength
	}
	glyphs := b.Glyphs()
	n := min(len(glyphs), int(capacity))
	if n > 0 {
		out := make([]byte, n*glyphRecordSize)
		for i, g := range glyphs[:n] {
			rec := out[i*glyphRecordSize:]
			binary.LittleEndian.PutUint32(rec[0:], g.Codepoint)
			binary.LittleEndian.PutUint32(rec[4:], uint32(g.Cluster))
			binary.LittleEndian.PutUint32(rec[8:], uint32(int32(g.XAdvance)))
			binary.LittleEndian.PutUint32(rec[12:], uint32(int32(g.YAdvance)))
			binary.LittleEndian.PutUint32(rec[16:], uint32(int32(g.XOffset)))
			binary.LittleEndian.PutUint32(rec[20:], uint32(int32(g.YOffset)))
		}
		if err := h.write("buffer_get_glyphs", m, ptr, out); err != nil {
			h.fail(m, "buffer_get_glyphs", err)
			return errorLength
		}
	}
	return uint32(len(glyphs))
}

// destroy drops any handle.
func (h *Host) destroy(_ context.Context, m api.Module, handle uint32) uint32 {
	if !h.handles.remove(handle) {
		return h.fail(m, "destroy", hb.TypeMismatch("destroy", 1, "handle", "invalid handle"))
	}
	return StatusOK
}
