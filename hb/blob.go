package hb

import "os"

// Blob is an immutable chunk of font data.
type Blob struct {
	data []byte
}

// NewBlob returns a blob holding a copy of data.
func NewBlob(data []byte) *Blob {
	return &Blob{data: append([]byte(nil), data...)}
}

// NewBlobFromFile reads path into a blob.
func NewBlobFromFile(path string) (*Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("blob", err)
	}
	return &Blob{data: data}, nil
}

// Len returns the number of bytes in the blob.
func (b *Blob) Len() int {
	return len(b.data)
}

// Data returns the blob's bytes. Callers must not modify them.
func (b *Blob) Data() []byte {
	return b.data
}
