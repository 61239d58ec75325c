package hb

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// DefaultMaxFeatures bounds the number of feature records a single shaping
// call may marshal.
const DefaultMaxFeatures = 1 << 16

// DefaultFeaturePool is shared by bindings that are not given their own pool.
var DefaultFeaturePool = NewFeaturePool(DefaultMaxFeatures)

// FeaturePool hands out scratch feature arrays for the duration of one
// shaping call. It is safe for concurrent use.
type FeaturePool struct {
	max         int
	arrays      sync.Pool
	outstanding atomic.Int64
}

// NewFeaturePool returns a pool that refuses arrays longer than max records.
// A max of zero or less means no limit.
func NewFeaturePool(max int) *FeaturePool {
	return &FeaturePool{max: max}
}

// Max returns the record limit, or zero if there is none.
func (p *FeaturePool) Max() int {
	if p.max < 0 {
		return 0
	}
	return p.max
}

// Outstanding returns the number of acquired arrays not yet released.
func (p *FeaturePool) Outstanding() int {
	return int(p.outstanding.Load())
}

// Acquire returns a scratch array of exactly n records. For n == 0 the array
// is nil. The caller must Release it, normally with defer.
func (p *FeaturePool) Acquire(n int) (*FeatureScratch, error) {
	if n < 0 {
		return nil, InvalidInput("acquire", fmt.Sprintf("negative feature count %d", n))
	}
	if p.max > 0 && n > p.max {
		return nil, AllocationError("acquire", fmt.Sprintf("%d feature records exceed the limit of %d", n, p.max))
	}
	s := &FeatureScratch{pool: p}
	if n > 0 {
		if v, ok := p.arrays.Get().(*[]Feature); ok && cap(*v) >= n {
			s.backing = v
		} else {
			if ok {
				p.arrays.Put(v)
			}
			arr := make([]Feature, n)
			s.backing = &arr
		}
		s.features = (*s.backing)[:n]
	}
	p.outstanding.Add(1)
	return s, nil
}

// FeatureScratch is a contiguous feature array borrowed from a FeaturePool.
type FeatureScratch struct {
	pool     *FeaturePool
	backing  *[]Feature
	features []Feature
	released bool
}

// Len returns the number of records.
func (s *FeatureScratch) Len() int {
	return len(s.features)
}

// Set stores f in slot i.
func (s *FeatureScratch) Set(i int, f Feature) {
	s.features[i] = f
}

// Features returns the records. The slice is only valid until Release.
func (s *FeatureScratch) Features() []Feature {
	return s.features
}

// Release returns the array to its pool. Calling it more than once is a
// no-op.
func (s *FeatureScratch) Release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	if s.backing != nil {
		clear(*s.backing)
		s.pool.arrays.Put(s.backing)
	}
	s.backing = nil
	s.features = nil
	s.pool.outstanding.Add(-1)
}
