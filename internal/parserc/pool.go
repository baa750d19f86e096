//
// Copyright (c) 2011-2019 Canonical Ltd
// Copyright (c) 2006-2010 Kirill Simonov
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package parserc

import "sync"

// BufferPool supplies the raw-input and character buffers the reader grows
// while decoding. It stands in for the allocate/reallocate/free hooks
// libyaml takes on yaml_parser_t; Go's garbage collector removes the need
// for a free side, so only Get and Put remain.
//
// Get must return a slice with length 0 and capacity at least size. Put
// returns a buffer obtained from Get for reuse; it may be a no-op.
type BufferPool struct {
	Get func(size int) []byte
	Put func([]byte)
}

func (p BufferPool) get(size int) []byte {
	if p.Get == nil {
		return make([]byte, 0, size)
	}
	buf := p.Get(size)
	if cap(buf) < size {
		return make([]byte, 0, size)
	}
	return buf[:0]
}

func (p BufferPool) put(buf []byte) {
	if p.Put != nil {
		p.Put(buf)
	}
}

// defaultBufferPool buckets buffers by the two fixed sizes the reader asks
// for (Input_raw_buffer_size and Input_buffer_size) so the pool never hands back an
// undersized slice.
var defaultBufferPool = BufferPool{
	Get: func(size int) []byte {
		v := syncPoolFor(size).Get()
		buf := v.([]byte)
		if cap(buf) < size {
			return make([]byte, 0, size)
		}
		return buf[:0]
	},
	Put: func(buf []byte) {
		syncPoolFor(cap(buf)).Put(buf) //nolint:staticcheck // size bucketed below
	},
}

var (
	rawBufferSyncPool sync.Pool
	bufferSyncPool    sync.Pool
)

func syncPoolFor(size int) *sync.Pool {
	// The reader only ever grows two distinct buffers; route by the
	// requested size so pooled slices are never handed back undersized.
	if size <= rawBufferBucketSize {
		return &rawBufferSyncPool
	}
	return &bufferSyncPool
}

const rawBufferBucketSize = 512

func init() {
	rawBufferSyncPool.New = func() interface{} { return make([]byte, 0, rawBufferBucketSize) }
	bufferSyncPool.New = func() interface{} { return make([]byte, 0, 1536) }
}
