package parserc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/darkedge/mj-yaml/internal/yamlh"
)

func TestDefaultBufferPoolGetReturnsZeroLengthCapacity(t *testing.T) {
	buf := defaultBufferPool.get(128)
	require.Len(t, buf, 0)
	require.GreaterOrEqual(t, cap(buf), 128)
}

func TestDefaultBufferPoolRecyclesPutBuffers(t *testing.T) {
	buf := make([]byte, 0, rawBufferBucketSize)
	defaultBufferPool.put(buf)

	got := defaultBufferPool.get(rawBufferBucketSize)
	require.GreaterOrEqual(t, cap(got), rawBufferBucketSize)
}

func TestBufferPoolGetUpgradesUndersizedCustomBuffer(t *testing.T) {
	pool := BufferPool{
		Get: func(size int) []byte { return make([]byte, 0, 1) },
	}
	buf := pool.get(64)
	require.GreaterOrEqual(t, cap(buf), 64)
}

func TestBufferPoolZeroValueFallsBackToMake(t *testing.T) {
	var pool BufferPool
	buf := pool.get(32)
	require.Len(t, buf, 0)
	require.GreaterOrEqual(t, cap(buf), 32)
	pool.put(buf) // must not panic with nil Put
}

func TestSetPoolReturnsOldBuffersAndDrawsFromNew(t *testing.T) {
	var released []int
	trackingPool := BufferPool{
		Get: func(size int) []byte { return make([]byte, 0, size) },
		Put: func(buf []byte) { released = append(released, cap(buf)) },
	}

	p := New(nil)
	p.SetPool(trackingPool)
	require.Empty(t, released) // the default pool's buffers went back to the default pool
	require.NotNil(t, p.Raw_buffer)
	require.NotNil(t, p.Buffer)

	p.SetPool(BufferPool{})
	require.Len(t, released, 2) // trackingPool's Raw_buffer and Buffer
	require.NotNil(t, p.Raw_buffer)
	require.NotNil(t, p.Buffer)
}

func TestParseReleasesBuffersOnCleanStreamEnd(t *testing.T) {
	var puts int
	trackingPool := BufferPool{
		Get: func(size int) []byte { return make([]byte, 0, size) },
		Put: func(buf []byte) { puts++ },
	}

	p := New(strings.NewReader("a: b\n"))
	p.SetPool(trackingPool)
	puts = 0 // SetPool itself released the default pool's buffers; ignore that

	for {
		ev, err := Parse(p)
		require.NoError(t, err)
		if ev.Type == yamlh.STREAM_END_EVENT {
			break
		}
	}

	require.Equal(t, 2, puts) // Raw_buffer and Buffer handed back on completion
	require.Nil(t, p.Raw_buffer)
	require.Nil(t, p.Buffer)
}

func TestParseReleasesBuffersOnError(t *testing.T) {
	var puts int
	trackingPool := BufferPool{
		Get: func(size int) []byte { return make([]byte, 0, size) },
		Put: func(buf []byte) { puts++ },
	}

	p := New(strings.NewReader("a: \"unterminated\n"))
	p.SetPool(trackingPool)
	puts = 0

	var err error
	for err == nil {
		_, err = Parse(p)
	}

	require.Equal(t, 2, puts)
	require.Nil(t, p.Raw_buffer)
	require.Nil(t, p.Buffer)
}
