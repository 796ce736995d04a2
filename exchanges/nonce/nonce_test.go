package nonce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	for _, seed := range []int64{1, 5, 1337, 1700000000} {
		n := New(seed)
		assert.Equal(t, Value(seed), n.Get(), "New must not advance the seed")
		assert.Equal(t, Value(seed+1), n.GetInc(), "first emitted nonce must be seed+1")
		assert.Equal(t, Value(seed+2), n.GetInc(), "each emitted nonce must be previous+1")
	}

	before := time.Now().Unix()
	n := New(0)
	after := time.Now().Unix()
	v := int64(n.Get())
	assert.GreaterOrEqual(t, v, before, "zero seed must start from the current unix time")
	assert.LessOrEqual(t, v, after, "zero seed must start from the current unix time")
}

func TestGet(t *testing.T) {
	t.Parallel()
	var nonce Nonce
	nonce.Set(112321313)
	assert.Equal(t, Value(112321313), nonce.Get())
}

func TestGetInc(t *testing.T) {
	t.Parallel()
	var nonce Nonce
	nonce.Set(1)
	assert.Equal(t, Value(2), nonce.GetInc())
	nonce.Inc()
	assert.Equal(t, Value(4), nonce.GetInc())
}

func TestString(t *testing.T) {
	t.Parallel()
	var nonce Nonce
	nonce.Set(12312313131)
	assert.Equal(t, "12312313131", nonce.String())
	assert.Equal(t, "12312313131", nonce.Get().String())
}

func TestNonceConcurrency(t *testing.T) {
	t.Parallel()
	nonce := New(12312)

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[Value]struct{}, 1000)
	wg.Add(1000)
	for i := 0; i < 1000; i++ {
		go func() {
			defer wg.Done()
			v := nonce.GetInc()
			mu.Lock()
			seen[v] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, 1000, "concurrent callers must never share a nonce")
	assert.Equal(t, Value(12312+1000), nonce.Get())
}
