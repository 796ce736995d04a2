package nonce

import (
	"strconv"
	"sync"
	"time"
)

// Nonce struct holds the nonce value
type Nonce struct {
	n int64
	m sync.Mutex
}

// New returns a nonce starting at seed. A zero seed starts the counter at the
// current Unix time in seconds. The seed itself is never emitted by GetInc,
// the first value handed out is seed+1.
func New(seed int64) *Nonce {
	if seed == 0 {
		seed = time.Now().Unix()
	}
	return &Nonce{n: seed}
}

// Inc increments the nonce value
func (n *Nonce) Inc() {
	n.m.Lock()
	n.n++
	n.m.Unlock()
}

// Get retrives the nonce value
func (n *Nonce) Get() Value {
	n.m.Lock()
	defer n.m.Unlock()
	return Value(n.n)
}

// GetInc increments and returns the value of the nonce
func (n *Nonce) GetInc() Value {
	n.m.Lock()
	defer n.m.Unlock()
	n.n++
	return Value(n.n)
}

// Set sets the nonce value
func (n *Nonce) Set(val int64) {
	n.m.Lock()
	n.n = val
	n.m.Unlock()
}

// String returns a string version of the nonce
func (n *Nonce) String() string {
	return n.Get().String()
}

// Value is a return type for GetValue
type Value int64

// String is a Value method that changes format to a string
func (v Value) String() string {
	return strconv.FormatInt(int64(v), 10)
}
