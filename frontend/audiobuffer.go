package frontend

import (
	"io"
	"sync"
)

// AudioRingBuffer is a fixed-size byte ring between the host audio sink and
// an audio device. Writes never block: when full, the oldest bytes are
// dropped. Reads block until data arrives or the buffer is closed.
type AudioRingBuffer struct {
	mu       sync.Mutex
	cond     *sync.Cond
	data     []byte
	readPos  int
	writePos int
	count    int
	closed   bool
}

// NewAudioRingBuffer creates a ring holding up to capacity bytes.
func NewAudioRingBuffer(capacity int) *AudioRingBuffer {
	rb := &AudioRingBuffer{data: make([]byte, capacity)}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// Write appends p, overwriting the oldest data on overflow.
func (rb *AudioRingBuffer) Write(p []byte) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.closed || len(rb.data) == 0 {
		return
	}

	capacity := len(rb.data)
	if len(p) >= capacity {
		// only the tail fits
		copy(rb.data, p[len(p)-capacity:])
		rb.readPos = 0
		rb.writePos = 0
		rb.count = capacity
		rb.cond.Broadcast()
		return
	}

	if overflow := rb.count + len(p) - capacity; overflow > 0 {
		rb.readPos = (rb.readPos + overflow) % capacity
		rb.count -= overflow
	}

	n := copy(rb.data[rb.writePos:], p)
	if n < len(p) {
		copy(rb.data, p[n:])
	}
	rb.writePos = (rb.writePos + len(p)) % capacity
	rb.count += len(p)
	rb.cond.Broadcast()
}

// Read fills p with buffered bytes, blocking while the ring is empty.
// After Close, remaining bytes are still returned, then io.EOF.
func (rb *AudioRingBuffer) Read(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for rb.count == 0 && !rb.closed {
		rb.cond.Wait()
	}
	if rb.count == 0 {
		return 0, io.EOF
	}

	n := len(p)
	if n > rb.count {
		n = rb.count
	}
	capacity := len(rb.data)
	first := copy(p[:n], rb.data[rb.readPos:])
	if first < n {
		copy(p[first:n], rb.data)
	}
	rb.readPos = (rb.readPos + n) % capacity
	rb.count -= n
	return n, nil
}

// Buffered returns the number of unread bytes.
func (rb *AudioRingBuffer) Buffered() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Capacity returns the ring size in bytes.
func (rb *AudioRingBuffer) Capacity() int {
	return len(rb.data)
}

// Clear drops all buffered data.
func (rb *AudioRingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.readPos = 0
	rb.writePos = 0
	rb.count = 0
}

// Close stops accepting writes and wakes blocked readers.
func (rb *AudioRingBuffer) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	rb.cond.Broadcast()
}
