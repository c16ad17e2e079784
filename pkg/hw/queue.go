package hw

import "context"

// DefaultQueueLen is the default capacity of a ByteQueue.
const DefaultQueueLen = 16

// ByteQueue buffers received bytes for a SpeedReceiver. When full,
// the oldest byte is dropped so the producer never blocks.
type ByteQueue struct {
	ch chan byte
}

// NewByteQueue creates a ByteQueue, size <= 0 uses DefaultQueueLen.
func NewByteQueue(size int) *ByteQueue {
	if size <= 0 {
		size = DefaultQueueLen
	}
	return &ByteQueue{ch: make(chan byte, size)}
}

// Push enqueues a byte, dropping the oldest if full. It reports
// whether a byte was dropped.
func (q *ByteQueue) Push(b byte) (dropped bool) {
	for {
		select {
		case q.ch <- b:
			return
		default:
		}
		select {
		case <-q.ch:
			dropped = true
		default:
		}
	}
}

// Len returns the number of queued bytes.
func (q *ByteQueue) Len() int {
	return len(q.ch)
}

// ReceiveByte implements SpeedReceiver.
func (q *ByteQueue) ReceiveByte(ctx context.Context) (byte, error) {
	select {
	case v := <-q.ch:
		return v, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

var _ SpeedReceiver = (*ByteQueue)(nil)
