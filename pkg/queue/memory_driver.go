package queue

import "context"

type memoryDriver struct {
	ch chan []byte
}

func newMemoryDriver() *memoryDriver {
	return &memoryDriver{ch: make(chan []byte, 1024)}
}

func (m *memoryDriver) Push(ctx context.Context, payload []byte) error {
	select {
	case m.ch <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *memoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case payload := <-m.ch:
		return payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
