package kv

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ErrQueueFull is returned when a write could not be queued without blocking
var ErrQueueFull = errors.New("kv: write queue full")

const defaultWriteTimeout = 5 * time.Second

// writeRequest is a queued mutation of the backing store
type writeRequest struct {
	key    string
	value  string
	delete bool
	seq    uint64
}

// AsyncWriter wraps a Store so that Set and Delete never block the caller.
// Mutations are applied in order by a single goroutine. Reads see queued
// values before they reach the backing store.
type AsyncWriter struct {
	backend  Store
	logger   *slog.Logger
	timeout  time.Duration
	requests chan writeRequest
	done     chan struct{}

	mu        sync.Mutex
	pending   map[string]writeRequest
	seq       uint64
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// AsyncOption configures an AsyncWriter
type AsyncOption func(*AsyncWriter)

// WithLogger sets the logger used to report failed writes
func WithLogger(logger *slog.Logger) AsyncOption {
	return func(w *AsyncWriter) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithQueueSize sets the number of writes that may be in flight
func WithQueueSize(size int) AsyncOption {
	return func(w *AsyncWriter) {
		if size > 0 {
			w.requests = make(chan writeRequest, size)
		}
	}
}

// WithWriteTimeout bounds each backing store write
func WithWriteTimeout(timeout time.Duration) AsyncOption {
	return func(w *AsyncWriter) {
		if timeout > 0 {
			w.timeout = timeout
		}
	}
}

// NewAsyncWriter starts the writer goroutine for backend
func NewAsyncWriter(backend Store, opts ...AsyncOption) *AsyncWriter {
	w := &AsyncWriter{
		backend:  backend,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:  defaultWriteTimeout,
		requests: make(chan writeRequest, 16),
		done:     make(chan struct{}),
		pending:  make(map[string]writeRequest),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.processRequests()
	return w
}

func (w *AsyncWriter) Get(ctx context.Context, key string) (string, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return "", ErrClosed
	}
	req, ok := w.pending[key]
	w.mu.Unlock()
	if ok {
		if req.delete {
			return "", ErrNotFound
		}
		return req.value, nil
	}
	return w.backend.Get(ctx, key)
}

func (w *AsyncWriter) Set(_ context.Context, key, value string) error {
	return w.enqueue(writeRequest{key: key, value: value})
}

func (w *AsyncWriter) Delete(_ context.Context, key string) error {
	return w.enqueue(writeRequest{key: key, delete: true})
}

// Keys lists backing store keys merged with queued writes
func (w *AsyncWriter) Keys(ctx context.Context) ([]string, error) {
	keys, err := w.backend.Keys(ctx)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	seen := make(map[string]bool, len(keys))
	merged := keys[:0]
	for _, k := range keys {
		if req, ok := w.pending[k]; ok && req.delete {
			continue
		}
		seen[k] = true
		merged = append(merged, k)
	}
	for k, req := range w.pending {
		if !req.delete && !seen[k] {
			merged = append(merged, k)
		}
	}
	sort.Strings(merged)
	return merged, nil
}

// Close drains queued writes and closes the backing store
func (w *AsyncWriter) Close() error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.requests)
		w.mu.Unlock()

		<-w.done
		w.closeErr = w.backend.Close()
	})
	return w.closeErr
}

func (w *AsyncWriter) enqueue(req writeRequest) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	w.seq++
	req.seq = w.seq
	select {
	case w.requests <- req:
		w.pending[req.key] = req
		return nil
	default:
		w.logger.Warn("dropping store write", "key", req.key, "error", ErrQueueFull)
		return ErrQueueFull
	}
}

// processRequests applies queued writes until the queue is closed
func (w *AsyncWriter) processRequests() {
	defer close(w.done)
	for req := range w.requests {
		w.handleRequest(req)
	}
}

func (w *AsyncWriter) handleRequest(req writeRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	var err error
	if req.delete {
		err = w.backend.Delete(ctx, req.key)
	} else {
		err = w.backend.Set(ctx, req.key, req.value)
	}
	if err != nil {
		w.logger.Warn("store write failed", "key", req.key, "error", err)
	}

	// Only clear the overlay if no newer write for the key was queued meanwhile.
	w.mu.Lock()
	if current, ok := w.pending[req.key]; ok && current.seq == req.seq {
		delete(w.pending, req.key)
	}
	w.mu.Unlock()
}
