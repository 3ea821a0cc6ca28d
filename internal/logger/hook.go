package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook formats entries on the caller and writes the bytes from a single goroutine
type AsyncHook struct {
	writers []io.Writer
	entries chan []byte
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewAsyncHookWithWriters starts an async hook over writers.
// bufferSize <= 0 means 1000 entries.
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	hook := &AsyncHook{
		writers: writers,
		entries: make(chan []byte, bufferSize),
	}

	hook.wg.Add(1)
	go hook.processEntries()

	return hook
}

// Levels returns every level
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire formats the entry and queues the line without blocking; a full buffer drops it.
// The entry itself never leaves the calling goroutine.
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	if filtered, ok := entry.Data[filteredKey].(bool); ok && filtered {
		return nil
	}

	data, err := format(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		h.write(data)
		return nil
	}

	select {
	case h.entries <- data:
	default:
	}
	return nil
}

func (h *AsyncHook) write(data []byte) {
	for _, w := range h.writers {
		_, _ = w.Write(data)
	}
}

// processEntries drains the queue; a panic in a writer never reaches the server
func (h *AsyncHook) processEntries() {
	defer h.wg.Done()

	for data := range h.entries {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// logging here would recurse
					fmt.Fprintf(os.Stderr, "[LOGGER PANIC] recovered: %v\n", r)
					debug.PrintStack()
				}
			}()
			h.write(data)
		}()
	}
}

// Close stops accepting entries and waits for the queue to drain
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.entries)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}

// format renders entry into a fresh slice; logrus has not attached its pooled buffer while hooks run
func format(entry *logrus.Entry) ([]byte, error) {
	if entry.Logger != nil && entry.Logger.Formatter != nil {
		data, err := entry.Logger.Formatter.Format(entry)
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), data...), nil
	}
	line, err := entry.String()
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}
