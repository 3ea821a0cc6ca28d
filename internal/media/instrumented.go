package media

import (
	"context"
	"io"
	"time"

	"expo_leads/internal/logger"
	"expo_leads/internal/metrics"
)

// instrumentedStore records metrics and logs around another Store
type instrumentedStore struct {
	next Store
}

// Instrument wraps s with upload metrics
func Instrument(s Store) Store {
	if _, ok := s.(*instrumentedStore); ok {
		return s
	}
	return &instrumentedStore{next: s}
}

func (s *instrumentedStore) Name() string { return s.next.Name() }

// Close releases the wrapped store when it holds a client
func (s *instrumentedStore) Close() error {
	if c, ok := s.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *instrumentedStore) Upload(ctx context.Context, obj Object) (string, error) {
	started := time.Now()
	url, err := s.next.Upload(ctx, obj)
	metrics.ObserveUpload(s.next.Name(), started, err)

	entry := logger.WithModule("media").WithFields(map[string]interface{}{
		"backend":  s.next.Name(),
		"key":      obj.Key,
		"bytes":    len(obj.Data),
		"duration": time.Since(started).String(),
	})
	if err != nil {
		entry.WithError(err).Error("Media upload failed")
		return "", err
	}
	entry.Debug("Media uploaded")
	return url, nil
}
