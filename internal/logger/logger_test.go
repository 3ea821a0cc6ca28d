package logger

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards bytes.Buffer against the async writer goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger(cfg *LogConfig, out *syncBuffer) (*logrus.Logger, *AsyncHook) {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetOutput(&bytes.Buffer{})
	l.AddHook(NewFilterHook(cfg))
	hook := NewAsyncHookWithWriters([]io.Writer{out}, 10)
	l.AddHook(hook)
	return l, hook
}

func TestParseFilter(t *testing.T) {
	assert.Nil(t, parseFilter(""))
	assert.Nil(t, parseFilter(" * "))
	assert.Equal(t, map[string]bool{"expo": true, "media": true}, parseFilter("Expo, media,"))
}

func TestAsyncHook_WritesAndDrainsOnClose(t *testing.T) {
	out := &syncBuffer{}
	l, hook := newTestLogger(&LogConfig{}, out)

	l.WithField("module", "expo").Info("lead created")
	l.Warn("slow query")
	require.NoError(t, hook.Close())

	s := out.String()
	assert.Contains(t, s, "lead created")
	assert.Contains(t, s, "slow query")

	// after Close the hook writes synchronously
	l.Info("after close")
	assert.Contains(t, out.String(), "after close")
	assert.NoError(t, hook.Close())
}

func TestAsyncHook_ConcurrentWritersKeepLinesIntact(t *testing.T) {
	out := &syncBuffer{}
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetOutput(io.Discard)
	l.AddHook(NewFilterHook(&LogConfig{}))
	hook := NewAsyncHookWithWriters([]io.Writer{out}, 8*500)
	l.AddHook(hook)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				l.WithField("worker", worker).WithField("seq", i).Info("concurrent")
			}
		}(w)
	}
	wg.Wait()
	require.NoError(t, hook.Close())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 8*500)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "level=info msg=concurrent "), line)
		assert.Contains(t, line, "worker=")
	}
}

func TestFilterHook_DropsRejectedEntries(t *testing.T) {
	out := &syncBuffer{}
	l, hook := newTestLogger(&LogConfig{FilterModules: "media", FilterLevels: "info,error"}, out)

	l.WithField("module", "media").Info("upload ok")
	l.WithField("module", "expo").Info("lead created")
	l.WithField("module", "media").Debug("debug noise")
	l.Error("no module field")
	require.NoError(t, hook.Close())

	s := out.String()
	assert.Contains(t, s, "upload ok")
	assert.Contains(t, s, "no module field")
	assert.NotContains(t, s, "lead created")
	assert.NotContains(t, s, "debug noise")
}

func TestWithRequest_PicksUpRequestID(t *testing.T) {
	require.NoError(t, Init(&LogConfig{Level: "info", Format: "json", Output: "none", LogPath: t.TempDir()}))
	t.Cleanup(func() {
		Shutdown()
		loggersMu.Lock()
		config = nil
		loggersMu.Unlock()
	})

	app := fiber.New()
	var fields logrus.Fields
	var errEntry *logrus.Entry
	app.Get("/api/leads", func(c fiber.Ctx) error {
		fields = WithRequest(c).WithField("module", "expo").Data
		errEntry = ErrorWithRequest(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/api/leads", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	assert.Equal(t, "abc-123", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/leads", fields["path"])
	assert.Equal(t, "expo", fields["module"])

	require.NotNil(t, errEntry)
	assert.Same(t, GetErrorLogger(), errEntry.Logger)
	assert.Equal(t, "abc-123", errEntry.Data["request_id"])
}
