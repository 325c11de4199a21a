package logger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBufferRecentOrder(t *testing.T) {
	buf := NewBuffer(3)
	for i := 0; i < 5; i++ {
		buf.Add(LogEntry{Message: fmt.Sprintf("msg %d", i)})
	}

	all := buf.Recent(0)
	require.Len(t, all, 3)
	assert.Equal(t, "msg 2", all[0].Message)
	assert.Equal(t, "msg 4", all[2].Message)

	last := buf.Recent(2)
	require.Len(t, last, 2)
	assert.Equal(t, "msg 3", last[0].Message)
	assert.Equal(t, uint64(5), buf.Total())
}

func TestBufferBeforeWrap(t *testing.T) {
	buf := NewBuffer(10)
	buf.Add(LogEntry{Message: "a"})
	buf.Add(LogEntry{Message: "b"})

	logs := buf.Recent(5)
	require.Len(t, logs, 2)
	assert.Equal(t, "a", logs[0].Message)
}

func TestBufferConcurrentAccess(t *testing.T) {
	buf := NewBuffer(50)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf.Add(LogEntry{Message: fmt.Sprintf("g%d-%d", id, j)})
				_ = buf.Recent(5)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, uint64(800), buf.Total())
	assert.Len(t, buf.Recent(0), 50)
}

func TestBufferCoreCapturesFields(t *testing.T) {
	buf := NewBuffer(10)
	log := zap.New(NewBufferCore(buf, zap.InfoLevel)).Named("presale").With(zap.String("account", "0xabc"))

	log.Debug("hidden")
	log.Warn("refresh failed", zap.Int("attempt", 2))

	logs := buf.Recent(0)
	require.Len(t, logs, 1)
	assert.Equal(t, "WARN", logs[0].Level)
	assert.Equal(t, "presale", logs[0].Logger)
	assert.Equal(t, "refresh failed", logs[0].Message)
	assert.Equal(t, "0xabc", logs[0].Fields["account"])
	assert.EqualValues(t, 2, logs[0].Fields["attempt"])
}

func TestNewWithoutConsole(t *testing.T) {
	buf := NewBuffer(10)
	log, err := New(&Config{Buffer: buf, Development: true})
	require.NoError(t, err)

	log.WithOperation("claim").Info("submitted")
	require.Len(t, buf.Recent(0), 1)
	assert.Contains(t, buf.Recent(0)[0].Fields, "correlation_id")
	assert.NoError(t, log.Sync())
}

func TestTrackPerformance(t *testing.T) {
	buf := NewBuffer(10)
	log, err := New(&Config{Buffer: buf, Development: true})
	require.NoError(t, err)

	end := log.TrackPerformance("presale")
	end()

	logs := buf.Recent(0)
	require.Len(t, logs, 2)
	assert.Equal(t, "Starting operation", logs[0].Message)
	assert.Equal(t, "Operation completed", logs[1].Message)
	assert.Equal(t, "presale", logs[1].Fields["operation"])
	assert.Contains(t, logs[1].Fields, "duration_ms")
}
